package volume

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlanNoneKeepsSingleVolume(t *testing.T) {
	entries := []Entry{{Name: "a", Size: 10}, {Name: "b", Size: 20}}
	groups := Plan(ModeNone, entries, 5)
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("expected a single volume with both entries, got %+v", groups)
	}
}

func TestPlanAutoStartsNewVolumeOnOverflow(t *testing.T) {
	entries := []Entry{
		{Name: "ch01", Size: 40},
		{Name: "ch02", Size: 40},
		{Name: "ch03", Size: 40},
	}
	groups := Plan(ModeAuto, entries, 70)
	if len(groups) != 2 {
		t.Fatalf("expected 2 volumes, got %d: %+v", len(groups), groups)
	}
	if len(groups[0]) != 1 || len(groups[1]) != 2 {
		t.Fatalf("expected [1,2] entries per volume, got [%d,%d]", len(groups[0]), len(groups[1]))
	}
}

func TestPlanAutoNeverSplitsASingleOversizedEntry(t *testing.T) {
	entries := []Entry{{Name: "huge", Size: 1000}}
	groups := Plan(ModeAuto, entries, 10)
	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("a single entry larger than the target must still form one volume, got %+v", groups)
	}
}

func TestPlanPerSubdirectoryPutsFirstEntryAloneInVolumeOne(t *testing.T) {
	entries := []Entry{{Name: "v1"}, {Name: "v2"}, {Name: "v3"}}
	groups := PlanPerSubdirectory(entries)
	if len(groups) != 3 {
		t.Fatalf("expected one volume per subdirectory, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g) != 1 {
			t.Errorf("expected exactly one entry per volume, got %+v", g)
		}
	}
}

func TestSortEntriesUsesNaturalOrder(t *testing.T) {
	entries := []Entry{{Name: "ch10"}, {Name: "ch2"}, {Name: "ch1"}}
	SortEntries(entries)
	want := []string{"ch1", "ch2", "ch10"}
	for i, w := range want {
		if entries[i].Name != w {
			t.Errorf("index %d: got %s, want %s", i, entries[i].Name, w)
		}
	}
}

func TestDetectDepthFlatTreeIsByFile(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "page1.jpg"))
	mustWriteFile(t, filepath.Join(dir, "page2.jpg"))

	strategy, err := DetectDepth(dir)
	if err != nil {
		t.Fatal(err)
	}
	if strategy != ByFile {
		t.Errorf("expected ByFile for a flat tree, got %v", strategy)
	}
}

func TestDetectDepthNestedTreeIsByDirectory(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "ch1", "page1.jpg"))
	mustWriteFile(t, filepath.Join(dir, "ch2", "page1.jpg"))

	strategy, err := DetectDepth(dir)
	if err != nil {
		t.Fatal(err)
	}
	if strategy != ByDirectory {
		t.Errorf("expected ByDirectory for a uniformly nested tree, got %v", strategy)
	}
}

func TestDetectDepthRejectsMixedDepth(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "page1.jpg"))
	mustWriteFile(t, filepath.Join(dir, "ch2", "page1.jpg"))

	_, err := DetectDepth(dir)
	if err != ErrMixedDepth {
		t.Fatalf("expected ErrMixedDepth, got %v", err)
	}
}

func TestApplyMovesEntriesIntoTomeDirectories(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "ch01"))
	mustWriteFile(t, filepath.Join(root, "ch02"))

	groups := [][]Entry{
		{{Name: "ch01", Size: 1}},
		{{Name: "ch02", Size: 1}},
	}
	volumes, err := Apply(root, groups)
	if err != nil {
		t.Fatal(err)
	}
	if volumes[0].Dir != root {
		t.Errorf("expected volume 1 to stay at root, got %s", volumes[0].Dir)
	}
	if _, err := os.Stat(filepath.Join(volumes[1].Dir, "ch02")); err != nil {
		t.Errorf("expected ch02 moved into volume 2's directory: %v", err)
	}
}

func mustWriteFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}
