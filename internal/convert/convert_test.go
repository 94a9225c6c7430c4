package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/comictools/c2e/internal/assemble"
	"github.com/comictools/c2e/internal/config"
	"github.com/comictools/c2e/internal/profile"
	"github.com/comictools/c2e/internal/sidecar"
)

func writeSolidJPEG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
}

// buildTwoChapterSource writes a two-chapter comic directory: three pages
// under "c001" and two under "c002", all tall single pages so no
// double-page splitting kicks in.
func buildTwoChapterSource(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "My Comic")
	writeSolidJPEG(t, filepath.Join(src, "c001", "0001.jpg"), 800, 1200, color.White)
	writeSolidJPEG(t, filepath.Join(src, "c001", "0002.jpg"), 800, 1200, color.White)
	writeSolidJPEG(t, filepath.Join(src, "c001", "0003.jpg"), 800, 1200, color.White)
	writeSolidJPEG(t, filepath.Join(src, "c002", "0001.jpg"), 800, 1200, color.White)
	writeSolidJPEG(t, filepath.Join(src, "c002", "0002.jpg"), 800, 1200, color.White)
	return src
}

func baseCBZConfig(outDir string) config.Config {
	cfg := config.Default()
	cfg.OutputFormat = profile.FormatCBZ
	cfg.Output = outDir
	cfg.VolumeSplit = config.VolumeSplitNone
	return cfg
}

func TestRunProducesCompletedCBZWithAllPages(t *testing.T) {
	src := buildTwoChapterSource(t)
	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir)

	result, err := Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatalf("Run returned a configuration error: %v", err)
	}
	if !result.OK() {
		for _, f := range result.Failed() {
			t.Errorf("input %s failed: %v", f.Source, f.Err)
		}
		t.FailNow()
	}
	completed := result.Completed()
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed input, got %d", len(completed))
	}
	in := completed[0]
	if in.Volumes != 1 {
		t.Errorf("expected a single volume, got %d", in.Volumes)
	}

	data, err := os.ReadFile(in.OutputPath)
	if err != nil {
		t.Fatalf("reading output archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	if len(zr.File) != 5 {
		t.Errorf("expected 5 packaged pages, got %d", len(zr.File))
	}
}

func TestRunSkipsWhenTargetAlreadyExists(t *testing.T) {
	src := buildTwoChapterSource(t)
	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir)
	cfg.Title = "existing"

	if err := os.WriteFile(filepath.Join(outDir, "existing.cbz"), []byte("placeholder"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.SkipExisting = config.SkipIfTargetExists

	result, err := Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	if len(result.AlreadyExists()) != 1 {
		t.Fatalf("expected the input to be reported as already existing, got %+v", result.Inputs)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "existing.cbz"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "placeholder" {
		t.Error("expected the pre-existing target to be left untouched")
	}
}

func TestRunCopiesAlreadyProcessedSourceVerbatim(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Already Processed")
	writeSolidJPEG(t, filepath.Join(src, "0001-kcc-a.jpg"), 800, 1200, color.White)
	writeSolidJPEG(t, filepath.Join(src, "0001-kcc-b.jpg"), 800, 1200, color.White)

	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir)
	cfg.SkipExisting = config.CopyIfAlreadyProcessed

	result, err := Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	copied := result.AlreadyProcessedCopied()
	if len(copied) != 1 {
		t.Fatalf("expected the input to be copied verbatim, got %+v", result.Inputs)
	}
	if _, err := os.Stat(filepath.Join(copied[0].OutputPath, "0001-kcc-a.jpg")); err != nil {
		t.Errorf("expected verbatim copy to preserve original files: %v", err)
	}
}

func TestRunFailsFastOnInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ProfileID = "not-a-real-profile"

	_, err := Run(context.Background(), []string{"does-not-matter"}, cfg)
	if err == nil {
		t.Fatal("expected a configuration error before any input is touched")
	}
}

func TestRunContinuesAfterOneInputFails(t *testing.T) {
	goodSrc := buildTwoChapterSource(t)
	badSrc := t.TempDir() // exists, but has no images in it

	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir)

	result, err := Run(context.Background(), []string{badSrc, goodSrc}, cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	if len(result.Failed()) != 1 {
		t.Fatalf("expected exactly one failed input, got %+v", result.Inputs)
	}
	if len(result.Completed()) != 1 {
		t.Fatalf("expected the second input to still complete, got %+v", result.Inputs)
	}
}

func writeStripWithDarkBand(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, h/4, w, h/4+h/8), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
}

func TestRunWebtoonModeMergesStripsIntoPackedPages(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Webtoon Series")
	writeStripWithDarkBand(t, filepath.Join(src, "ch01", "0001.jpg"), 720, 1600)
	writeStripWithDarkBand(t, filepath.Join(src, "ch01", "0002.jpg"), 720, 1600)

	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir)
	cfg.Webtoon = true
	cfg.WebtoonHeight = 1200

	result, err := Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	if !result.OK() {
		for _, f := range result.Failed() {
			t.Errorf("input %s failed: %v", f.Source, f.Err)
		}
		t.FailNow()
	}
	completed := result.Completed()
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed input, got %d", len(completed))
	}

	data, err := os.ReadFile(completed[0].OutputPath)
	if err != nil {
		t.Fatalf("reading output archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	if len(zr.File) == 0 {
		t.Error("expected at least one packed webtoon page in the output")
	}
}

// A double page handled by the "both" policy becomes three output pages
// (-kcc-a/-b/-c), shifting every later pre-split index by two. The
// prefix-sum reindexing must resolve a bookmark past such a page to the
// page its pre-split index names, not fall one page short the way a
// per-"-kcc-b" +1 scan would.
func TestReindexBookmarksAccountsForThreeWayDoublePages(t *testing.T) {
	pageCounts := []int{3, 1, 1} // a both-policy spread, then two singles
	pages := []assemble.Page{
		{ID: "p0_spread-kcc-a", Suffix: "-kcc-a"},
		{ID: "p1_spread-kcc-b", Suffix: "-kcc-b"},
		{ID: "p2_spread-kcc-c", Suffix: "-kcc-c"},
		{ID: "p3_page2"},
		{ID: "p4_page3"},
	}
	bookmarks := []sidecar.Bookmark{
		{PageIndex: 0, Name: "Cover"},
		{PageIndex: 1, Name: "Chapter 2"},
		{PageIndex: 2, Name: "Chapter 3"},
	}

	chapters := reindexBookmarks(bookmarks, pageCounts, pages)
	if len(chapters) != 3 {
		t.Fatalf("expected 3 reindexed chapters, got %d", len(chapters))
	}
	want := []string{"p0_spread-kcc-a", "p3_page2", "p4_page3"}
	for i, ch := range chapters {
		if ch.FirstPage != want[i] {
			t.Errorf("bookmark %q resolved to %s, want %s", ch.Title, ch.FirstPage, want[i])
		}
	}
}

func TestVolumeTitleSuffixesMultiVolumeRuns(t *testing.T) {
	if got := volumeTitle("Series", 1, 3); got != "Series [2/3]" {
		t.Errorf("volumeTitle(Series, 1, 3) = %q, want %q", got, "Series [2/3]")
	}
	if got := volumeTitle("Series", 0, 1); got != "Series" {
		t.Errorf("single-volume title should be untouched, got %q", got)
	}
}

func TestRunWarnsWhenMostPagesAreUndersized(t *testing.T) {
	src := buildTwoChapterSource(t) // 800x1200 pages, well under KV's 1072x1448
	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir)

	result, err := Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	completed := result.Completed()
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed input, got %+v", result.Inputs)
	}
	if completed[0].Warning == "" {
		t.Error("expected an undersized-pages warning without --upscale/--stretch")
	}

	cfg.Resize = config.ResizeUpscale
	result, err = Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if w := result.Completed()[0].Warning; w != "" {
		t.Errorf("expected no warning with --upscale, got %q", w)
	}
}

func TestRunWarnsWhenReprocessingAlreadyProcessedInput(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Twice Over")
	writeSolidJPEG(t, filepath.Join(src, "0001-kcc-a.jpg"), 1100, 1500, color.White)
	writeSolidJPEG(t, filepath.Join(src, "0001-kcc-b.jpg"), 1100, 1500, color.White)

	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir) // SkipNone: conversion proceeds anyway

	result, err := Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	if len(result.MultiProcessed()) != 1 {
		t.Fatalf("expected the input to be flagged as multi-processed, got %+v", result.Inputs)
	}
	if len(result.Completed()) != 1 {
		t.Errorf("a multi-processed input should still complete, got %+v", result.Inputs)
	}
}

func TestRunSplitsPerSubdirectoryIntoMultipleVolumes(t *testing.T) {
	src := buildTwoChapterSource(t)
	outDir := t.TempDir()
	cfg := baseCBZConfig(outDir)
	cfg.VolumeSplit = config.VolumeSplitPerSubdirectory

	result, err := Run(context.Background(), []string{src}, cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected success, got %+v", result.Failed())
	}
	completed := result.Completed()
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed input, got %d", len(completed))
	}
	if completed[0].Volumes != 2 {
		t.Errorf("expected one volume per chapter directory, got %d", completed[0].Volumes)
	}
}
