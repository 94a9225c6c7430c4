// Package volume implements the volume splitter (§4.6): it groups a
// processed page tree into one or more volumes, each kept under a byte
// budget, using one of three grouping modes. Grounded on
// original_source/kindlecomicconverter/comic2ebook.py's splitDirectory/
// splitProcess, reshaped into pure, filesystem-free planning functions
// (Plan/PlanPerSubdirectory) plus a small filesystem probe (DetectDepth)
// that decides which unit (file or first-level subdirectory) the "auto"
// mode groups by.
package volume

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/comictools/c2e/internal/natural"
)

// Mode selects how volumes are grouped, mirroring the CLI's
// --batchsplit-style options (§6).
type Mode int

const (
	// ModeNone keeps the whole tree as a single volume.
	ModeNone Mode = iota
	// ModeAuto accumulates entries (files or first-level subdirectories,
	// depending on tree depth) until the running size would exceed the
	// target, then starts a new volume.
	ModeAuto
	// ModePerSubdirectory puts the first top-level subdirectory in
	// volume 1 and starts a new volume for every subsequent one.
	ModePerSubdirectory
)

// Strategy is the unit auto mode groups by, decided by DetectDepth.
type Strategy int

const (
	// ByFile groups by individual image files (the tree is flat: every
	// image sits directly under the images root).
	ByFile Strategy = iota
	// ByDirectory groups by first-level subdirectory (images are nested
	// uniformly, e.g. one chapter folder per subdirectory).
	ByDirectory
)

// ErrMixedDepth is returned by DetectDepth when images are found at more
// than one depth below the images root; such a tree cannot be split
// automatically, matching original_source's
// UserWarning('Unsupported directory structure.').
var ErrMixedDepth = errors.New("volume: mixed image directory depth, cannot auto-split")

var imageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// DetectDepth walks imagesRoot and reports the grouping Strategy implied
// by the depth of every image file relative to imagesRoot. All images
// must sit at the same depth; a depth of 0 (images directly under
// imagesRoot, no chapter subdirectories) implies ByFile, any uniform
// depth greater than 0 implies ByDirectory.
func DetectDepth(imagesRoot string) (Strategy, error) {
	depth := -1

	err := filepath.WalkDir(imagesRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !imageExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(imagesRoot, path)
		if err != nil {
			return err
		}
		newDepth := strings.Count(rel, string(filepath.Separator))
		if depth != -1 && depth != newDepth {
			return ErrMixedDepth
		}
		depth = newDepth
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMixedDepth) {
			return 0, ErrMixedDepth
		}
		return 0, errors.Wrapf(err, "scanning %s", imagesRoot)
	}

	if depth <= 0 {
		return ByFile, nil
	}
	return ByDirectory, nil
}

// Entry is a single top-level unit (file or subdirectory) being grouped
// into volumes, along with its size in bytes (a file's own size, or a
// subdirectory's total recursive size).
type Entry struct {
	Name string
	Size int64
}

// Plan groups entries into volumes for ModeNone/ModeAuto. Entries must
// already be in natural reading order (see SortEntries). For ModeNone
// every entry lands in a single volume. For ModeAuto it reproduces
// splitProcess's greedy accumulation: whenever adding the next entry
// would push the current volume's running size past targetSize, a new
// volume starts with that entry as its first member.
func Plan(mode Mode, entries []Entry, targetSize int64) [][]Entry {
	if mode == ModeNone || len(entries) == 0 {
		if len(entries) == 0 {
			return nil
		}
		return [][]Entry{entries}
	}

	groups := [][]Entry{{}}
	idx := 0
	var currentSize int64

	for _, e := range entries {
		if currentSize+e.Size > targetSize && len(groups[idx]) > 0 {
			groups = append(groups, []Entry{})
			idx++
			currentSize = e.Size
		} else {
			currentSize += e.Size
		}
		groups[idx] = append(groups[idx], e)
	}
	return groups
}

// PlanPerSubdirectory implements ModePerSubdirectory: the first entry
// stays in volume 1, and every subsequent entry starts its own volume.
func PlanPerSubdirectory(entries []Entry) [][]Entry {
	if len(entries) == 0 {
		return nil
	}
	groups := make([][]Entry, len(entries))
	for i, e := range entries {
		groups[i] = []Entry{e}
	}
	return groups
}

// SortEntries orders entries in natural reading order, matching the
// order os.walk would yield on a sanitized (zero-padded) tree and
// guaranteeing deterministic volume boundaries regardless of the
// filesystem's directory-listing order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return natural.Less(entries[i].Name, entries[j].Name)
	})
}
