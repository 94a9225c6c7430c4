package sanitize

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/comictools/c2e/internal/natural"
)

// ComicInfoFileName is skipped by the sanitizer, per original_source's
// sanitizeTree (it special-cases "ComicInfo.xml").
const ComicInfoFileName = "ComicInfo.xml"

// Tree walks root depth-first, files first then directories (matching
// os.walk(..., topdown=False) in original_source), slugifying and
// collision-resolving every sibling, renaming in place. It returns the
// chapter-name map built from sanitized directory names.
func Tree(root string) (ChapterNames, error) {
	return TreePadded(root, 0)
}

// TreePadded is Tree with an explicit minimum numeric-run pad width,
// wiring the --padzeros option; widths below the default are ignored.
func TreePadded(root string, padWidth int) (ChapterNames, error) {
	chapterNames := ChapterNames{}

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, "reading %s", dir)
		}

		var files, dirs []os.DirEntry
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, e)
			} else if e.Name() != ComicInfoFileName {
				files = append(files, e)
			}
		}
		sort.Slice(dirs, func(i, j int) bool { return natural.Less(dirs[i].Name(), dirs[j].Name()) })

		// recurse into subdirectories first so each level only renames its
		// own immediate children, mirroring the original bottom-up walk.
		for _, d := range dirs {
			if err := walk(filepath.Join(dir, d.Name())); err != nil {
				return err
			}
		}

		siblings := make([]Sibling, 0, len(files))
		for _, f := range files {
			siblings = append(siblings, Sibling{OriginalName: f.Name(), IsDir: false})
		}
		for _, resolved := range ResolveSiblingsPadded(siblings, padWidth) {
			if resolved.SanitizedName == resolved.OriginalName {
				continue
			}
			if err := os.Rename(filepath.Join(dir, resolved.OriginalName), filepath.Join(dir, resolved.SanitizedName)); err != nil {
				return errors.Wrapf(err, "renaming %s", resolved.OriginalName)
			}
		}

		dirSiblings := make([]Sibling, 0, len(dirs))
		for _, d := range dirs {
			dirSiblings = append(dirSiblings, Sibling{OriginalName: d.Name(), IsDir: true})
		}
		for _, resolved := range ResolveSiblingsPadded(dirSiblings, padWidth) {
			chapterNames[resolved.SanitizedName] = resolved.OriginalName
			if resolved.SanitizedName == resolved.OriginalName {
				continue
			}
			if err := os.Rename(filepath.Join(dir, resolved.OriginalName), filepath.Join(dir, resolved.SanitizedName)); err != nil {
				return errors.Wrapf(err, "renaming directory %s", resolved.OriginalName)
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return chapterNames, nil
}
