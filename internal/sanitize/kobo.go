package sanitize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/comictools/c2e/internal/natural"
)

// TreeKobo renames every file in root (walked in natural reading order)
// to a 5-digit sequence number, per §4.5's "Kobo-specific variant".
// Grounded directly on original_source's sanitizeTreeKobo.
func TreeKobo(root string) error {
	pageNumber := 0

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
		sort.Slice(files, func(i, j int) bool { return natural.Less(files[i].Name(), files[j].Name()) })

		for _, f := range files {
			ext := filepath.Ext(f.Name())
			candidate := fmt.Sprintf("%05d", pageNumber)
			pageNumber++
			for fileExists(filepath.Join(dir, candidate+ext)) && !strings.EqualFold(f.Name(), candidate+ext) {
				candidate += "A"
			}
			newName := candidate + ext
			if newName != f.Name() {
				if err := os.Rename(filepath.Join(dir, f.Name()), filepath.Join(dir, newName)); err != nil {
					return errors.Wrapf(err, "renaming %s", f.Name())
				}
			}
		}

		for _, d := range dirs {
			if err := walk(filepath.Join(dir, d.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(root)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
