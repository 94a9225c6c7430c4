package volume

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// BuildEntries lists the top-level children of root as Entries, sized
// according to strategy: a ByFile entry is the file's own size; a
// ByDirectory entry is the recursive size of the subdirectory. Entries
// come back in natural reading order.
func BuildEntries(root string, strategy Strategy) ([]Entry, error) {
	children, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", root)
	}

	entries := make([]Entry, 0, len(children))
	for _, c := range children {
		if strategy == ByFile && c.IsDir() {
			continue
		}
		if strategy == ByDirectory && !c.IsDir() {
			continue
		}
		size, err := entrySize(filepath.Join(root, c.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: c.Name(), Size: size})
	}

	SortEntries(entries)
	return entries, nil
}

func entrySize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", path)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	return directorySize(path)
}

func directorySize(dir string) (int64, error) {
	var total int64
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "measuring %s", dir)
	}
	return total, nil
}
