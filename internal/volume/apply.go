package volume

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Volume is one planned group, materialized at Dir once Apply has run.
type Volume struct {
	Index   int
	Dir     string
	Entries []Entry
	Size    int64
}

// Apply physically realizes a plan: volume 1 keeps root as its
// directory, every subsequent group gets a fresh sibling directory
// named "<root>-tome-<n>", and its entries are moved (os.Rename) out of
// root into it. Returns one Volume per group, in order.
func Apply(root string, groups [][]Entry) ([]Volume, error) {
	volumes := make([]Volume, 0, len(groups))

	for i, group := range groups {
		dir := root
		if i > 0 {
			dir = fmt.Sprintf("%s-tome-%d", root, i+1)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrapf(err, "creating volume directory %s", dir)
			}
			for _, e := range group {
				if err := os.Rename(filepath.Join(root, e.Name), filepath.Join(dir, e.Name)); err != nil {
					return nil, errors.Wrapf(err, "moving %s into volume %d", e.Name, i+1)
				}
			}
		}

		var size int64
		for _, e := range group {
			size += e.Size
		}
		volumes = append(volumes, Volume{Index: i + 1, Dir: dir, Entries: group, Size: size})
	}
	return volumes, nil
}

// SummaryLine renders a human-readable one-line summary of a completed
// split, e.g. "3 volumes: 412 MB, 398 MB, 120 MB", for CLI/log output.
func SummaryLine(volumes []Volume) string {
	if len(volumes) <= 1 {
		return "1 volume"
	}
	sizes := make([]string, len(volumes))
	for i, v := range volumes {
		sizes[i] = humanize.Bytes(uint64(v.Size))
	}
	out := fmt.Sprintf("%d volumes:", len(volumes))
	for i, s := range sizes {
		if i > 0 {
			out += ","
		}
		out += " " + s
	}
	return out
}
