// Package ingest recognizes a comic source (a plain directory tree or
// a ZIP/CBZ container), stages it into a working directory of raw
// images, and precomputes the disk-space budget the rest of the
// pipeline needs. Grounded on e88z4-kojirou's cmd/formats/disk/root.go
// directory-walk ingestion model (LoadSkeleton/LoadChapters/LoadPages),
// adapted from "walk a pre-populated manga directory" to "recognize and
// stage a comic source that may itself be an archive".
package ingest

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

var imageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var archiveExtUnsupported = map[string]string{
	".rar": "unrar",
	".cbr": "unrar",
	".7z":  "7z",
	".pdf": "a PDF rasterizer",
}

// ErrUnsupportedArchive names an archive format this module cannot
// extract in-process, and the external tool that would be needed,
// matching how a missing external dependency is surfaced elsewhere.
type ErrUnsupportedArchive struct {
	Ext  string
	Tool string
}

func (e ErrUnsupportedArchive) Error() string {
	return "ingest: " + e.Ext + " archives require " + e.Tool + ", which is not available to this module"
}

// ErrInsufficientDiskSpace is an environment error (§7), fatal before
// any work begins.
type ErrInsufficientDiskSpace struct {
	Needed    int64
	Available int64
}

func (e ErrInsufficientDiskSpace) Error() string {
	return "ingest: insufficient disk space for staging"
}

// SpaceMultiplier is the factor applied to the source size to estimate
// peak working-directory usage (raw extraction + transformed copies).
const SpaceMultiplier = 2.5

// Source describes a recognized comic source before staging.
type Source struct {
	Path      string
	IsArchive bool
}

// Recognize classifies path as a directory, a ZIP/CBZ archive, or an
// unsupported archive format, without reading its contents yet. The
// extension decides first; a file extension-less or mislabeled (e.g. a
// ZIP saved with no extension, or under an unrecognized one) falls back
// to sniffing its actual content type, so a renamed-but-still-ZIP
// archive is not rejected just because its suffix doesn't say so.
func Recognize(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, errors.Wrap(err, "ingest: stat source")
	}
	if info.IsDir() {
		return Source{Path: path, IsArchive: false}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if tool, unsupported := archiveExtUnsupported[ext]; unsupported {
		return Source{}, ErrUnsupportedArchive{Ext: ext, Tool: tool}
	}
	if ext == ".zip" || ext == ".cbz" {
		return Source{Path: path, IsArchive: true}, nil
	}

	if mtype, err := mimetype.DetectFile(path); err == nil && mtype.Is("application/zip") {
		return Source{Path: path, IsArchive: true}, nil
	}
	return Source{}, ErrUnsupportedArchive{Ext: ext, Tool: "a recognized archive reader"}
}

// SourceSize returns the total byte size of a recognized source: the
// archive's own size for ZIP/CBZ, or the recursive tree size for a
// directory.
func SourceSize(s Source) (int64, error) {
	if s.IsArchive {
		info, err := os.Stat(s.Path)
		if err != nil {
			return 0, errors.Wrap(err, "ingest: stat archive")
		}
		return info.Size(), nil
	}
	var total int64
	err := filepath.Walk(s.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "ingest: measuring source size")
	}
	return total, nil
}

// CheckDiskSpace verifies the filesystem backing dir has room for
// SpaceMultiplier times sourceSize of free space.
func CheckDiskSpace(dir string, sourceSize int64) error {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return errors.Wrap(err, "ingest: statfs working directory")
	}
	available := int64(stat.Bavail) * int64(stat.Bsize)
	needed := int64(float64(sourceSize) * SpaceMultiplier)
	if available < needed {
		return ErrInsufficientDiskSpace{Needed: needed, Available: available}
	}
	return nil
}

// Stage extracts or copies s into a freshly created working directory
// under parent, returning the working directory's path. The caller
// owns cleanup (see internal/convert's cleanup helper).
func Stage(s Source, parent string) (string, error) {
	workDir, err := os.MkdirTemp(parent, "c2e-work-*")
	if err != nil {
		return "", errors.Wrap(err, "ingest: creating working directory")
	}

	if !s.IsArchive {
		if err := copyTree(s.Path, workDir); err != nil {
			os.RemoveAll(workDir)
			return "", errors.Wrap(err, "ingest: staging directory source")
		}
		return workDir, nil
	}

	if err := extractZip(s.Path, workDir); err != nil {
		os.RemoveAll(workDir)
		return "", errors.Wrap(err, "ingest: staging archive source")
	}
	return workDir, nil
}

func extractZip(archivePath, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}
	defer zr.Close()

	for _, f := range zr.File {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return errors.Errorf("ingest: archive entry %q escapes destination", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractZipEntry(f, target); err != nil {
			return errors.Wrapf(err, "extracting %s", f.Name)
		}
	}
	return nil
}

func extractZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// IsImage reports whether path has a recognized raster image extension.
func IsImage(path string) bool {
	return imageExt[strings.ToLower(filepath.Ext(path))]
}
