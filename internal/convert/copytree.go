package convert

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// copyVerbatim copies source (a file or a directory tree) into destDir,
// under its own base name, used for the "copy already-processed input
// as-is" skip policy (§6 policy values 3/5): the input is not
// re-converted at all.
func copyVerbatim(source, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrap(err, "convert: creating destination directory")
	}
	dest := filepath.Join(destDir, filepath.Base(source))

	info, err := os.Stat(source)
	if err != nil {
		return "", errors.Wrap(err, "convert: stat source for verbatim copy")
	}
	if !info.IsDir() {
		if err := copyFile(source, dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	err = filepath.Walk(source, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if fi.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
	if err != nil {
		return "", errors.Wrap(err, "convert: copying source tree verbatim")
	}
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "copying to %s", dst)
	}
	return nil
}

// sourceTreeSubpath implements the resolved Open Question for
// --copysourcetree (§9): it locates namedSegment within source's path
// components and returns the subpath from that segment onward; if
// namedSegment is empty or not found, the source is copied directly
// under the destination root (an empty relative subpath).
func sourceTreeSubpath(source, namedSegment string) string {
	if namedSegment == "" {
		return filepath.Base(source)
	}
	parts := strings.Split(filepath.ToSlash(filepath.Clean(source)), "/")
	for i, p := range parts {
		if p == namedSegment {
			return filepath.Join(parts[i:]...)
		}
	}
	return filepath.Base(source)
}

// copySourceTree copies source under destRoot/namedSegment-derived
// subpath, implementing the --copysourcetree option (§6): a convenience
// copy of the untouched original alongside the converted output.
func copySourceTree(source, destRoot, namedSegment string) error {
	rel := sourceTreeSubpath(source, namedSegment)
	dest := filepath.Join(destRoot, rel)

	info, err := os.Stat(source)
	if err != nil {
		return errors.Wrap(err, "convert: stat source for copysourcetree")
	}
	if !info.IsDir() {
		return copyFile(source, dest)
	}
	return filepath.Walk(source, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		r, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, r)
		if fi.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
