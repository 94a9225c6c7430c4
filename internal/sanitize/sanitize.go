// Package sanitize implements the tree sanitizer (§4.5): deterministic
// slugification, case-insensitive collision resolution, zero-padded
// numeric runs, and a chapter-name recording pass. Grounded on
// original_source/kindlecomicconverter/comic2ebook.py's sanitizeTree and
// sanitizeTreeKobo, with the base transliteration delegated to
// gosimple/slug.
package sanitize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// Slugify deterministically slugifies a single path component under a
// fixed character class, then zero-pads any numeric run it contains so
// that natural and lexicographic orderings coincide (§4.5, §8 invariant:
// slug(slug(x)) == slug(x)).
func Slugify(name string) string {
	return SlugifyPadded(name, zeroPadWidth)
}

// SlugifyPadded is Slugify with an explicit numeric-run pad width; the
// --padzeros option raises it above the default, never below.
func SlugifyPadded(name string, width int) string {
	s := slug.Make(name)
	if s == "" {
		s = "untitled"
	}
	return zeroPadNumericRuns(s, effectivePadWidth(width))
}

var numericRun = regexp.MustCompile(`\d+`)

// zeroPadWidth is the width numeric runs are padded to. It must be wide
// enough that volumes/chapters well into the hundreds still sort
// correctly; this mirrors the padzeros default behavior described in §6.
const zeroPadWidth = 5

func effectivePadWidth(width int) int {
	if width < zeroPadWidth {
		return zeroPadWidth
	}
	return width
}

func zeroPadNumericRuns(s string, width int) string {
	return numericRun.ReplaceAllStringFunc(s, func(run string) string {
		if len(run) >= width {
			return run
		}
		n, err := strconv.Atoi(run)
		if err != nil {
			return run
		}
		return fmt.Sprintf("%0*d", width, n)
	})
}

// IsIdempotent is a convenience used by tests and callers confident that
// Slugify is stable: Slugify(Slugify(x)) == Slugify(x).
func IsIdempotent(name string) bool {
	once := Slugify(name)
	twice := Slugify(once)
	return once == twice
}

// Sibling is a single file or directory entry being sanitized within one
// parent directory.
type Sibling struct {
	OriginalName string
	IsDir        bool
}

// Resolved is the outcome of sanitizing one sibling.
type Resolved struct {
	Sibling
	SanitizedName string
}

// ResolveSiblings slugifies every name in siblings and resolves
// case-insensitive collisions by appending "A" (repeatedly if needed),
// as original_source's sanitizeTree does. Only names already given to
// earlier siblings count as collisions, so a sibling is never compared
// with its own name.
func ResolveSiblings(siblings []Sibling) []Resolved {
	return ResolveSiblingsPadded(siblings, zeroPadWidth)
}

// ResolveSiblingsPadded is ResolveSiblings with an explicit numeric-run
// pad width (see SlugifyPadded).
func ResolveSiblingsPadded(siblings []Sibling, width int) []Resolved {
	seen := make(map[string]bool, len(siblings))
	out := make([]Resolved, 0, len(siblings))

	for _, sib := range siblings {
		base := SlugifyPadded(baseNameWithoutExt(sib.OriginalName), width)
		ext := extOf(sib.OriginalName, sib.IsDir)
		candidate := base

		for seen[strings.ToUpper(candidate+ext)] {
			candidate += "A"
		}

		sanitized := candidate + ext
		seen[strings.ToUpper(sanitized)] = true
		out = append(out, Resolved{Sibling: sib, SanitizedName: sanitized})
	}
	return out
}

func baseNameWithoutExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

func extOf(name string, isDir bool) string {
	if isDir {
		return ""
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i:]
	}
	return ""
}

// ChapterNames maps a sanitized directory name back to its original name,
// for use as a chapter title (§4.5, §3 Chapter table).
type ChapterNames map[string]string
