// Package pageparser decides, for each source image, whether to split,
// rotate, duplicate, or pass it through unchanged (§4.2). It is
// generalized from the teacher's cmd/formats/kindle/crop_and_split.go,
// which performed this decision and the crop/split pixel work in one
// step; here the decision is separated from the pixel transform, which
// lives in internal/transform.
package pageparser

import (
	"image"

	"github.com/comictools/c2e/internal/config"
)

// Variant identifies which slice of a (possibly double-wide) source page
// a Page record represents.
type Variant int

const (
	VariantSingle Variant = iota
	VariantLeftHalf
	VariantRightHalf
	VariantDuplicateA
	VariantDuplicateB
	VariantDuplicateC
)

// Suffix returns the stringly-typed "-kcc-a/-b/-c" style suffix used at
// filename emission time, retained for artifact-compatibility with
// already-processed detection (§9 design note). Single pages have no
// suffix.
func (v Variant) Suffix() string {
	switch v {
	case VariantLeftHalf, VariantDuplicateA:
		return "-kcc-a"
	case VariantRightHalf, VariantDuplicateB:
		return "-kcc-b"
	case VariantDuplicateC:
		return "-kcc-c"
	default:
		return ""
	}
}

// Role describes how a page relates to the spread it came from, for the
// book assembler's spine placement rules (§4.7).
type Role int

const (
	RoleNormal Role = iota
	RoleRotatedSpread
	RoleContinuation
)

// Rotation is a clockwise rotation in degrees to apply before any other
// transform.
type Rotation int

// Page is a unit of work handed to the transformer.
type Page struct {
	SourcePath string
	Variant    Variant
	Rotation   Rotation
	Role       Role
}

// IsDoublePage reports whether an image is wider than tall, per §4.2's
// width > height threshold.
func IsDoublePage(bounds image.Rectangle) bool {
	return bounds.Dx() > bounds.Dy()
}

// Parse decides the Page records for a single source image, given its
// decoded bounds, the configured double-page policy and reading
// direction. It never touches pixels; that is the transformer's job.
func Parse(sourcePath string, bounds image.Rectangle, cfg config.Config) []Page {
	if !IsDoublePage(bounds) {
		return []Page{{SourcePath: sourcePath, Variant: VariantSingle, Role: RoleNormal}}
	}

	switch cfg.DoublePage {
	case config.DoublePageSplit:
		left, right := VariantLeftHalf, VariantRightHalf
		if cfg.MangaStyle {
			// manga (RTL) reading order: the right half is read first.
			return []Page{
				{SourcePath: sourcePath, Variant: right, Role: RoleNormal},
				{SourcePath: sourcePath, Variant: left, Role: RoleNormal},
			}
		}
		return []Page{
			{SourcePath: sourcePath, Variant: left, Role: RoleNormal},
			{SourcePath: sourcePath, Variant: right, Role: RoleNormal},
		}

	case config.DoublePageRotate:
		rot := Rotation(90)
		if cfg.MangaStyle {
			rot = Rotation(-90)
		}
		return []Page{{SourcePath: sourcePath, Variant: VariantSingle, Rotation: rot, Role: RoleRotatedSpread}}

	case config.DoublePageBoth:
		rot := Rotation(90)
		if cfg.MangaStyle {
			rot = Rotation(-90)
		}
		pages := []Page{
			{SourcePath: sourcePath, Variant: VariantDuplicateA, Rotation: rot, Role: RoleRotatedSpread},
		}
		left := Page{SourcePath: sourcePath, Variant: VariantDuplicateB, Role: RoleContinuation}
		right := Page{SourcePath: sourcePath, Variant: VariantDuplicateC, Role: RoleContinuation}
		if cfg.MangaStyle {
			pages = append(pages, right, left)
		} else {
			pages = append(pages, left, right)
		}
		return pages
	}

	return []Page{{SourcePath: sourcePath, Variant: VariantSingle, Role: RoleNormal}}
}
