package pageparser

import (
	"image"
	"testing"

	"github.com/comictools/c2e/internal/config"
)

func rect(w, h int) image.Rectangle { return image.Rect(0, 0, w, h) }

func TestParseSinglePageForPortrait(t *testing.T) {
	cfg := config.Default()
	pages := Parse("a.jpg", rect(1000, 1500), cfg)
	if len(pages) != 1 || pages[0].Variant != VariantSingle {
		t.Fatalf("expected a single portrait page, got %+v", pages)
	}
}

func TestParseSplitPolicyOrdersByReadingDirection(t *testing.T) {
	cfg := config.Default()
	cfg.DoublePage = config.DoublePageSplit

	ltr := Parse("a.jpg", rect(2000, 1500), cfg)
	if len(ltr) != 2 || ltr[0].Variant != VariantLeftHalf || ltr[1].Variant != VariantRightHalf {
		t.Fatalf("LTR split order wrong: %+v", ltr)
	}

	cfg.MangaStyle = true
	rtl := Parse("a.jpg", rect(2000, 1500), cfg)
	if len(rtl) != 2 || rtl[0].Variant != VariantRightHalf || rtl[1].Variant != VariantLeftHalf {
		t.Fatalf("RTL split order wrong: %+v", rtl)
	}
}

func TestParseRotatePolicyYieldsOneRotatedPage(t *testing.T) {
	cfg := config.Default()
	cfg.DoublePage = config.DoublePageRotate

	pages := Parse("a.jpg", rect(2000, 1500), cfg)
	if len(pages) != 1 || pages[0].Role != RoleRotatedSpread {
		t.Fatalf("expected one rotated-spread page, got %+v", pages)
	}
	if pages[0].Rotation != 90 {
		t.Errorf("expected +90 rotation for LTR, got %d", pages[0].Rotation)
	}

	cfg.MangaStyle = true
	mangaPages := Parse("a.jpg", rect(2000, 1500), cfg)
	if mangaPages[0].Rotation != -90 {
		t.Errorf("expected -90 rotation for manga style, got %d", mangaPages[0].Rotation)
	}
}

func TestParseBothPolicyYieldsThreeVariantsWithSuffixes(t *testing.T) {
	cfg := config.Default()
	cfg.DoublePage = config.DoublePageBoth

	pages := Parse("a.jpg", rect(2000, 1500), cfg)
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages for 'both' policy, got %d", len(pages))
	}
	// first page is always the rotated "-a"; for LTR the halves follow as
	// duplicate-b (left, "-kcc-b") then duplicate-c (right, "-kcc-c")
	if got := pages[0].Variant.Suffix(); got != "-kcc-a" {
		t.Errorf("expected first page suffix -kcc-a, got %s", got)
	}
	if pages[1].Variant.Suffix() != "-kcc-b" || pages[2].Variant.Suffix() != "-kcc-c" {
		t.Errorf("unexpected suffixes: %s %s", pages[1].Variant.Suffix(), pages[2].Variant.Suffix())
	}
}

func TestParseBothPolicyRTLSwapsHalfOrder(t *testing.T) {
	cfg := config.Default()
	cfg.DoublePage = config.DoublePageBoth
	cfg.MangaStyle = true

	pages := Parse("a.jpg", rect(2000, 1500), cfg)
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if pages[1].Variant != VariantDuplicateC || pages[2].Variant != VariantDuplicateB {
		t.Errorf("expected RTL to place duplicate-c before duplicate-b, got %+v", pages[1:])
	}
}

func TestIsDoublePageThreshold(t *testing.T) {
	if IsDoublePage(rect(1000, 1000)) {
		t.Error("a square image should not be a double page")
	}
	if !IsDoublePage(rect(1001, 1000)) {
		t.Error("width > height should be a double page")
	}
}
