package imageutil

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// solidWithBorder builds an image with a filled dark rectangle centered
// in a white border, for crop-bounds tests.
func solidWithBorder(w, h, marginL, marginT, marginR, marginB int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Gray{Y: 0xFF}}, image.Point{}, draw.Src)
	content := image.Rect(marginL, marginT, w-marginR, h-marginB)
	draw.Draw(img, content, &image.Uniform{C: color.Gray{Y: 0x00}}, image.Point{}, draw.Src)
	return img
}

func TestCropBoundsFindsContentRectangle(t *testing.T) {
	img := solidWithBorder(100, 200, 10, 20, 15, 25)
	got := CropBounds(img)
	want := image.Rect(10, 20, 85, 175)
	if got != want {
		t.Errorf("CropBounds() = %v, want %v", got, want)
	}
}

func TestLimitedCropBoundsRespectsMinimumRatio(t *testing.T) {
	img := solidWithBorder(100, 100, 40, 40, 40, 40)
	// the tight crop would retain only a 20x20 = 400px^2 region (4% of
	// area); demand at least 50% retained area and confirm we grow back.
	got := LimitedCropBounds(img, 0.0, 0.5)
	area := float64(got.Dx() * got.Dy())
	if area/10000 < 0.5 {
		t.Errorf("expected at least 50%% area retained, got %.2f%%", area/100)
	}
}

func TestBorderColorMajorityVoteBlack(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Gray{Y: 0xFF}}, image.Point{}, draw.Src)
	img.SetGray(0, 0, color.Gray{Y: 0x00})
	img.SetGray(9, 0, color.Gray{Y: 0x00})
	img.SetGray(0, 9, color.Gray{Y: 0x00})
	// three of four corners are black -> majority vote black.
	_, isBlack := BorderColor(img)
	if !isBlack {
		t.Error("expected majority-black corners to report isBlack=true")
	}
}

func TestBorderColorTieBreaksWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Gray{Y: 0xFF}}, image.Point{}, draw.Src)
	img.SetGray(0, 0, color.Gray{Y: 0x00})
	img.SetGray(9, 0, color.Gray{Y: 0x00})
	// exactly 2 of 4 corners black: tie breaks to white.
	_, isBlack := BorderColor(img)
	if isBlack {
		t.Error("expected a 2-2 tie to break to white")
	}
}

func TestParseNamedOrHexColor(t *testing.T) {
	if _, ok := ParseNamedOrHexColor("black"); !ok {
		t.Error("expected 'black' to parse")
	}
	if _, ok := ParseNamedOrHexColor(""); ok {
		t.Error("expected empty string to not parse")
	}
	c, ok := ParseNamedOrHexColor("#808080")
	if !ok {
		t.Fatal("expected hex color to parse")
	}
	if g := c; g.Y < 0x70 || g.Y > 0x90 {
		t.Errorf("unexpected gray value for #808080: %+v", c)
	}
}

func TestResizeLargerBothScalesDown(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4000, 3000))
	out := Resize(src, Target{Width: 1000, Height: 1000}, PolicyDefault, color.White)
	b := out.Bounds()
	if b.Dx() > 1000 || b.Dy() > 1000 {
		t.Errorf("expected output to fit within target, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestResizeSmallerBothNoShrinkPads(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	out := Resize(src, Target{Width: 500, Height: 500}, PolicyNoShrink, color.White)
	b := out.Bounds()
	if b.Dx() != 500 || b.Dy() != 500 {
		t.Errorf("expected padded output at target size, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestResizeSmallerBothStretch(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	out := Resize(src, Target{Width: 500, Height: 500}, PolicyStretch, color.White)
	b := out.Bounds()
	if b.Dx() != 500 || b.Dy() != 500 {
		t.Errorf("expected stretched output at exact target size, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestTopMarginPercent(t *testing.T) {
	got := TopMarginPercent(1000, 800)
	if got != 10 {
		t.Errorf("expected 10%%, got %.2f", got)
	}
}

func TestHQTargetDoublesResolution(t *testing.T) {
	got := HQTarget(Target{Width: 600, Height: 800})
	if got.Width != 1200 || got.Height != 1600 {
		t.Errorf("unexpected HQ target: %+v", got)
	}
}

func TestQuantizePaletteUsesGivenPalette(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	out := QuantizePalette(src, Palette16)
	if len(out.Palette) != 16 {
		t.Errorf("expected a 16-entry palette, got %d", len(out.Palette))
	}
}

func TestAutoContrastStretchesHistogram(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Gray{Y: 0x80}}, image.Point{}, draw.Src)
	// low-variance image: should not panic and should return an image of
	// the same bounds.
	out := AutoContrast(img, 0.01)
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Errorf("unexpected bounds after AutoContrast: %v", out.Bounds())
	}
}
