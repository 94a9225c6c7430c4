// Package imageutil implements the page-transform pipeline's pixel-level
// primitives: crop, auto-contrast, resize and palette quantization
// (§4.3). Crop scanning is adapted from the teacher's
// cmd/crop/autocrop.go; the filter-chain style for contrast/resize/
// grayscale is adapted from the gift-based processor found in the wider
// example pack (ppkhoa-go-comic-converter's epubimageprocessor).
package imageutil

import (
	"image"
	"image/color"
)

const grayDarknessLimit = 128

// CropBounds finds the tightest bounding box of non-background content in
// img, scanning inward from each edge, mirroring the teacher's
// cmd/crop/autocrop.go Bounds().
func CropBounds(img image.Image) image.Rectangle {
	left := findBorder(img, image.Pt(1, 0))
	right := findBorder(img, image.Pt(-1, 0))
	top := findBorder(img, image.Pt(0, 1))
	bottom := findBorder(img, image.Pt(0, -1))
	return image.Rect(left.X, top.Y, right.X, bottom.Y)
}

// LimitedCropBounds constrains CropBounds by power (§4.3: "how
// aggressively to trim near the bbox") and enforces minRatio (the
// retained area may not drop below this fraction of the source area).
func LimitedCropBounds(img image.Image, power float64, minRatio float64) image.Rectangle {
	bounds := img.Bounds()
	tight := CropBounds(img)

	maxInset := float64(bounds.Dx()+bounds.Dy()) / 2 * power
	limited := tight.Union(bounds.Inset(int(maxInset)))

	srcArea := float64(bounds.Dx() * bounds.Dy())
	if srcArea > 0 {
		for minRatio > 0 && float64(limited.Dx()*limited.Dy())/srcArea < minRatio {
			// grow symmetrically back toward the source bounds until the
			// minimum retained area ratio is satisfied.
			limited = growRect(limited, bounds, 1)
			if limited == bounds {
				break
			}
		}
	}
	return limited
}

func growRect(r, limit image.Rectangle, step int) image.Rectangle {
	if r.Min.X > limit.Min.X {
		r.Min.X -= step
	}
	if r.Min.Y > limit.Min.Y {
		r.Min.Y -= step
	}
	if r.Max.X < limit.Max.X {
		r.Max.X += step
	}
	if r.Max.Y < limit.Max.Y {
		r.Max.Y += step
	}
	return r
}

func findBorder(img image.Image, dir image.Point) image.Point {
	bounds := img.Bounds()
	scan := image.Pt(dir.Y, dir.X)
	pt := pointInScanCorner(bounds, dir)

	for !scanLineForNonWhitespace(img, pt, scan) {
		pt = pt.Add(dir)
		if !pt.In(bounds) {
			pt = pointInScanCorner(bounds, dir)
			break
		}
	}

	if dir.X < 0 || dir.Y < 0 {
		return pt.Sub(dir)
	}
	return pt
}

func pointInScanCorner(rect image.Rectangle, dir image.Point) image.Point {
	if dir.X < 0 || dir.Y < 0 {
		return rect.Max.Sub(image.Pt(1, 1))
	}
	return rect.Min
}

func scanLineForNonWhitespace(img image.Image, pt image.Point, scan image.Point) bool {
	for ; pt.In(img.Bounds()); pt = pt.Add(scan) {
		if gray, ok := color.GrayModel.Convert(img.At(pt.X, pt.Y)).(color.Gray); ok {
			if gray.Y <= grayDarknessLimit {
				return true
			}
		}
	}
	return false
}

// PageNumberTrim additionally removes small high-contrast regions at the
// top/bottom edges that match page-number geometry, per the
// "margins+page-numbers" cropping mode (§4.3). A page-number region is
// modeled as the top or bottom strip of bounds, 6% of its height, that
// has dark content while the image columns left and right of bounds at
// the same rows have none. The width of the mark itself is not checked.
func PageNumberTrim(img image.Image, bounds image.Rectangle) image.Rectangle {
	h := bounds.Dy()
	edge := int(float64(h) * 0.06)
	if edge < 1 {
		return bounds
	}

	top := bounds
	top.Max.Y = top.Min.Y + edge
	if isIsolatedMark(img, top) {
		bounds.Min.Y += edge
	}

	bottom := bounds
	bottom.Min.Y = bottom.Max.Y - edge
	if isIsolatedMark(img, bottom) {
		bounds.Max.Y -= edge
	}
	return bounds
}

func isIsolatedMark(img image.Image, strip image.Rectangle) bool {
	full := img.Bounds()
	leftMargin := image.Rect(full.Min.X, strip.Min.Y, strip.Min.X, strip.Max.Y)
	rightMargin := image.Rect(strip.Max.X, strip.Min.Y, full.Max.X, strip.Max.Y)
	return !hasContent(img, leftMargin) && !hasContent(img, rightMargin) && hasContent(img, strip)
}

func hasContent(img image.Image, r image.Rectangle) bool {
	if r.Empty() {
		return false
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if gray, ok := color.GrayModel.Convert(img.At(x, y)).(color.Gray); ok {
				if gray.Y <= grayDarknessLimit {
					return true
				}
			}
		}
	}
	return false
}
