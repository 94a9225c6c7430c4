package transform

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/comictools/c2e/internal/pageparser"
	"github.com/disintegration/gift"
)

var (
	grayBlack = color.Gray{Y: 0x00}
	grayWhite = color.Gray{Y: 0xFF}
)

// rotate applies a 90-degree clockwise or counter-clockwise rotation.
func rotate(img image.Image, r pageparser.Rotation) image.Image {
	var f gift.Filter
	switch {
	case r > 0:
		f = gift.Rotate90()
	case r < 0:
		f = gift.Rotate270()
	default:
		return img
	}
	g := gift.New(f)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// halfOf extracts the left or right half of a double-wide image,
// depending on the requested variant, for the "split" double-page
// policy (§4.2).
func halfOf(img image.Image, variant pageparser.Variant) image.Image {
	b := img.Bounds()
	mid := b.Min.X + b.Dx()/2

	var region image.Rectangle
	switch variant {
	case pageparser.VariantLeftHalf, pageparser.VariantDuplicateB:
		region = image.Rect(b.Min.X, b.Min.Y, mid, b.Max.Y)
	case pageparser.VariantRightHalf, pageparser.VariantDuplicateC:
		region = image.Rect(mid, b.Min.Y, b.Max.X, b.Max.Y)
	default:
		return img
	}

	dst := image.NewNRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(dst, dst.Bounds(), img, region.Min, draw.Src)
	return dst
}

// cropTo returns the sub-image of img within bounds.
func cropTo(img image.Image, bounds image.Rectangle) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}
