package imageutil

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/gift"
)

// Palette16 is the 16-level grayscale palette used by e-ink displays,
// matching the "typical: 16 entries" case named in §3. Grounded on the
// identical construction in the wider example pack (ppkhoa-go-comic-converter's
// cover16LevelOfGray, duplicated verbatim in shisho's kepub/cbz.go
// Palette16), which builds sixteen evenly spaced grays from 0x00 to 0xFF.
var Palette16 = color.Palette{
	color.Gray{Y: 0x00}, color.Gray{Y: 0x11}, color.Gray{Y: 0x22}, color.Gray{Y: 0x33},
	color.Gray{Y: 0x44}, color.Gray{Y: 0x55}, color.Gray{Y: 0x66}, color.Gray{Y: 0x77},
	color.Gray{Y: 0x88}, color.Gray{Y: 0x99}, color.Gray{Y: 0xAA}, color.Gray{Y: 0xBB},
	color.Gray{Y: 0xCC}, color.Gray{Y: 0xDD}, color.Gray{Y: 0xEE}, color.Gray{Y: 0xFF},
}

// QuantizePalette converts src to grayscale and quantizes it onto the
// given N-entry palette, per §4.3 step 4.
func QuantizePalette(src image.Image, palette color.Palette) *image.Paletted {
	bounds := src.Bounds()
	dst := image.NewPaletted(bounds, palette)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

// Grayscale converts src to a full 256-level grayscale image using the
// gift filter chain (§4.3 step 4, "if forcecolor off, convert to
// grayscale").
func Grayscale(src image.Image) image.Image {
	g := gift.New(gift.Grayscale())
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}
