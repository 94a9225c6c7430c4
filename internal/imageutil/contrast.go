package imageutil

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"
)

// AutoContrast stretches the image's histogram to the full range,
// preserving a small low/high cutoff, per §4.3 step 2. It is a thin
// wrapper around gift's own Contrast filter combined with a histogram
// scan, following the filter-chain idiom used throughout the example
// pack's gift-based image processor.
func AutoContrast(src image.Image, cutoff float64) image.Image {
	lo, hi := histogramBounds(src, cutoff)
	if hi <= lo {
		return src
	}

	g := gift.New(gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		stretch := func(v float32) float32 {
			scaled := (v - float32(lo)/255) / (float32(hi-lo) / 255)
			if scaled < 0 {
				scaled = 0
			}
			if scaled > 1 {
				scaled = 1
			}
			return scaled
		}
		return stretch(r0), stretch(g0), stretch(b0), a0
	}))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// histogramBounds returns the [lo, hi] luma values that cut off the
// darkest/brightest cutoff fraction of pixels from each tail.
func histogramBounds(src image.Image, cutoff float64) (int, int) {
	var hist [256]int
	b := src.Bounds()
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			hist[gray.Y]++
			total++
		}
	}
	if total == 0 {
		return 0, 255
	}

	cut := int(float64(total) * cutoff)
	lo, acc := 0, 0
	for lo = 0; lo < 255; lo++ {
		acc += hist[lo]
		if acc > cut {
			break
		}
	}
	hi, acc := 255, 0
	for hi = 255; hi > 0; hi-- {
		acc += hist[hi]
		if acc > cut {
			break
		}
	}
	return lo, hi
}

// ApplyGamma applies a gamma curve. If gamma is 0, it is first derived
// from the image's mean luminance per §4.3 step 2.
func ApplyGamma(src image.Image, gamma float64) image.Image {
	if gamma == 0 {
		gamma = deriveGammaFromLuminance(src)
	}
	g := gift.New(gift.Gamma(float32(gamma)))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

func deriveGammaFromLuminance(src image.Image) float64 {
	b := src.Bounds()
	var sum, count float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			sum += float64(gray.Y)
			count++
		}
	}
	if count == 0 {
		return 1.0
	}
	mean := sum / count / 255
	if mean <= 0 {
		return 1.0
	}
	// Target a mid-gray mean of 0.5; derive the gamma exponent that would
	// map the observed mean there.
	gamma := math.Log(0.5) / math.Log(mean)
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return 1.0
	}
	return gamma
}
