package imageutil

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/gift"
	xdraw "golang.org/x/image/draw"
)

// Target is the device resolution a page is being fit to.
type Target struct {
	Width  int
	Height int
}

// Policy mirrors config.ResizePolicy without importing the config
// package, keeping imageutil free of a dependency on the CLI-facing
// config types.
type Policy int

const (
	PolicyDefault Policy = iota
	PolicyStretch
	PolicyUpscale
	PolicyNoShrink
)

// Resize implements the resize-policy matrix from §4.3 step 3. border is
// used to pad images that end up letterboxed.
func Resize(src image.Image, target Target, policy Policy, border color.Color) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	largerBoth := sw >= target.Width && sh >= target.Height
	smallerBoth := sw <= target.Width && sh <= target.Height
	wrongAspect := !largerBoth && !smallerBoth

	switch {
	case largerBoth:
		// fit with aspect-preserving scale-down, for every policy.
		return fitAspectPreserving(src, target)

	case smallerBoth:
		switch policy {
		case PolicyStretch:
			return stretchTo(src, target)
		case PolicyNoShrink:
			return padCenter(src, target, border)
		case PolicyUpscale:
			return padCenter(fitAspectPreserving(upscaleToFit(src, target), target), target, border)
		default:
			return padCenter(src, target, border)
		}

	case wrongAspect:
		switch policy {
		case PolicyStretch:
			return stretchTo(src, target)
		default:
			return padCenter(fitAspectPreserving(src, target), target, border)
		}
	}
	return src
}

func fitAspectPreserving(src image.Image, target Target) image.Image {
	g := gift.New(gift.ResizeToFit(target.Width, target.Height, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

func stretchTo(src image.Image, target Target) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func upscaleToFit(src image.Image, target Target) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	scaleW := float64(target.Width) / float64(sw)
	scaleH := float64(target.Height) / float64(sh)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	nw, nh := int(float64(sw)*scale), int(float64(sh)*scale)
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func padCenter(src image.Image, target Target, border color.Color) image.Image {
	if border == nil {
		border = color.White
	}
	dst := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: border}, image.Point{}, draw.Src)

	sb := src.Bounds()
	offX := (target.Width - sb.Dx()) / 2
	offY := (target.Height - sb.Dy()) / 2
	draw.Draw(dst, image.Rect(offX, offY, offX+sb.Dx(), offY+sb.Dy()), src, sb.Min, draw.Over)
	return dst
}

// TopMarginPercent computes the per-page XHTML top-margin percentage
// described in §4.7: (device_h − image_h) / 2 / device_h × 100.
func TopMarginPercent(deviceHeight, imageHeight int) float64 {
	if deviceHeight == 0 {
		return 0
	}
	return float64(deviceHeight-imageHeight) / 2 / float64(deviceHeight) * 100
}

// HQTarget doubles the target resolution on both axes, for the --hq
// option (§3: "render at 1/1.5× of source for later magnification";
// §4.3: "if hq, target is doubled on both axes" at resize time).
func HQTarget(t Target) Target {
	return Target{Width: t.Width * 2, Height: t.Height * 2}
}
