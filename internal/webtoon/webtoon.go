// Package webtoon implements the vertical-strip merge and split phases
// described in §4.4: optional per-directory merge of all strips to a
// common width, then horizontal-slice segmentation into bounded-height
// pages. The resampling approach mirrors the teacher's
// cmd/formats/epub/epub.go scaleImageToMaxWidth, which uses
// golang.org/x/image/draw's CatmullRom kernel.
package webtoon

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// MaxMergedHeight is the safety bound from §4.4: a merged strip taller
// than this is rejected rather than produced.
const MaxMergedHeight = 131072

// ErrMergedStripTooTall is returned when the merge phase would exceed
// MaxMergedHeight.
type ErrMergedStripTooTall struct{ Height int }

func (e ErrMergedStripTooTall) Error() string {
	return "merged webtoon strip would exceed the safety height bound"
}

// Merge vertically concatenates imgs (resized to the modal width,
// top-aligned) into a single tall strip, per §4.4's merge phase.
func Merge(imgs []image.Image) (image.Image, error) {
	if len(imgs) == 0 {
		return nil, nil
	}

	targetWidth := modeWidth(imgs)
	totalHeight := 0
	resized := make([]image.Image, len(imgs))
	for i, img := range imgs {
		r := resizeToWidth(img, targetWidth)
		resized[i] = r
		totalHeight += r.Bounds().Dy()
	}

	if totalHeight > MaxMergedHeight {
		return nil, ErrMergedStripTooTall{Height: totalHeight}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, targetWidth, totalHeight))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	y := 0
	for _, r := range resized {
		b := r.Bounds()
		draw.Draw(dst, image.Rect(0, y, targetWidth, y+b.Dy()), r, b.Min, draw.Src)
		y += b.Dy()
	}
	return dst, nil
}

func modeWidth(imgs []image.Image) int {
	counts := map[int]int{}
	for _, img := range imgs {
		counts[img.Bounds().Dx()]++
	}
	best, bestCount := 0, -1
	// iterate widths in ascending order for determinism when counts tie.
	widths := make([]int, 0, len(counts))
	for w := range counts {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	for _, w := range widths {
		if counts[w] > bestCount {
			best, bestCount = w, counts[w]
		}
	}
	return best
}

func resizeToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() == width {
		return img
	}
	scale := float64(width) / float64(b.Dx())
	height := int(float64(b.Dy()) * scale)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
