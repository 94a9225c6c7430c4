package webtoon

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	scanBand        = 5
	edgeMargin      = 4 // px skipped on each side to avoid edge noise (8px total)
	openOffset      = 2
	closeOffset     = 6
	minResidualPage = 15
	grayDarkLimit   = 128
)

// Panel is a detected vertical region of a strip, in strip-local
// coordinates.
type Panel struct {
	Top    int
	Bottom int
}

func (p Panel) Height() int { return p.Bottom - p.Top }

// DetectPanels scans strip vertically in 5px bands, skipping edgeMargin
// pixels on each horizontal side, opening a panel 2px before a
// solid->non-solid transition and closing it 6px after the reverse
// transition (§4.4 split phase).
func DetectPanels(strip image.Image) []Panel {
	b := strip.Bounds()
	scanLeft := b.Min.X + edgeMargin
	scanRight := b.Max.X - edgeMargin
	if scanRight <= scanLeft {
		scanLeft, scanRight = b.Min.X, b.Max.X
	}

	var panels []Panel
	inPanel := false
	panelTop := 0
	prevSolid := true

	for y := b.Min.Y; y < b.Max.Y; y += scanBand {
		bandBottom := y + scanBand
		if bandBottom > b.Max.Y {
			bandBottom = b.Max.Y
		}
		solid := isBandSolid(strip, scanLeft, y, scanRight, bandBottom)

		if prevSolid && !solid && !inPanel {
			panelTop = y - openOffset
			if panelTop < b.Min.Y {
				panelTop = b.Min.Y
			}
			inPanel = true
		} else if !prevSolid && solid && inPanel {
			bottom := y + closeOffset
			if bottom > b.Max.Y {
				bottom = b.Max.Y
			}
			panels = append(panels, Panel{Top: panelTop, Bottom: bottom})
			inPanel = false
		}
		prevSolid = solid
	}

	if inPanel {
		panels = append(panels, Panel{Top: panelTop, Bottom: b.Max.Y})
	}
	return panels
}

func isBandSolid(img image.Image, x0, y0, x1, y1 int) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if gray.Y <= grayDarkLimit {
				return false
			}
		}
	}
	return true
}

// SplitOversizedPanels implements the §4.4 post-process step: panels
// taller than 1.5x target but shorter than 2x are split into two
// overlapping halves of target height; panels >= 2x target are divided
// into round(height/target) equal segments.
func SplitOversizedPanels(panels []Panel, targetHeight int) []Panel {
	var out []Panel
	for _, p := range panels {
		h := p.Height()
		switch {
		case h >= 2*targetHeight:
			n := roundDiv(h, targetHeight)
			if n < 1 {
				n = 1
			}
			segH := h / n
			for i := 0; i < n; i++ {
				top := p.Top + i*segH
				bottom := top + segH
				if i == n-1 {
					bottom = p.Bottom
				}
				out = append(out, Panel{Top: top, Bottom: bottom})
			}
		case h > targetHeight+targetHeight/2:
			out = append(out,
				Panel{Top: p.Top, Bottom: p.Top + targetHeight},
				Panel{Top: p.Bottom - targetHeight, Bottom: p.Bottom},
			)
		default:
			out = append(out, p)
		}
	}
	return out
}

func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// Page is a packed virtual page: a sequence of panels from one source
// strip, plus its total pixel height.
type Page struct {
	Panels []Panel
	Height int
}

// PackPages greedily fills virtual pages of height targetHeight with
// whole panels, per §4.4's packing rule: a panel that does not leave the
// page with room to spare starts a new page — an exact fit counts as
// "does not fit", so a panel landing the cumulative height exactly on
// targetHeight flushes first. Every flushed page, not just the final
// one, is dropped if its residual height is below 15px.
func PackPages(panels []Panel, targetHeight int) []Page {
	var pages []Page
	var current Page

	flush := func() {
		if current.Height >= minResidualPage {
			pages = append(pages, current)
		}
		current = Page{}
	}

	for _, p := range panels {
		h := p.Height()
		if current.Height+h >= targetHeight && current.Height > 0 {
			flush()
		}
		current.Panels = append(current.Panels, p)
		current.Height += h
	}
	flush()
	return pages
}

// Render composites the panels of a packed page into a single image,
// cropped from the source strip.
func Render(strip image.Image, page Page) image.Image {
	b := strip.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), page.Height))
	y := 0
	for _, p := range page.Panels {
		region := image.Rect(b.Min.X, p.Top, b.Max.X, p.Bottom)
		h := region.Dy()
		draw.Draw(dst, image.Rect(0, y, b.Dx(), y+h), strip, region.Min, draw.Src)
		y += h
	}
	return dst
}
