package webtoon

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestMergeConcatenatesToModalWidth(t *testing.T) {
	imgs := []image.Image{
		solid(720, 1000, color.White),
		solid(720, 1200, color.White),
		solid(600, 900, color.White), // off-mode width, gets resized
	}
	merged, err := Merge(imgs)
	if err != nil {
		t.Fatal(err)
	}
	if merged.Bounds().Dx() != 720 {
		t.Errorf("expected merged width 720, got %d", merged.Bounds().Dx())
	}
}

func TestMergeRejectsOversizedStrips(t *testing.T) {
	imgs := []image.Image{solid(100, MaxMergedHeight+10, color.White)}
	_, err := Merge(imgs)
	if err == nil {
		t.Fatal("expected an error for an oversized merged strip")
	}
}

func TestDetectPanelsFindsDarkRegion(t *testing.T) {
	strip := solid(200, 2000, color.White)
	draw.Draw(strip, image.Rect(0, 500, 200, 900), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	panels := DetectPanels(strip)
	if len(panels) != 1 {
		t.Fatalf("expected 1 panel, got %d: %+v", len(panels), panels)
	}
	if panels[0].Top > 500 || panels[0].Bottom < 900 {
		t.Errorf("expected panel to cover the dark region, got %+v", panels[0])
	}
}

func TestSplitOversizedPanelsDividesVeryTallPanels(t *testing.T) {
	p := Panel{Top: 0, Bottom: 3000}
	out := SplitOversizedPanels([]Panel{p}, 1000)
	if len(out) != 3 {
		t.Fatalf("expected a 3000px panel at target 1000 to split into 3, got %d", len(out))
	}
}

func TestSplitOversizedPanelsOverlapsModeratelyTallPanels(t *testing.T) {
	p := Panel{Top: 0, Bottom: 1600} // 1.6x of 1000 target
	out := SplitOversizedPanels([]Panel{p}, 1000)
	if len(out) != 2 {
		t.Fatalf("expected 2 overlapping halves, got %d", len(out))
	}
	for _, o := range out {
		if o.Height() != 1000 {
			t.Errorf("expected each half to equal target height, got %d", o.Height())
		}
	}
}

func TestPackPagesDropsResidualBelowMinimum(t *testing.T) {
	panels := []Panel{{Top: 0, Bottom: 5}} // 5px, below the 15px minimum
	pages := PackPages(panels, 1000)
	if len(pages) != 0 {
		t.Errorf("expected a tiny residual page to be dropped, got %d pages", len(pages))
	}
}

func TestPackPagesStartsNewPageWhenPanelDoesNotFit(t *testing.T) {
	panels := []Panel{
		{Top: 0, Bottom: 800},
		{Top: 800, Bottom: 1600}, // would push total to 1600 > 1000 target
	}
	pages := PackPages(panels, 1000)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
}

func TestPackPagesExactFitStartsNewPage(t *testing.T) {
	panels := []Panel{
		{Top: 0, Bottom: 60},
		{Top: 60, Bottom: 100}, // lands exactly on the 100 target
	}
	pages := PackPages(panels, 100)
	if len(pages) != 2 {
		t.Fatalf("expected an exact fit to start a new page, got %d page(s)", len(pages))
	}
	if pages[0].Height != 60 || pages[1].Height != 40 {
		t.Errorf("expected page heights 60 and 40, got %d and %d", pages[0].Height, pages[1].Height)
	}
}

func TestPackPagesDropsResidualBelowMinimumEvenMidSequence(t *testing.T) {
	panels := []Panel{
		{Top: 0, Bottom: 5},      // 5px, below the 15px minimum
		{Top: 5, Bottom: 1605},   // 1600px, forces the tiny panel above to flush alone
	}
	pages := PackPages(panels, 1000)
	for _, p := range pages {
		if p.Height < minResidualPage {
			t.Errorf("expected no page below %dpx, got one with height %d", minResidualPage, p.Height)
		}
	}
}
