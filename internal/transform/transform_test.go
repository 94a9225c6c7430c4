package transform

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"testing"

	"github.com/comictools/c2e/internal/config"
	"github.com/comictools/c2e/internal/pageparser"
	"github.com/comictools/c2e/internal/sidecar"
)

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestTransformProducesDecodableJPEG(t *testing.T) {
	src := solidImage(2000, 3000, color.White)
	cfg := config.Default()
	p, err := cfg.EffectiveProfile()
	if err != nil {
		t.Fatal(err)
	}
	sc := sidecar.New()
	page := pageparser.Page{SourcePath: "a.jpg", Variant: pageparser.VariantSingle}

	res, err := Transform(src, page, cfg, p, sc)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if res.Ext != ".jpg" {
		t.Fatalf("expected jpg output by default, got %s", res.Ext)
	}
	if _, err := jpeg.Decode(bytes.NewReader(res.Encoded)); err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	if res.Width > p.Width || res.Height > p.Height {
		t.Errorf("expected output to fit device resolution, got %dx%d vs %dx%d", res.Width, res.Height, p.Width, p.Height)
	}
}

func TestTransformRegistersSidecarTagsByContentFingerprint(t *testing.T) {
	src := solidImage(2000, 3000, color.White)
	cfg := config.Default()
	p, _ := cfg.EffectiveProfile()
	sc := sidecar.New()
	page := pageparser.Page{SourcePath: "a.jpg", Variant: pageparser.VariantSingle, Rotation: 90}

	res, err := Transform(src, page, cfg, p, sc)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Tags.Rotated {
		t.Error("expected Rotated tag to be set")
	}
	got := sc.Get(res.Fingerprint)
	if !got.Rotated {
		t.Error("expected sidecar to record the rotated tag under the content fingerprint")
	}
}

func TestTransformForcePNGEncodesPNG(t *testing.T) {
	src := solidImage(100, 100, color.White)
	cfg := config.Default()
	cfg.ForcePNG = true
	p, _ := cfg.EffectiveProfile()
	sc := sidecar.New()
	page := pageparser.Page{SourcePath: "a.jpg", Variant: pageparser.VariantSingle}

	res, err := Transform(src, page, cfg, p, sc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ext != ".png" {
		t.Errorf("expected png output, got %s", res.Ext)
	}
}

func TestTransformNoProcessingSkipsResize(t *testing.T) {
	src := solidImage(300, 400, color.White)
	cfg := config.Default()
	cfg.NoProcessing = true
	p, _ := cfg.EffectiveProfile()
	sc := sidecar.New()
	page := pageparser.Page{SourcePath: "a.jpg", Variant: pageparser.VariantSingle}

	res, err := Transform(src, page, cfg, p, sc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 300 || res.Height != 400 {
		t.Errorf("expected --noprocessing to leave dimensions untouched, got %dx%d", res.Width, res.Height)
	}
}

func TestRunPoolPreservesJobOrderAndPropagatesFirstError(t *testing.T) {
	cfg := config.Default()
	p, _ := cfg.EffectiveProfile()
	sc := sidecar.New()

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{
			Source: solidImage(100, 150, color.White),
			Pages:  []pageparser.Page{{SourcePath: "x", Variant: pageparser.VariantSingle}},
		}
	}

	results, err := RunPool(context.Background(), jobs, cfg, p, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, r := range results {
		if len(r) != 1 {
			t.Errorf("job %d: expected 1 page result, got %d", i, len(r))
		}
	}
}
