package profile

import "testing"

func TestLookupKnownProfile(t *testing.T) {
	p, err := Lookup("KV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Width != 1072 || p.Height != 1448 {
		t.Errorf("unexpected resolution for KV: %dx%d", p.Width, p.Height)
	}
}

func TestLookupUnknownProfile(t *testing.T) {
	_, err := Lookup("NOPE")
	if err == nil {
		t.Fatal("expected an error for an unknown profile")
	}
	if _, ok := err.(ErrUnknownProfile); !ok {
		t.Errorf("expected ErrUnknownProfile, got %T", err)
	}
}

func TestApplyManufacturerRulesDisablesOldKindleFeatures(t *testing.T) {
	for _, id := range []string{"K1", "K2", "K34", "KDX"} {
		p, err := Lookup(id)
		if err != nil {
			t.Fatalf("lookup %s: %v", id, err)
		}
		p = ApplyManufacturerRules(p, FormatMOBI)
		if p.Features.PanelView || p.Features.HQMagnify {
			t.Errorf("%s: expected panel_view and hq disabled, got %+v", id, p.Features)
		}
	}
}

func TestApplyManufacturerRulesKoboDisablesPanelView(t *testing.T) {
	p, err := Lookup("KO")
	if err != nil {
		t.Fatal(err)
	}
	p = ApplyManufacturerRules(p, FormatEPUB)
	if p.Features.PanelView || p.Features.HQMagnify {
		t.Errorf("expected Kobo to disable panel_view/hq, got %+v", p.Features)
	}
}

func TestApplyManufacturerRulesKDXCBZOverridesHeight(t *testing.T) {
	p, err := Lookup("KDX")
	if err != nil {
		t.Fatal(err)
	}
	p = ApplyManufacturerRules(p, FormatCBZ)
	if p.Height != 1200 {
		t.Errorf("expected KDX+CBZ height override to 1200, got %d", p.Height)
	}
}

func TestApplyManufacturerRulesKFXDisablesPanelView(t *testing.T) {
	p, err := Lookup("KV")
	if err != nil {
		t.Fatal(err)
	}
	p = ApplyManufacturerRules(p, FormatKFX)
	if p.Features.PanelView {
		t.Error("expected KFX to disable panel view")
	}
}

func TestWithCustomResolutionKeepsPaletteAndManufacturer(t *testing.T) {
	base, err := Lookup("KO")
	if err != nil {
		t.Fatal(err)
	}
	custom := WithCustomResolution(base, 1234, 5678)
	if custom.ID != CustomProfileID {
		t.Errorf("expected id %q, got %q", CustomProfileID, custom.ID)
	}
	if custom.Width != 1234 || custom.Height != 5678 {
		t.Errorf("unexpected custom resolution: %dx%d", custom.Width, custom.Height)
	}
	if custom.PaletteSize != base.PaletteSize || custom.Manufacturer != base.Manufacturer {
		t.Error("expected custom profile to retain source palette/manufacturer")
	}
}

func TestListIsStableAndNonEmpty(t *testing.T) {
	a := List()
	b := List()
	if len(a) == 0 {
		t.Fatal("expected a non-empty profile list")
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("List() is not stable across calls")
		}
	}
}

func TestDefaultFormatByManufacturer(t *testing.T) {
	kv, _ := Lookup("KV")
	if DefaultFormat(kv) != FormatMOBI {
		t.Errorf("expected Kindle default format MOBI, got %v", DefaultFormat(kv))
	}
	ko, _ := Lookup("KO")
	if DefaultFormat(ko) != FormatEPUB {
		t.Errorf("expected Kobo default format EPUB, got %v", DefaultFormat(ko))
	}
	other, _ := Lookup("OTHER")
	if DefaultFormat(other) != FormatCBZ {
		t.Errorf("expected OTHER default format CBZ, got %v", DefaultFormat(other))
	}
}
