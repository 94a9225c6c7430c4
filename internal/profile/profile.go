// Package profile holds the device profile registry: the set of known
// e-reader targets and the resolution/palette/manufacturer quirks that
// drive the rest of the pipeline's defaults.
package profile

import "fmt"

// Manufacturer groups profiles that share default-format and
// feature-disable rules.
type Manufacturer int

const (
	ManufacturerKindle Manufacturer = iota
	ManufacturerKobo
	ManufacturerOther
)

// Format is an output container kind.
type Format int

const (
	FormatCBZ Format = iota
	FormatEPUB
	FormatMOBI
	FormatKFX
)

func (f Format) String() string {
	switch f {
	case FormatCBZ:
		return "CBZ"
	case FormatEPUB:
		return "EPUB"
	case FormatMOBI:
		return "MOBI"
	case FormatKFX:
		return "KFX"
	default:
		return "Unknown"
	}
}

// Features are the per-profile capability toggles named in the spec.
type Features struct {
	PanelView    bool
	HQMagnify    bool
	KindleFamily bool
	KoboFamily   bool
}

// Profile is an immutable device description.
type Profile struct {
	ID           string
	DisplayName  string
	Width        int
	Height       int
	PaletteSize  int // 0 means full color
	Manufacturer Manufacturer
	Features     Features
	DefaultFmt   Format
}

// Grayscale reports whether this profile uses a fixed grayscale palette;
// PaletteSize holds how many entries it has. Per spec §3, the typical
// case is 16.
func (p Profile) Grayscale() bool { return p.PaletteSize > 0 }

// CustomProfileID is used for synthetic profiles built from
// --customwidth/--customheight overrides.
const CustomProfileID = "Custom"

var registry = map[string]Profile{
	"K1": {
		ID: "K1", DisplayName: "Kindle 1", Width: 600, Height: 670,
		PaletteSize: 16, Manufacturer: ManufacturerKindle,
		Features:   Features{PanelView: false, HQMagnify: false, KindleFamily: true},
		DefaultFmt: FormatMOBI,
	},
	"K2": {
		ID: "K2", DisplayName: "Kindle 2", Width: 600, Height: 670,
		PaletteSize: 16, Manufacturer: ManufacturerKindle,
		Features:   Features{PanelView: false, HQMagnify: false, KindleFamily: true},
		DefaultFmt: FormatMOBI,
	},
	"K34": {
		ID: "K34", DisplayName: "Kindle Keyboard/Kindle 4", Width: 600, Height: 800,
		PaletteSize: 16, Manufacturer: ManufacturerKindle,
		Features:   Features{PanelView: false, HQMagnify: false, KindleFamily: true},
		DefaultFmt: FormatMOBI,
	},
	"KDX": {
		ID: "KDX", DisplayName: "Kindle DX", Width: 824, Height: 1000,
		PaletteSize: 16, Manufacturer: ManufacturerKindle,
		Features:   Features{PanelView: false, HQMagnify: false, KindleFamily: true},
		DefaultFmt: FormatMOBI,
	},
	"KPW": {
		ID: "KPW", DisplayName: "Kindle Paperwhite", Width: 758, Height: 1024,
		PaletteSize: 16, Manufacturer: ManufacturerKindle,
		Features:   Features{PanelView: true, HQMagnify: true, KindleFamily: true},
		DefaultFmt: FormatMOBI,
	},
	"KV": {
		ID: "KV", DisplayName: "Kindle Voyage/Oasis", Width: 1072, Height: 1448,
		PaletteSize: 16, Manufacturer: ManufacturerKindle,
		Features:   Features{PanelView: true, HQMagnify: true, KindleFamily: true},
		DefaultFmt: FormatMOBI,
	},
	"KPW5": {
		ID: "KPW5", DisplayName: "Kindle Paperwhite 5", Width: 1236, Height: 1648,
		PaletteSize: 16, Manufacturer: ManufacturerKindle,
		Features:   Features{PanelView: true, HQMagnify: true, KindleFamily: true},
		DefaultFmt: FormatMOBI,
	},
	"KO": {
		ID: "KO", DisplayName: "Kobo", Width: 1072, Height: 1448,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"KoMT": {
		ID: "KoMT", DisplayName: "Kobo Mini/Touch", Width: 600, Height: 800,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"KoG": {
		ID: "KoG", DisplayName: "Kobo Glo", Width: 768, Height: 1024,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"KoGHD": {
		ID: "KoGHD", DisplayName: "Kobo Glo HD", Width: 1072, Height: 1448,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"KoA": {
		ID: "KoA", DisplayName: "Kobo Aura", Width: 758, Height: 1024,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"KoAHD": {
		ID: "KoAHD", DisplayName: "Kobo Aura HD", Width: 1080, Height: 1440,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"KoAH2O": {
		ID: "KoAH2O", DisplayName: "Kobo Aura H2O", Width: 1080, Height: 1430,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"KoAO": {
		ID: "KoAO", DisplayName: "Kobo Aura One", Width: 1404, Height: 1872,
		PaletteSize: 16, Manufacturer: ManufacturerKobo,
		Features:   Features{PanelView: false, HQMagnify: false, KoboFamily: true},
		DefaultFmt: FormatEPUB,
	},
	"OTHER": {
		ID: "OTHER", DisplayName: "Other / generic", Width: 1072, Height: 1448,
		PaletteSize: 0, Manufacturer: ManufacturerOther,
		Features:   Features{PanelView: false, HQMagnify: false},
		DefaultFmt: FormatCBZ,
	},
}

// ErrUnknownProfile is returned by Lookup for an unrecognized profile id.
type ErrUnknownProfile struct{ ID string }

func (e ErrUnknownProfile) Error() string {
	return fmt.Sprintf("unknown device profile %q", e.ID)
}

// Lookup resolves a profile by id.
func Lookup(id string) (Profile, error) {
	p, ok := registry[id]
	if !ok {
		return Profile{}, ErrUnknownProfile{ID: id}
	}
	return p, nil
}

// List returns every registered profile, in a stable order.
func List() []Profile {
	order := []string{
		"K1", "K2", "K34", "KDX", "KPW", "KV", "KPW5",
		"KO", "KoMT", "KoG", "KoGHD", "KoA", "KoAHD", "KoAH2O", "KoAO",
		"OTHER",
	}
	out := make([]Profile, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id])
	}
	return out
}

// Match reports whether the named profile has the given attribute set to
// value. Supported attributes: "manufacturer", "panel_view", "hq"; any
// other attribute, including "kfx", reports false.
func Match(id string, attribute string, value string) bool {
	p, err := Lookup(id)
	if err != nil {
		return false
	}
	switch attribute {
	case "manufacturer":
		switch value {
		case "kindle":
			return p.Manufacturer == ManufacturerKindle
		case "kobo":
			return p.Manufacturer == ManufacturerKobo
		case "other":
			return p.Manufacturer == ManufacturerOther
		}
	case "panel_view":
		return fmt.Sprintf("%v", p.Features.PanelView) == value
	case "hq":
		return fmt.Sprintf("%v", p.Features.HQMagnify) == value
	}
	return false
}

// WithCustomResolution builds the synthetic "Custom" profile described in
// §3: it keeps the source profile's palette and manufacturer tags but
// overrides the resolution.
func WithCustomResolution(base Profile, width, height int) Profile {
	custom := base
	custom.ID = CustomProfileID
	custom.DisplayName = CustomProfileID
	custom.Width = width
	custom.Height = height
	return custom
}

// ApplyManufacturerRules applies the per-manufacturer feature-disable and
// override rules named in §4.1: K1/K2/K34/KDX disable panel_view and hq;
// Kobo disables panel_view and hq; KDX with CBZ output overrides height to
// 1200; KFX forces EPUB with panel view disabled.
func ApplyManufacturerRules(p Profile, outputFormat Format) Profile {
	switch p.ID {
	case "K1", "K2", "K34", "KDX":
		p.Features.PanelView = false
		p.Features.HQMagnify = false
	}
	if p.Manufacturer == ManufacturerKobo {
		p.Features.PanelView = false
		p.Features.HQMagnify = false
	}
	if p.ID == "KDX" && outputFormat == FormatCBZ {
		p.Height = 1200
	}
	if outputFormat == FormatKFX {
		p.Features.PanelView = false
	}
	return p
}

// DefaultFormat resolves the "Auto" format choice per manufacturer, as
// described in §4.1: Kindle -> MOBI, Kobo/Nook/Tolino/Pocketbook -> EPUB,
// Amazon tablets / Apple / unknown -> CBZ.
func DefaultFormat(p Profile) Format {
	return p.DefaultFmt
}
