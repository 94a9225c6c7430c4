// Package config defines the immutable Conversion Options record passed
// by value to every worker in the pipeline, plus its validation rules.
package config

import (
	"fmt"

	"github.com/comictools/c2e/internal/imageutil"
	"github.com/comictools/c2e/internal/profile"
	"github.com/pkg/errors"
)

// DoublePagePolicy controls how wide source images are handled.
type DoublePagePolicy int

const (
	DoublePageSplit DoublePagePolicy = iota
	DoublePageRotate
	DoublePageBoth
)

// CroppingMode controls margin/page-number cropping.
type CroppingMode int

const (
	CroppingOff CroppingMode = iota
	CroppingMargins
	CroppingMarginsAndPageNumbers
)

// ResizePolicy controls how pages are fit to the device resolution.
type ResizePolicy int

const (
	ResizeDefault ResizePolicy = iota
	ResizeStretch
	ResizeUpscale
	ResizeNoShrink
)

// VolumeSplitMode controls how pages are grouped into volumes.
type VolumeSplitMode int

const (
	VolumeSplitNone VolumeSplitMode = iota
	VolumeSplitAuto
	VolumeSplitPerSubdirectory
)

// SkipPolicy enumerates the six skip/copy policy values from §6.
type SkipPolicy int

const (
	SkipNone                  SkipPolicy = 0
	SkipIfTargetExists        SkipPolicy = 1
	SkipIfAlreadyProcessed    SkipPolicy = 2
	CopyIfAlreadyProcessed    SkipPolicy = 3
	SkipTargetAndProcessed    SkipPolicy = 4
	SkipTargetCopyProcessed   SkipPolicy = 5
)

// Config is the immutable conversion options record (§3). It is copied by
// value into every worker task.
type Config struct {
	ProfileID      string
	CustomWidth    int
	CustomHeight   int
	MangaStyle     bool // reading direction: true = right-to-left
	DoublePage     DoublePagePolicy
	Cropping       CroppingMode
	CropPower      float64
	CropMinRatio   float64
	Resize         ResizePolicy
	HQ             bool
	ForceColor     bool
	ForcePNG       bool
	MozJPEG        bool
	Gamma          float64
	BorderColor    string // "" = auto-detect
	Autoscale      bool   // panel-view magnification fills the device width (--two-panel)
	Webtoon        bool
	WebtoonHeight  int
	OutputFormat   profile.Format
	VolumeSplit    VolumeSplitMode
	TargetSizeMiB  int64
	SkipExisting   SkipPolicy
	PadZeros       int
	CopyComicInfo  bool
	Title          string
	Output         string
	CopySourceTree string
	NoProcessing   bool
}

// Default target sizes in bytes, per §3.
const (
	DefaultTargetSizeGeneral = 400 * 1024 * 1024
	DefaultTargetSizeWebtoon = 100 * 1024 * 1024
)

// Default returns a Config with the spec's documented defaults.
func Default() Config {
	return Config{
		ProfileID:     "KV",
		DoublePage:    DoublePageSplit,
		Cropping:      CroppingMargins,
		CropPower:     1.0,
		CropMinRatio:  0.25,
		Resize:        ResizeDefault,
		Gamma:         0,
		OutputFormat:  profile.FormatEPUB,
		VolumeSplit:   VolumeSplitAuto,
		TargetSizeMiB: DefaultTargetSizeGeneral / (1024 * 1024),
		SkipExisting:  SkipNone,
		PadZeros:      0,
	}
}

// ErrConfiguration wraps a configuration error per § ERROR HANDLING: it
// must be surfaced before any work begins.
type ErrConfiguration struct{ Reason string }

func (e ErrConfiguration) Error() string { return "configuration error: " + e.Reason }

// Validate implements the configuration-error checks named in §7:
// conflicting flags, unknown profile, unparseable border color. Config
// carries an already-resolved OutputFormat, so the Auto-format check for
// an unknown manufacturer happens earlier, in cmd/c2e's resolveFormat.
func (c Config) Validate() error {
	if c.ProfileID != profile.CustomProfileID {
		if _, err := profile.Lookup(c.ProfileID); err != nil {
			return errors.Wrap(ErrConfiguration{Reason: err.Error()}, "validating profile")
		}
	} else if c.CustomWidth <= 0 || c.CustomHeight <= 0 {
		return ErrConfiguration{Reason: "custom profile requires positive --customwidth/--customheight"}
	}

	if c.CopyComicInfo && c.OutputFormat != profile.FormatCBZ {
		return ErrConfiguration{Reason: "--copycomicinfo is only valid with CBZ output"}
	}

	if c.CropPower < 0 {
		return ErrConfiguration{Reason: "cropping power must be >= 0"}
	}
	if c.CropMinRatio < 0 || c.CropMinRatio > 1 {
		return ErrConfiguration{Reason: "cropping minimum ratio must be in [0,1]"}
	}
	if c.Gamma < 0 {
		return ErrConfiguration{Reason: "gamma must be >= 0 (0 means auto)"}
	}
	if c.Webtoon && c.WebtoonHeight <= 0 {
		return ErrConfiguration{Reason: "webtoon mode requires a positive target height"}
	}
	if c.BorderColor != "" {
		if _, ok := imageutil.ParseNamedOrHexColor(c.BorderColor); !ok {
			return ErrConfiguration{Reason: fmt.Sprintf("unparseable --bordercolor %q, expected black, white, or #rrggbb", c.BorderColor)}
		}
	}
	if c.SkipExisting < SkipNone || c.SkipExisting > SkipTargetCopyProcessed {
		return ErrConfiguration{Reason: fmt.Sprintf("invalid skipexisting value %d", c.SkipExisting)}
	}
	if c.PadZeros < 0 {
		return ErrConfiguration{Reason: "padzeros must be >= 0"}
	}
	return nil
}

// EffectiveProfile resolves the profile named by the config, applying the
// custom-resolution override and manufacturer rules (§4.1).
func (c Config) EffectiveProfile() (profile.Profile, error) {
	var p profile.Profile
	if c.ProfileID == profile.CustomProfileID {
		base, err := profile.Lookup("OTHER")
		if err != nil {
			return profile.Profile{}, err
		}
		p = profile.WithCustomResolution(base, c.CustomWidth, c.CustomHeight)
	} else {
		var err error
		p, err = profile.Lookup(c.ProfileID)
		if err != nil {
			return profile.Profile{}, err
		}
		if c.CustomWidth > 0 && c.CustomHeight > 0 {
			p = profile.WithCustomResolution(p, c.CustomWidth, c.CustomHeight)
		}
	}

	outputFormat := c.OutputFormat
	if c.Webtoon {
		p.Features.PanelView = false
		p.Features.HQMagnify = false
	}
	return profile.ApplyManufacturerRules(p, outputFormat), nil
}

// TargetSize returns the effective volume-split target size in bytes,
// applying the webtoon default (§3) when no explicit size was set.
func (c Config) TargetSize() int64 {
	if c.TargetSizeMiB > 0 {
		return c.TargetSizeMiB * 1024 * 1024
	}
	if c.Webtoon {
		return DefaultTargetSizeWebtoon
	}
	return DefaultTargetSizeGeneral
}
