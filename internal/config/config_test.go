package config

import (
	"testing"

	"github.com/comictools/c2e/internal/profile"
)

func TestDefaultConfigValidates(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidateRejectsUnknownProfile(t *testing.T) {
	c := Default()
	c.ProfileID = "NOPE"
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for an unknown profile")
	}
}

func TestValidateRejectsCopyComicInfoWithNonCBZ(t *testing.T) {
	c := Default()
	c.OutputFormat = profile.FormatEPUB
	c.CopyComicInfo = true
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for copycomicinfo with non-CBZ output")
	}
}

func TestValidateRejectsCustomProfileWithoutDimensions(t *testing.T) {
	c := Default()
	c.ProfileID = profile.CustomProfileID
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for a custom profile without dimensions")
	}
}

func TestValidateRejectsWebtoonWithoutHeight(t *testing.T) {
	c := Default()
	c.Webtoon = true
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for webtoon mode without a target height")
	}
}

func TestValidateRejectsUnparseableBorderColor(t *testing.T) {
	c := Default()
	c.BorderColor = "purple"
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for an unparseable --bordercolor value")
	}
}

func TestValidateAcceptsKnownBorderColors(t *testing.T) {
	for _, v := range []string{"", "black", "white", "#112233"} {
		c := Default()
		c.BorderColor = v
		if err := c.Validate(); err != nil {
			t.Errorf("expected --bordercolor %q to validate, got %v", v, err)
		}
	}
}

func TestTargetSizeDefaultsToWebtoonBudget(t *testing.T) {
	c := Default()
	c.Webtoon = true
	c.WebtoonHeight = 1920
	c.TargetSizeMiB = 0
	if got := c.TargetSize(); got != DefaultTargetSizeWebtoon {
		t.Errorf("expected webtoon target size %d, got %d", DefaultTargetSizeWebtoon, got)
	}
}

func TestEffectiveProfileAppliesCustomResolution(t *testing.T) {
	c := Default()
	c.ProfileID = profile.CustomProfileID
	c.CustomWidth = 800
	c.CustomHeight = 1200
	p, err := c.EffectiveProfile()
	if err != nil {
		t.Fatal(err)
	}
	if p.Width != 800 || p.Height != 1200 {
		t.Errorf("unexpected custom resolution: %dx%d", p.Width, p.Height)
	}
}
