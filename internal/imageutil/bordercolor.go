package imageutil

import (
	"image"
	"image/color"
)

// BorderColor samples the four corner pixels of img and returns the
// majority-vote near-black/near-white background color, per the §9
// design note that resolves the source tool's ambiguous corner-disagreement
// behavior: round each corner to the nearest of {near-black, near-white},
// take a majority vote, and break ties to white.
func BorderColor(img image.Image) (c color.Gray, isBlack bool) {
	b := img.Bounds()
	corners := []image.Point{
		{b.Min.X, b.Min.Y},
		{b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1},
		{b.Max.X - 1, b.Max.Y - 1},
	}

	blackVotes := 0
	for _, pt := range corners {
		gray := color.GrayModel.Convert(img.At(pt.X, pt.Y)).(color.Gray)
		if gray.Y <= grayDarknessLimit {
			blackVotes++
		}
	}

	if blackVotes > len(corners)-blackVotes {
		return color.Gray{Y: 0x00}, true
	}
	// ties (2-2) and white majorities both resolve to white.
	return color.Gray{Y: 0xFF}, false
}

// ParseNamedOrHexColor resolves the --bordercolor flag's value (§6): an
// explicit option always wins over auto-detection. Only a small set of
// named colors plus #rrggbb hex is supported, matching the CLI's scope.
func ParseNamedOrHexColor(value string) (color.Gray, bool) {
	switch value {
	case "black":
		return color.Gray{Y: 0x00}, true
	case "white":
		return color.Gray{Y: 0xFF}, true
	case "":
		return color.Gray{}, false
	}
	if len(value) == 7 && value[0] == '#' {
		var r, g, b int
		n, err := fsscanHex(value[1:], &r, &g, &b)
		if err == nil && n == 3 {
			y := (r*299 + g*587 + b*114) / 1000
			return color.Gray{Y: uint8(y)}, true
		}
	}
	return color.Gray{}, false
}

func fsscanHex(s string, r, g, b *int) (int, error) {
	var err error
	*r, err = hexByte(s[0:2])
	if err != nil {
		return 0, err
	}
	*g, err = hexByte(s[2:4])
	if err != nil {
		return 1, err
	}
	*b, err = hexByte(s[4:6])
	if err != nil {
		return 2, err
	}
	return 3, nil
}

func hexByte(s string) (int, error) {
	var v int
	for _, c := range s {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		default:
			return 0, errInvalidHex
		}
	}
	return v, nil
}

var errInvalidHex = colorErr("invalid hex color")

type colorErr string

func (e colorErr) Error() string { return string(e) }
