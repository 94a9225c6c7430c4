package assemble

import "strconv"

// Panel view (§4.7) overlays invisible tap regions on a Kindle fixed-
// layout page so that tapping a quadrant or half magnifies it. Which
// regions exist depends on whether horizontal and/or vertical
// magnification clears the device resolution by more than 1%; the tap
// order within those regions depends on reading direction and whether
// the page is a rotated double-page spread. Both the region-selection
// and tap-order tables are reproduced, in meaning, from
// getPanelViewResolution/getPanelViewSize and the boxes/order tables in
// original_source/kindlecomicconverter/comic2ebook.py.

// Box is one tap-overlay region.
type Box string

const (
	BoxTopLeft     Box = "PV-TL"
	BoxTopRight    Box = "PV-TR"
	BottomLeft     Box = "PV-BL"
	BottomRight    Box = "PV-BR"
	BoxTop         Box = "PV-T"
	BoxBottom      Box = "PV-B"
	BoxLeft        Box = "PV-L"
	BoxRight       Box = "PV-R"
)

// MagnifiedSize computes the size the page would be magnified to:
// device width with image's aspect ratio preserved when autoscale is
// set (getPanelViewResolution), otherwise 1.5x the image size, or the
// image's own size when HQ is already active (HQ pages are pre-doubled).
func MagnifiedSize(imgW, imgH, deviceW int, autoscale, hq bool) (w, h int) {
	if autoscale {
		scale := float64(deviceW) / float64(imgW)
		return deviceW, int(scale * float64(imgH))
	}
	if hq {
		return imgW, imgH
	}
	return int(float64(imgW) * 1.5), int(float64(imgH) * 1.5)
}

// viable reports whether a magnified dimension clears the device
// dimension by more than 1%.
func viable(magnified, device int) bool {
	return float64(magnified-device) > float64(device)*0.01
}

// Boxes returns the ordered list of tap regions and their 1-based tap
// order for a page, given whether horizontal/vertical magnification is
// viable, reading direction, and whether the page is a rotated spread.
// Returns (nil, nil) when neither axis clears the 1% threshold (no
// panel view overlay is emitted for that page).
func Boxes(magW, magH, deviceW, deviceH int, mangaStyle, rotated bool) ([]Box, []int) {
	horiz := viable(magW, deviceW)
	vert := viable(magH, deviceH)

	switch {
	case horiz && vert:
		boxes := []Box{BoxTopLeft, BoxTopRight, BottomLeft, BottomRight}
		return boxes, quadrantOrder(mangaStyle, rotated)
	case !horiz && vert:
		return []Box{BoxTop, BoxBottom}, horizontalHalvesOrder(mangaStyle, rotated)
	case horiz && !vert:
		return []Box{BoxLeft, BoxRight}, verticalHalvesOrder(mangaStyle, rotated)
	default:
		return nil, nil
	}
}

func quadrantOrder(mangaStyle, rotated bool) []int {
	switch {
	case rotated && mangaStyle:
		return []int{1, 3, 2, 4}
	case rotated && !mangaStyle:
		return []int{2, 4, 1, 3}
	case !rotated && mangaStyle:
		return []int{2, 1, 4, 3}
	default:
		return []int{1, 2, 3, 4}
	}
}

// verticalHalvesOrder is the PV-L/PV-R (left/right) tap order: only
// horizontal magnification is viable.
func verticalHalvesOrder(mangaStyle, rotated bool) []int {
	if rotated {
		return []int{1, 2}
	}
	if mangaStyle {
		return []int{2, 1}
	}
	return []int{1, 2}
}

// horizontalHalvesOrder is the PV-T/PV-B (top/bottom) tap order: only
// vertical magnification is viable.
func horizontalHalvesOrder(mangaStyle, rotated bool) []int {
	if rotated {
		if mangaStyle {
			return []int{1, 2}
		}
		return []int{2, 1}
	}
	return []int{1, 2}
}

// boxStyle returns the inline CSS positioning original_source applies to
// each box, parameterized by the centering offsets x/y (percent) used by
// the two-region layouts.
func boxStyle(b Box, xPercent, yPercent int) string {
	switch b {
	case BoxTopLeft:
		return "position:absolute;left:0;top:0;"
	case BoxTopRight:
		return "position:absolute;right:0;top:0;"
	case BottomLeft:
		return "position:absolute;left:0;bottom:0;"
	case BottomRight:
		return "position:absolute;right:0;bottom:0;"
	case BoxTop:
		return fmtPercent("position:absolute;top:0;left:", xPercent)
	case BoxBottom:
		return fmtPercent("position:absolute;bottom:0;left:", xPercent)
	case BoxLeft:
		return fmtPercent("position:absolute;left:0;top:", yPercent)
	case BoxRight:
		return fmtPercent("position:absolute;right:0;top:", yPercent)
	}
	return ""
}

func fmtPercent(prefix string, pct int) string {
	return prefix + strconv.Itoa(pct) + "%;"
}

// centeringOffset computes the x/y percentage original_source's
// getPanelViewSize uses to center a magnified region box within the
// device viewport.
func centeringOffset(device, size int) int {
	return int(float64(device/2-size/2) / float64(device) * 100)
}
