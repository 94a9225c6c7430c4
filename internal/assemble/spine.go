package assemble

// Spread is the rendition:page-spread-* value assigned to a spine
// itemref.
type Spread string

const (
	SpreadLeft  Spread = "left"
	SpreadRight Spread = "right"
)

// SpineItem pairs a page with its resolved spread side.
type SpineItem struct {
	Page   Page
	Spread Spread
}

// ComputeSpine assigns page-spread-left/right to every page in order,
// alternating from the side matching reading direction, except that
// "-kcc-b" pages are pinned to the inside of the spread (left in LTR,
// right in RTL) and "-kcc-c" pages to the opposite side; a pin does not
// disturb the alternation for the page that follows it. Grounded
// directly on buildOPF's reflist/pageside loop in
// original_source/kindlecomicconverter/comic2ebook.py.
func ComputeSpine(pages []Page, mangaStyle bool) []SpineItem {
	inside, outside := SpreadLeft, SpreadRight
	if mangaStyle {
		inside, outside = SpreadRight, SpreadLeft
	}

	side := SpreadLeft
	if mangaStyle {
		side = SpreadRight
	}

	items := make([]SpineItem, 0, len(pages))
	for _, p := range pages {
		switch p.Suffix {
		case "-kcc-b":
			items = append(items, SpineItem{Page: p, Spread: inside})
		case "-kcc-c":
			items = append(items, SpineItem{Page: p, Spread: outside})
		default:
			items = append(items, SpineItem{Page: p, Spread: side})
			if side == SpreadRight {
				side = SpreadLeft
			} else {
				side = SpreadRight
			}
		}
	}
	return items
}
