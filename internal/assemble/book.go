// Package assemble builds the fixed-layout EPUB/KEPUB/CBZ package for one
// volume (§4.7): the container/OPF/NCX/nav skeleton, per-page XHTML with
// optional Kindle Panel View tap overlays, spine spread alternation, and
// final ZIP packaging. Grounded primarily on
// shishobooks-shisho/pkg/kepub/cbz.go, which builds the identical
// artifact by hand over archive/zip rather than through a generic EPUB
// library, plus the exact OPF/NCX/panel-view algorithms read from
// original_source/kindlecomicconverter/comic2ebook.py.
package assemble

import "github.com/comictools/c2e/internal/profile"

// Page is one image in a volume, already encoded by internal/transform.
type Page struct {
	// ID is the unique, path-safe identifier used for manifest/spine ids
	// and file basenames (sanitized filename, no extension).
	ID string
	// Folder is the path segment (relative to OEBPS/Images or
	// OEBPS/Text) mirroring the source tree, "" for a flat tree.
	Folder string
	Ext    string // ".jpg" or ".png"
	Data   []byte
	Width  int
	Height int
	// Suffix is the pageparser.Variant suffix ("", "-kcc-a", "-kcc-b",
	// "-kcc-c"), used for spine pin rules.
	Suffix string
	// Rotated marks a page produced by the double-page rotate policy,
	// selecting the "rotated" column of the panel-view tap-order table.
	Rotated bool
	// BlackBackground marks a page whose border color was detected as
	// black, used to pick the page background color.
	BlackBackground bool
	IsCover         bool
}

// Chapter labels the first page of a source subdirectory, for NCX/nav
// entries. Grounded on buildNCX/buildNAV's one-entry-per-subdirectory
// behavior in original_source.
type Chapter struct {
	Title      string
	FirstPage  string // Page.ID of the chapter's first page
}

// Book is everything needed to assemble one volume's package.
type Book struct {
	Title        string
	UUID         string
	Contributor  string // e.g. "c2e-1.0"
	Creators     []string
	Summary      string
	MangaStyle   bool // right-to-left reading/progression direction
	PanelView    bool
	Autoscale    bool // --two-panel: size panel-view regions to fill the device width
	HQ           bool
	Profile      profile.Profile
	OutputFormat profile.Format
	Pages        []Page
	Chapters     []Chapter
}

// IsKindle reports whether this book targets a Kindle-family device,
// selecting the Kindle-specific OPF metadata block.
func (b Book) IsKindle() bool { return b.Profile.Features.KindleFamily }
