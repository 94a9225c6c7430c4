package sidecar

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Bookmark is a (pre-split page index, chapter name) pair as described in
// §3/§6. Indices refer to pages before the page parser inserts any
// double-page variants.
type Bookmark struct {
	PageIndex int    `xml:"Page,attr"`
	Name      string `xml:",chardata"`
}

// bookmarkEntry is the per-entry shape of the <Bookmarks><Bookmark>
// nesting KCC's ComicInfo.xml extension uses for bookmarks.
type bookmarkEntry struct {
	Page  int    `xml:"Page,attr"`
	Name  string `xml:"Name,attr"`
}

// ComicInfo is the input metadata sidecar, trimmed to the fields this
// spec names (§6). The XML shape mirrors the ComicInfo.xml convention
// used across the wider comic-archive ecosystem.
type ComicInfo struct {
	XMLName    xml.Name        `xml:"ComicInfo"`
	Series     string          `xml:"Series"`
	Volume     int             `xml:"Volume"`
	Number     string          `xml:"Number"`
	Writer     string          `xml:"Writer"`
	Penciller  string          `xml:"Penciller"`
	Inker      string          `xml:"Inker"`
	Colorist   string          `xml:"Colorist"`
	Summary    string          `xml:"Summary"`
	Bookmarks  []bookmarkEntry `xml:"Bookmarks>Bookmark"`
}

// Writers, Pencillers, Inkers, Colorists return the comma-or-semicolon
// separated credit fields as trimmed, de-duplicated, sorted slices (see
// splitCreatorList) for use in dc:creator — ComicInfo.xml itself stores
// them as flat strings.
func (c ComicInfo) splitCredits(field string) []string {
	return splitCreatorList(field)
}

func (c ComicInfo) Writers() []string    { return c.splitCredits(c.Writer) }
func (c ComicInfo) Pencillers() []string { return c.splitCredits(c.Penciller) }
func (c ComicInfo) Inkers() []string     { return c.splitCredits(c.Inker) }
func (c ComicInfo) Colorists() []string  { return c.splitCredits(c.Colorist) }

// BookmarkList returns the bookmarks in ascending page-index order, as
// required by the re-indexing algorithm in §9.
func (c ComicInfo) BookmarkList() []Bookmark {
	out := make([]Bookmark, 0, len(c.Bookmarks))
	for _, b := range c.Bookmarks {
		out = append(out, Bookmark{PageIndex: b.Page, Name: b.Name})
	}
	return out
}

// ComicInfoFileName is the expected sidecar filename at the top of the
// image tree, per §6.
const ComicInfoFileName = "ComicInfo.xml"

// ReadComicInfo loads and parses a ComicInfo.xml sidecar from dir, if
// present. Returns (nil, nil) when the sidecar does not exist — its
// presence is optional.
func ReadComicInfo(dir string) (*ComicInfo, error) {
	path := filepath.Join(dir, ComicInfoFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var ci ComicInfo
	if err := xml.Unmarshal(data, &ci); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &ci, nil
}
