package assemble

import "github.com/pkg/errors"

// BuildCBZArchive packages b's pages as a plain comic-archive ZIP:
// images only, named to preserve reading order, with an optional
// ComicInfo.xml sidecar copied through verbatim when the caller asks for
// it (--copycomicinfo, CBZ-only per config.Validate). There is no EPUB
// skeleton at all for this format; a CBZ reader orders pages by
// filename, so the ID/Folder naming that already keeps natural order for
// the XHTML spine is reused unchanged.
func BuildCBZArchive(b Book, comicInfo []byte) ([]byte, error) {
	if len(b.Pages) == 0 {
		return nil, errors.New("assemble: book has no pages")
	}

	entries := make([]entry, 0, len(b.Pages)+1)
	for _, p := range b.Pages {
		name := p.ID + p.Ext
		if p.Folder != "" {
			name = p.Folder + "/" + name
		}
		entries = append(entries, entry{name: name, data: p.Data})
	}
	if len(comicInfo) > 0 {
		entries = append(entries, entry{name: ComicInfoFileName, data: comicInfo})
	}

	return writeZip(entries)
}

// ComicInfoFileName is the sidecar name a CBZ reader expects at its
// root, matching the convention internal/sidecar reads on input.
const ComicInfoFileName = "ComicInfo.xml"
