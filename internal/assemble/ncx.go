package assemble

import (
	"bytes"
	"fmt"
	"html"
)

// BuildNCX renders OEBPS/toc.ncx, one navPoint per Chapter, grounded on
// buildNCX in original_source/kindlecomicconverter/comic2ebook.py.
func BuildNCX(b Book) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<ncx version="2005-1" xml:lang="en-US" xmlns="http://www.daisy.org/z3986/2005/ncx/">` + "\n")
	buf.WriteString("<head>\n")
	fmt.Fprintf(&buf, "<meta name=\"dtb:uid\" content=\"urn:uuid:%s\"/>\n", b.UUID)
	buf.WriteString(`<meta name="dtb:depth" content="1"/>` + "\n")
	fmt.Fprintf(&buf, "<meta name=\"dtb:totalPageCount\" content=\"%d\"/>\n", len(b.Pages))
	fmt.Fprintf(&buf, "<meta name=\"dtb:maxPageNumber\" content=\"%d\"/>\n", len(b.Pages))
	buf.WriteString("</head>\n")
	fmt.Fprintf(&buf, "<docTitle><text>%s</text></docTitle>\n", html.EscapeString(b.Title))
	buf.WriteString("<navMap>\n")

	pageFolder := make(map[string]string, len(b.Pages))
	for _, p := range b.Pages {
		pageFolder[p.ID] = p.Folder
	}
	for i, ch := range b.Chapters {
		fmt.Fprintf(&buf, "<navPoint id=\"navpoint%d\"><navLabel><text>%s</text></navLabel><content src=\"%s\"/></navPoint>\n",
			i+1, html.EscapeString(ch.Title), pageHref(pageFolder[ch.FirstPage], ch.FirstPage))
	}
	buf.WriteString("</navMap>\n</ncx>\n")
	return buf.Bytes()
}
