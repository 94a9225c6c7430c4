package assemble

import (
	"bytes"
	"fmt"
	"html"
	"time"
)

func mediaType(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

func pageHref(folder, id string) string {
	if folder == "" {
		return "Text/" + id + ".xhtml"
	}
	return "Text/" + folder + "/" + id + ".xhtml"
}

func imageHref(folder, id, ext string) string {
	if folder == "" {
		return "Images/" + id + ext
	}
	return "Images/" + folder + "/" + id + ext
}

// BuildOPF renders OEBPS/content.opf for book, in the shape described by
// §4.7: a Kindle-specific fixed-layout metadata block (mirroring
// buildOPF's "iskindle" branch in original_source) or, for every other
// target, the EPUB 3 rendition properties.
func BuildOPF(b Book) []byte {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<package version="3.0" unique-identifier="BookID" xmlns="http://www.idpf.org/2007/opf">` + "\n")
	buf.WriteString(`<metadata xmlns:opf="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
	fmt.Fprintf(&buf, "<dc:title>%s</dc:title>\n", html.EscapeString(b.Title))
	buf.WriteString(`<dc:language>en-US</dc:language>` + "\n")
	fmt.Fprintf(&buf, "<dc:identifier id=\"BookID\">urn:uuid:%s</dc:identifier>\n", b.UUID)
	fmt.Fprintf(&buf, "<dc:contributor id=\"contributor\">%s</dc:contributor>\n", html.EscapeString(b.Contributor))
	if b.Summary != "" {
		fmt.Fprintf(&buf, "<dc:description>%s</dc:description>\n", html.EscapeString(b.Summary))
	}
	creators := b.Creators
	if len(creators) == 0 {
		creators = []string{"c2e"}
	}
	for _, c := range creators {
		fmt.Fprintf(&buf, "<dc:creator>%s</dc:creator>\n", html.EscapeString(c))
	}
	fmt.Fprintf(&buf, "<meta property=\"dcterms:modified\">%s</meta>\n", time.Now().UTC().Format("2006-01-02T15:04:05Z"))
	buf.WriteString(`<meta name="cover" content="cover"/>` + "\n")

	if b.IsKindle() {
		writingMode := "horizontal-lr"
		if b.MangaStyle {
			writingMode = "horizontal-rl"
		}
		fmt.Fprintf(&buf, "<meta name=\"fixed-layout\" content=\"true\"/>\n")
		fmt.Fprintf(&buf, "<meta name=\"original-resolution\" content=\"%dx%d\"/>\n", b.Profile.Width, b.Profile.Height)
		buf.WriteString(`<meta name="book-type" content="comic"/>` + "\n")
		fmt.Fprintf(&buf, "<meta name=\"primary-writing-mode\" content=\"%s\"/>\n", writingMode)
		buf.WriteString(`<meta name="zero-gutter" content="true"/>` + "\n")
		buf.WriteString(`<meta name="zero-margin" content="true"/>` + "\n")
		buf.WriteString(`<meta name="ke-border-color" content="#FFFFFF"/>` + "\n")
		buf.WriteString(`<meta name="ke-border-width" content="0"/>` + "\n")
		if b.OutputFormat.String() == "KFX" {
			buf.WriteString(`<meta name="orientation-lock" content="none"/>` + "\n")
			buf.WriteString(`<meta name="region-mag" content="false"/>` + "\n")
		} else {
			buf.WriteString(`<meta name="orientation-lock" content="portrait"/>` + "\n")
			buf.WriteString(`<meta name="region-mag" content="true"/>` + "\n")
		}
	} else {
		buf.WriteString(`<meta property="rendition:orientation">portrait</meta>` + "\n")
		buf.WriteString(`<meta property="rendition:spread">portrait</meta>` + "\n")
		buf.WriteString(`<meta property="rendition:layout">pre-paginated</meta>` + "\n")
	}
	buf.WriteString("</metadata>\n")

	buf.WriteString("<manifest>\n")
	buf.WriteString(`<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>` + "\n")
	buf.WriteString(`<item id="nav" href="nav.xhtml" properties="nav" media-type="application/xhtml+xml"/>` + "\n")
	buf.WriteString(`<item id="css" href="Text/style.css" media-type="text/css"/>` + "\n")
	for _, p := range b.Pages {
		fmt.Fprintf(&buf, "<item id=\"page_%s\" href=\"%s\" media-type=\"application/xhtml+xml\"/>\n", p.ID, pageHref(p.Folder, p.ID))
		props := ""
		if p.IsCover {
			props = ` properties="cover-image"`
		}
		fmt.Fprintf(&buf, "<item id=\"img_%s\" href=\"%s\" media-type=\"%s\"%s/>\n", p.ID, imageHref(p.Folder, p.ID, p.Ext), mediaType(p.Ext), props)
	}
	buf.WriteString("</manifest>\n")

	direction := "ltr"
	if b.MangaStyle {
		direction = "rtl"
	}
	fmt.Fprintf(&buf, "<spine page-progression-direction=\"%s\" toc=\"ncx\">\n", direction)
	if b.IsKindle() {
		for _, item := range ComputeSpine(b.Pages, b.MangaStyle) {
			fmt.Fprintf(&buf, "<itemref idref=\"page_%s\" linear=\"yes\" properties=\"rendition:page-spread-%s\"/>\n", item.Page.ID, item.Spread)
		}
	} else {
		for _, p := range b.Pages {
			fmt.Fprintf(&buf, "<itemref idref=\"page_%s\"/>\n", p.ID)
		}
	}
	buf.WriteString("</spine>\n</package>\n")

	return buf.Bytes()
}
