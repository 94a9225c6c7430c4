package assemble

import (
	"bytes"
	"fmt"
	"html"
)

// BuildNav renders OEBPS/nav.xhtml (the EPUB3 navigation document,
// required by the spec and used by Kobo for chapter navigation),
// grounded on buildNAV in original_source.
func BuildNav(b Book) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n<!DOCTYPE html>\n")
	buf.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n")
	buf.WriteString("<head>\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(b.Title))
	buf.WriteString(`<meta charset="utf-8"/>` + "\n</head>\n<body>\n")
	buf.WriteString(`<nav xmlns:epub="http://www.idpf.org/2007/ops" epub:type="toc" id="toc">` + "\n<ol>\n")

	pageFolder := make(map[string]string, len(b.Pages))
	for _, p := range b.Pages {
		pageFolder[p.ID] = p.Folder
	}
	for _, ch := range b.Chapters {
		fmt.Fprintf(&buf, "<li><a href=\"%s\">%s</a></li>\n", pageHref(pageFolder[ch.FirstPage], ch.FirstPage), html.EscapeString(ch.Title))
	}
	buf.WriteString("</ol>\n</nav>\n")

	buf.WriteString(`<nav epub:type="page-list">` + "\n<ol>\n")
	for _, ch := range b.Chapters {
		fmt.Fprintf(&buf, "<li><a href=\"%s\">%s</a></li>\n", pageHref(pageFolder[ch.FirstPage], ch.FirstPage), html.EscapeString(ch.Title))
	}
	buf.WriteString("</ol>\n</nav>\n</body>\n</html>\n")
	return buf.Bytes()
}
