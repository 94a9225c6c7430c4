package assemble

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/comictools/c2e/internal/imageutil"
)

// BuildPageXHTML renders one page's fixed-layout XHTML document: a
// centered, viewport-matched image, and, for Kindle targets with panel
// view enabled, the invisible tap-region overlay (§4.7). The page lives
// at OEBPS/Text/<Folder>/<ID>.xhtml, so the stylesheet link backs out of
// Folder only, while image references back out one level further to
// reach OEBPS/Images.
func BuildPageXHTML(b Book, p Page) []byte {
	var buf bytes.Buffer
	cssRef := backrefPrefix(folderDepth(p.Folder))
	imgRef := backrefPrefix(folderDepth(p.Folder) + 1)

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<!DOCTYPE html>\n")
	buf.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n<head>\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(p.ID))
	fmt.Fprintf(&buf, "<link href=\"%sstyle.css\" type=\"text/css\" rel=\"stylesheet\"/>\n", cssRef)
	fmt.Fprintf(&buf, "<meta name=\"viewport\" content=\"width=%d, height=%d\"/>\n", p.Width, p.Height)
	buf.WriteString("</head>\n")

	bodyStyle := ""
	if p.BlackBackground {
		bodyStyle = "background-color:#000000;"
	}
	fmt.Fprintf(&buf, "<body style=\"%s\">\n", bodyStyle)

	topMargin := imageutil.TopMarginPercent(b.Profile.Height, p.Height)
	fmt.Fprintf(&buf, "<div style=\"text-align:center;top:%s%%;\">\n", strconv.FormatFloat(topMargin, 'f', 1, 64))
	fmt.Fprintf(&buf, "<img width=\"%d\" height=\"%d\" src=\"%sImages/%s\"/>\n</div>\n", p.Width, p.Height, imgRef, imageRelHref(p))

	if b.IsKindle() && b.PanelView {
		writePanelView(&buf, b, p, imgRef, bodyStyle)
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

func imageRelHref(p Page) string {
	if p.Folder == "" {
		return p.ID + p.Ext
	}
	return p.Folder + "/" + p.ID + p.Ext
}

func backrefPrefix(depth int) string {
	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += "../"
	}
	return prefix
}

// folderDepth counts the path segments of a Page.Folder ("" is flat).
func folderDepth(folder string) int {
	if folder == "" {
		return 0
	}
	return strings.Count(folder, "/") + 1
}

func writePanelView(buf *bytes.Buffer, b Book, p Page, imgRef, bodyStyle string) {
	magW, magH := MagnifiedSize(p.Width, p.Height, b.Profile.Width, b.Autoscale, b.HQ)
	boxes, order := Boxes(magW, magH, b.Profile.Width, b.Profile.Height, b.MangaStyle, p.Rotated)
	if len(boxes) == 0 {
		return
	}

	x := centeringOffset(b.Profile.Width, magW)
	y := centeringOffset(b.Profile.Height, magH)

	buf.WriteString(`<div id="PV">` + "\n")
	for i, box := range boxes {
		fmt.Fprintf(buf, "<div id=\"%s\">\n", box)
		fmt.Fprintf(buf, "<a style=\"display:inline-block;width:100%%;height:100%%;\" class=\"app-amzn-magnify\" data-app-amzn-magnify='{\"targetId\":\"%s-P\", \"ordinal\":%d}'></a>\n", box, order[i])
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")

	for _, box := range boxes {
		fmt.Fprintf(buf, "<div class=\"PV-P\" id=\"%s-P\" style=\"%s\">\n", box, bodyStyle)
		fmt.Fprintf(buf, "<img style=\"%s\" src=\"%sImages/%s\" width=\"%d\" height=\"%d\"/>\n", boxStyle(box, x, y), imgRef, imageRelHref(p), magW, magH)
		buf.WriteString("</div>\n")
	}
}
