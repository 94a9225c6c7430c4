package assemble

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// koboHTMLProcessor rewrites a page's XHTML for Kobo's KEPUB reader,
// adapted from e88z4-kojirou's KoboHTMLProcessor: text nodes inside
// <p>/<div> get wrapped in numbered koboSpan spans so Kobo's
// paragraph-at-a-time reading view has something to highlight, <img>
// elements get kobo-image/epub:type markers, and the document root
// gets the Kobo namespace attribute.
type koboHTMLProcessor struct {
	doc           *html.Node
	spanIDCounter int
}

func newKoboHTMLProcessor(content []byte) (*koboHTMLProcessor, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "parsing page HTML")
	}
	return &koboHTMLProcessor{doc: doc, spanIDCounter: 1}, nil
}

func (p *koboHTMLProcessor) generateSpanID() string {
	id := fmt.Sprintf("%d", p.spanIDCounter)
	p.spanIDCounter++
	return id
}

func (p *koboHTMLProcessor) processTextNodes() {
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "div") {
			p.wrapTextChildren(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(p.doc)
}

func (p *koboHTMLProcessor) wrapTextChildren(node *html.Node) {
	var textNodes []*html.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			textNodes = append(textNodes, c)
		}
	}
	for _, textNode := range textNodes {
		span := &html.Node{
			Type: html.ElementNode,
			Data: "span",
			Attr: []html.Attribute{
				{Key: "class", Val: "koboSpan"},
				{Key: "id", Val: "kobo-span-" + p.generateSpanID()},
			},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: textNode.Data})
		node.InsertBefore(span, textNode)
		node.RemoveChild(textNode)
	}
}

func (p *koboHTMLProcessor) processImageElements() {
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			addOrAppendClass(n, "kobo-image")
			if !hasAttr(n, "epub:type", "kobo") {
				n.Attr = append(n.Attr, html.Attribute{Key: "epub:type", Val: "kobo"})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(p.doc)
}

func addOrAppendClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key == "class" {
			if !strings.Contains(attr.Val, class) {
				n.Attr[i].Val = attr.Val + " " + class
			}
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

func hasAttr(n *html.Node, key, val string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key && attr.Val == val {
			return true
		}
	}
	return false
}

func (p *koboHTMLProcessor) addKoboNamespace() {
	var htmlNode *html.Node
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "html" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	htmlNode = find(p.doc)
	if htmlNode == nil {
		return
	}
	for i, attr := range htmlNode.Attr {
		if attr.Key == "xmlns:epub" {
			htmlNode.Attr[i].Val = "http://www.kobo.com/ns/1.0"
			return
		}
	}
	htmlNode.Attr = append(htmlNode.Attr, html.Attribute{Key: "xmlns:epub", Val: "http://www.kobo.com/ns/1.0"})
}

func (p *koboHTMLProcessor) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, p.doc); err != nil {
		return nil, errors.Wrap(err, "rendering page HTML")
	}
	return buf.Bytes(), nil
}

func transformKepubPage(content []byte) ([]byte, error) {
	p, err := newKoboHTMLProcessor(content)
	if err != nil {
		return nil, err
	}
	p.addKoboNamespace()
	p.processTextNodes()
	p.processImageElements()
	return p.render()
}

// BuildKepubArchive produces a .kepub.epub archive: the same OCF
// structure as BuildArchive, but every Text/*.xhtml entry is rewritten
// through transformKepubPage first.
func BuildKepubArchive(b Book) ([]byte, error) {
	epub, err := BuildArchive(b)
	if err != nil {
		return nil, err
	}
	return ToKepub(epub)
}

// ToKepub rewrites an already-built EPUB archive's XHTML entries for
// Kobo, preserving the mimetype entry's stored (uncompressed) method.
func ToKepub(epubBytes []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(epubBytes), int64(len(epubBytes)))
	if err != nil {
		return nil, errors.Wrap(err, "opening epub archive")
	}

	var entries []entry
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", f.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", f.Name)
		}

		if strings.HasPrefix(f.Name, "OEBPS/Text/") && strings.HasSuffix(f.Name, ".xhtml") {
			data, err = transformKepubPage(data)
			if err != nil {
				return nil, errors.Wrapf(err, "transforming %s", f.Name)
			}
		}

		entries = append(entries, entry{
			name:  f.Name,
			data:  data,
			store: f.Method == zip.Store,
		})
	}

	return writeZip(entries)
}
