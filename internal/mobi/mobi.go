// Package mobi realizes a MOBI/AZW3 e-book from an assembled Book
// (§4.8), grounded on the confirmed contract of kojirou's MOBI
// generator (`cmd/formats/kindle/mobi_test.go`'s createTestManga/
// GenerateMOBI fixtures: mobi.Book{Title, Images, Chapters,
// FixedLayout, RightToLeft, CoverImage}) — the generator's own
// implementation file was not present in the retrieved pack, so the
// HTML-to-mobi.Node bridge below is reconstructed by analogy to the
// test's pageTemplate/templateToString pair rather than copied
// verbatim; every other field name is read directly off that test.
package mobi

import (
	"bytes"
	"image"
	"strings"
	"time"

	realmobi "github.com/leotaku/mobi"
	"github.com/pkg/errors"

	"github.com/comictools/c2e/internal/assemble"
)

// Build converts b into a realmobi.Book ready for Realize/Write. Every
// page becomes one embedded JPEG/PNG resource plus one leaf chapter
// whose content is a single full-page image reference; b.Chapters
// become the top-level table of contents, each pointing at the leaf
// chapter for its first page.
func Build(b assemble.Book) (*realmobi.Book, error) {
	if len(b.Pages) == 0 {
		return nil, errors.New("mobi: book has no pages")
	}

	images := make([]image.Image, 0, len(b.Pages))
	pageIndex := make(map[string]int, len(b.Pages))
	leaves := make([]realmobi.Chapter, 0, len(b.Pages))

	for i, p := range b.Pages {
		img, err := decodeImage(p.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "page %s", p.ID)
		}
		images = append(images, img)
		pageIndex[p.ID] = i

		node, err := pageNode(i + 1)
		if err != nil {
			return nil, errors.Wrapf(err, "page %s", p.ID)
		}
		leaves = append(leaves, realmobi.Chapter{
			Title:   p.ID,
			Content: node,
		})
	}

	cover, err := bookToCover(b)
	if err != nil {
		return nil, err
	}

	chapters := make([]realmobi.Chapter, 0, len(b.Chapters))
	for _, ch := range b.Chapters {
		idx, ok := pageIndex[ch.FirstPage]
		if !ok {
			continue
		}
		chapters = append(chapters, realmobi.Chapter{
			Title:    ch.Title,
			Chapters: []realmobi.Chapter{leaves[idx]},
		})
	}
	if len(chapters) == 0 {
		chapters = leaves
	}

	book := &realmobi.Book{
		Title:       bookToTitle(b),
		Authors:     bookAuthors(b),
		CreatedDate: time.Now().UTC(),
		UniqueID:    bookToUniqueID(b),
		Language:    bookToLanguage(b),
		CoverImage:  cover,
		Images:      images,
		Chapters:    chapters,
		FixedLayout: true,
		RightToLeft: b.MangaStyle,
	}
	return book, nil
}

func bookAuthors(b assemble.Book) []string {
	if len(b.Creators) == 0 {
		return []string{"Unknown"}
	}
	return b.Creators
}

// Bytes realizes book into its final .azw3 byte stream.
func Bytes(book *realmobi.Book) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := book.Realize().Write(buf); err != nil {
		return nil, errors.Wrap(err, "realizing mobi book")
	}
	return buf.Bytes(), nil
}

func pageNode(embedIndex int) (realmobi.Node, error) {
	html := templateToString(pageTemplate, embedIndex)
	node, err := realmobi.NewNodeFromHTMLReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "parsing page content")
	}
	return node, nil
}

// Run builds and realizes b in one step, returning the final .azw3 bytes.
func Run(b assemble.Book) ([]byte, error) {
	book, err := Build(b)
	if err != nil {
		return nil, err
	}
	return Bytes(book)
}
