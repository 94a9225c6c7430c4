package mobi

import (
	"bytes"
	"hash/fnv"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/comictools/c2e/internal/assemble"
)

func bookToTitle(b assemble.Book) string {
	if b.Title == "" {
		return "Untitled"
	}
	return b.Title
}

func bookToLanguage(b assemble.Book) language.Tag {
	if b.MangaStyle {
		return language.Japanese
	}
	return language.English
}

// bookToUniqueID derives a stable 32-bit MOBI identifier from the
// book's UUID, matching mangaToUniqueID's role in kojirou (a single
// source string hashed to a uint32, not a random value, so the same
// book regenerates the same ASIN-adjacent ID).
func bookToUniqueID(b assemble.Book) uint32 {
	h := fnv.New32a()
	h.Write([]byte(b.UUID))
	id := h.Sum32()
	if id == 0 {
		return 1
	}
	return id
}

func bookToCover(b assemble.Book) (image.Image, error) {
	for _, p := range b.Pages {
		if p.IsCover {
			return decodeImage(p.Data)
		}
	}
	if len(b.Pages) == 0 {
		return nil, errors.New("mobi: book has no pages to derive a cover from")
	}
	return decodeImage(b.Pages[0].Data)
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding page image")
	}
	return img, nil
}
