package assemble

import (
	"archive/zip"
	"bytes"

	"github.com/pkg/errors"
)

// entry is one file destined for the output archive.
type entry struct {
	name  string
	data  []byte
	store bool
}

// BuildArchive assembles the full set of OCF/EPUB parts for b into an
// in-memory ZIP, mimetype stored first and uncompressed per the OCF
// spec, everything else deflated. Grounded on shishobooks-shisho's
// cbz.go writeZipFile/CreateHeader pattern (stored-vs-deflated method
// selection via zip.FileHeader.Method).
func BuildArchive(b Book) ([]byte, error) {
	entries := []entry{
		{name: "mimetype", data: []byte(MimeType), store: true},
		{name: "META-INF/container.xml", data: ContainerXML()},
		{name: "OEBPS/content.opf", data: BuildOPF(b)},
		{name: "OEBPS/toc.ncx", data: BuildNCX(b)},
		{name: "OEBPS/nav.xhtml", data: BuildNav(b)},
		{name: "OEBPS/Text/style.css", data: BaseCSS(b.PanelView && b.IsKindle())},
	}

	for _, p := range b.Pages {
		entries = append(entries, entry{name: "OEBPS/" + pageHref(p.Folder, p.ID), data: BuildPageXHTML(b, p)})
		entries = append(entries, entry{name: "OEBPS/" + imageHref(p.Folder, p.ID, p.Ext), data: p.Data})
	}

	return writeZip(entries)
}

func writeZip(entries []entry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, e := range entries {
		header := &zip.FileHeader{Name: e.name}
		if e.store {
			header.Method = zip.Store
		} else {
			header.Method = zip.Deflate
		}
		fw, err := w.CreateHeader(header)
		if err != nil {
			return nil, errors.Wrapf(err, "creating zip entry %s", e.name)
		}
		if _, err := fw.Write(e.data); err != nil {
			return nil, errors.Wrapf(err, "writing zip entry %s", e.name)
		}
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "closing archive")
	}
	return buf.Bytes(), nil
}
