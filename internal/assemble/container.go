package assemble

// MimeType is the fixed first entry of every EPUB/KEPUB archive, stored
// uncompressed per the EPUB OCF spec.
const MimeType = "application/epub+zip"

// ContainerXML renders META-INF/container.xml.
func ContainerXML() []byte {
	return []byte(`<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`)
}
