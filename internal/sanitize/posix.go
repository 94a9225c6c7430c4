package sanitize

import "strings"

// posixReplacer strips characters that are unsafe in POSIX file and
// directory names. Grounded on the teacher's cmd/formats/util/posix.go
// SanitizePOSIXName, reused here for output filenames derived from
// ComicInfo.xml metadata (series/volume titles) rather than from
// MangaDex chapter titles.
var posixReplacer = strings.NewReplacer("/", "_", "\x00", "_", "\\", "_", ":", "_")

// POSIXName makes name safe to use as a single path component on any of
// the target platforms a reader device might expose its storage as.
func POSIXName(name string) string {
	name = posixReplacer.Replace(name)
	name = strings.Trim(name, " .")
	if name == "" || name == "." || name == ".." {
		name = "untitled"
	}
	return name
}
