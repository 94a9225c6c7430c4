package sidecar

import (
	"sort"
	"strings"
)

// splitCreatorList splits a ComicInfo.xml credit field (comma or
// semicolon separated), trims whitespace, de-duplicates case-sensitively
// and sorts the result — mirroring the normalization the book assembler
// applies before writing dc:creator entries (§4.7).
func splitCreatorList(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || r == ';'
	})
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
