// Package natural implements natural (alphanumeric) collation: strings
// are compared run-by-run, with contiguous digit runs compared
// numerically rather than lexicographically. This is required by §3's
// invariant that sanitized filenames "sort in original reading order
// under natural (alphanumeric) collation", and is used both by the tree
// sanitizer (Kobo sequence renaming) and the volume splitter's ordering
// guarantee (§5).
//
// Grounded on shisho's pkg/kepub/cbz.go naturalLess/extractNumber, which
// only compares the first digit run in each string; this implementation
// generalizes that to full alphanumeric runs so that e.g. "page10" sorts
// after "page9" even when a later numeric run would otherwise dominate a
// digit-prefix-only comparison.
package natural

// Less reports whether a sorts before b under natural collation.
func Less(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if isDigit(ca) && isDigit(cb) {
			na, ni := scanNumber(ra, i)
			nb, nj := scanNumber(rb, j)
			if na != nb {
				return na < nb
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(ra)-i < len(rb)-j
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func scanNumber(runes []rune, start int) (value int, next int) {
	i := start
	for i < len(runes) && isDigit(runes[i]) {
		value = value*10 + int(runes[i]-'0')
		i++
	}
	return value, i
}
