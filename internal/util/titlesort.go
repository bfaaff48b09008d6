package util

import "strings"

// TitleLess compares two book titles in natural order: runs of digits are
// compared numerically, everything else case-insensitively. "Vol 2" sorts
// before "Vol 10".
func TitleLess(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			na, ni := readNumber(a, i)
			nb, nj := readNumber(b, j)
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
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// readNumber parses the digit run starting at position i and returns its
// value and the position just past it.
func readNumber(s string, i int) (int, int) {
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, i
}
