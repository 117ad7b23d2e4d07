package mask

import (
	"strings"
	"unicode/utf8"
)

// IsTerse reports whether s is an aspell pipe payload: a "!" line followed by
// lines that each carry a one-character marker.
//
// Plain text that happens to start with '!' is read as terse too.
func IsTerse(s string) bool {
	return strings.HasPrefix(s, "!")
}

// DecodeTerse drops the first line and the marker of every other line.
func DecodeTerse(s string) string {
	lines := strings.Split(s, "\n")[1:]
	for i, l := range lines {
		_, n := utf8.DecodeRuneInString(l)
		lines[i] = l[n:]
	}
	return strings.Join(lines, "\n")
}

// EncodeTerse prefixes every line with '^' and prepends the "!" line. A
// trailing newline does not start a new line.
func EncodeTerse(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if i == len(lines)-1 && l == "" {
			break
		}
		lines[i] = "^" + l
	}
	return "!\n" + strings.Join(lines, "\n")
}
