package htmlsketch

import (
	"strconv"
	"strings"
)

var runeEscapes = map[rune]string{
	'\t': `\t`,
	'\r': `\r`,
	'\n': `\n`,
	'\'': `\'`,
	'"':  `\"`,
	'\\': `\\`,
}

// Escape converts text into a printable single-line form by replacing every
// character with its escaped representation, in order.
//
// Printable ASCII stays as is, tab/CR/LF/quotes/backslash get their
// backslash form and everything else becomes \u{hex}.
func Escape(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		result.WriteString(escapeRune(r))
	}

	return result.String()
}

func escapeRune(r rune) string {
	if replacement, ok := runeEscapes[r]; ok {
		return replacement
	}
	if r >= 0x20 && r <= 0x7e {
		return string(r)
	}
	return `\u{` + strconv.FormatInt(int64(r), 16) + `}`
}
