package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SafePath keeps only letters, digits and spaces so the value can be used in a file name.
// Trailing spaces are dropped.
func SafePath(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// WrapText greedily wraps text into lines of at most width runes.
// Whitespace runs collapse to a single space and words longer than width are split.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = 1
	}

	var lines []string
	var line strings.Builder
	lineLen := 0

	flush := func() {
		if lineLen > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > width {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}

		wordLen := utf8.RuneCountInString(word)
		if lineLen > 0 && lineLen+1+wordLen > width {
			flush()
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(word)
		lineLen += wordLen
	}
	flush()

	return lines
}
