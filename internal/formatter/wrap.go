package formatter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordWrap breaks text into lines no wider than width runes.
//
// Embedded newlines always start a new line and blank lines are dropped.
// Words are never split, so a word longer than width stands on a line of its
// own. Whitespace between words on the same line is kept as written; the
// whitespace at a break is dropped.
func WordWrap(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return lines
}

func wrapParagraph(s string, width int) []string {
	s = strings.TrimSpace(s)

	var (
		lines   []string
		line    strings.Builder
		lineLen int
	)
	for s != "" {
		wordStart := strings.IndexFunc(s, isNotSpace)
		sep := s[:wordStart]
		s = s[wordStart:]

		wordEnd := strings.IndexFunc(s, unicode.IsSpace)
		if wordEnd < 0 {
			wordEnd = len(s)
		}
		word := s[:wordEnd]
		s = s[wordEnd:]

		wordLen := utf8.RuneCountInString(word)
		sepLen := utf8.RuneCountInString(sep)

		switch {
		case lineLen == 0:
			line.WriteString(word)
			lineLen = wordLen
		case lineLen+sepLen+wordLen > width:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			lineLen = wordLen
		default:
			line.WriteString(sep)
			line.WriteString(word)
			lineLen += sepLen + wordLen
		}
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func isNotSpace(r rune) bool {
	return !unicode.IsSpace(r)
}
