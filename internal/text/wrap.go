package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Measurer reports the rendered width of a string in a given font and size.
// Font is a logical font name as used in the layout configuration.
type Measurer interface {
	StringWidth(font string, size float64, s string) float64
}

// Normalize puts text into the canonical form used for both measuring and
// drawing, so the two always see the same bytes.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Wrap breaks s into lines no wider than maxWidth using greedy word
// wrapping. Explicit newlines always start a new line. A single word wider
// than maxWidth is kept whole on its own line. Empty input yields no lines.
func Wrap(s, font string, size, maxWidth float64, m Measurer) []string {
	if s == "" {
		return nil
	}
	s = Normalize(strings.ReplaceAll(s, "\r\n", "\n"))

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := splitIntoWords(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if m.StringWidth(font, size, candidate) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

// splitIntoWords splits text into words
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}
