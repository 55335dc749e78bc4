package chat

import (
	"strings"
	"unicode/utf8"
)

// truncate flattens newlines and cuts s to at most maxLen bytes, never in
// the middle of a rune.
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
