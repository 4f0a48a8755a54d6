package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const ellipsis = "…"

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Truncate returns at most max runes of s. Cut text ends with an ellipsis,
// which counts toward max. Multi-byte text is never cut in the middle of a
// character.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + ellipsis
}

// VisibleLength is the length Telegram counts for HTML-formatted text: tags
// are dropped, entities decoded, and the rest measured in UTF-16 code units.
func VisibleLength(s string) int {
	plain := html.UnescapeString(htmlTag.ReplaceAllString(s, ""))
	return len(utf16.Encode([]rune(plain)))
}

// OptionalString trims s and returns nil for empty input or for the skip
// marker "-".
func OptionalString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "-" {
		return nil
	}
	return &trimmed
}

// NormalizeToken lower-cases and trims s for keyword comparison.
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Escape escapes user supplied text for HTML parse mode.
func Escape(s string) string {
	return html.EscapeString(s)
}
