// Package sanitize makes externally supplied text safe to show in a
// terminal: escape sequences removed, invalid UTF-8 repaired, and widths
// measured in display columns.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// escapeRE matches terminal escape sequences: CSI (colors, cursor moves),
// OSC terminated by BEL or ST, and two-byte charset designations.
var escapeRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[ -/]*[@-~]` +
	`|\].*?(?:\x1b\\|\x07)` +
	`|[()*+][A-Za-z0-9]` +
	`|[#\-./][A-Za-z0-9]` +
	`)`)

const ellipsis = "…"

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return escapeRE.ReplaceAllString(s, "")
}

// ValidateUTF8 replaces every invalid byte with U+FFFD.
func ValidateUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// Label cleans a node key or label for display: escapes stripped, UTF-8
// repaired, remaining control characters dropped, surrounding space trimmed.
func Label(s string) string {
	s = ValidateUTF8(StripANSI(s))
	s = strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Width returns the display width of s in terminal columns.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, replacing the cut tail
// with an ellipsis.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return ellipsis
	}
	return headOf(s, maxWidth-1) + ellipsis
}

// MiddleTruncate shortens s to at most maxWidth columns by cutting out the
// middle. Node keys usually differ at the end ("Node 9998"), so keeping the
// tail visible matters more than keeping all of the head.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return headOf(s, maxWidth)
	}
	room := maxWidth - 1
	return headOf(s, (room+1)/2) + ellipsis + tailOf(s, room/2)
}

// headOf returns the longest prefix of s that fits in w columns.
func headOf(s string, w int) string {
	used := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if used+rw > w {
			return s[:i]
		}
		used += rw
	}
	return s
}

// tailOf returns the longest suffix of s that fits in w columns.
func tailOf(s string, w int) string {
	used := 0
	cut := len(s)
	for cut > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:cut])
		rw := runewidth.RuneWidth(r)
		if used+rw > w {
			break
		}
		used += rw
		cut -= size
	}
	return s[cut:]
}
