// Package render formats resolved tracks for the command line as styled
// text, JSON or YAML.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Sanitize removes escape sequences and control characters (except tab)
// from tag values and drops invalid UTF-8 bytes. Tags are untrusted
// input and must not be able to drive the terminal.
func Sanitize(s string) string {
	if strings.ContainsRune(s, '\x1b') {
		s = ansi.Strip(s)
	}
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			i++
			continue
		}
		if r != '\t' && unicode.IsControl(r) {
			i += size
			continue
		}
		if r == '\u00a0' {
			b.WriteByte(' ')
			i += size
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

func needsSanitize(s string) bool {
	for i := range len(s) {
		b := s[i]
		if b < 0x20 && b != '\t' {
			return true
		}
		if b >= 0x80 && b <= 0x9f {
			return true
		}
		if b == 0xc2 && i+1 < len(s) && s[i+1] == 0xa0 {
			return true
		}
	}
	return !utf8.ValidString(s)
}

// Truncate shortens s to maxWidth cells, adding an ellipsis if truncated.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return Sanitize(s)
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}

// Pad right-pads s with spaces to exactly width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Graphemes returns the number of user-perceived characters in s.
func Graphemes(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Lines sanitizes each line of a multi-line value.
func Lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = Sanitize(l)
	}
	return lines
}
