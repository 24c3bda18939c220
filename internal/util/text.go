package util

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&#39;",
)

func EscapeHTML(value string) string {
	return htmlEscaper.Replace(value)
}

func NormalizeWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Truncate cuts value to at most n runes.
func Truncate(value string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(value) <= n {
		return value
	}
	runes := []rune(value)
	return string(runes[:n])
}

// Ellipsize shortens value to n runes followed by "..." when it is longer.
func Ellipsize(value string, n int) string {
	if utf8.RuneCountInString(value) <= n {
		return value
	}
	return Truncate(value, n) + "..."
}

// MemeFilename builds "<prefix>_<NN>_<slug>.<ext>" from the first prefixLen
// runes of the caption. The sequence number keeps names unique when two
// captions slug identically.
func MemeFilename(prefix string, seq int, caption string, prefixLen int, ext string) string {
	s := slug.Make(Truncate(NormalizeWhitespace(caption), prefixLen))
	if s == "" {
		return fmt.Sprintf("%s_%02d.%s", prefix, seq, ext)
	}
	return fmt.Sprintf("%s_%02d_%s.%s", prefix, seq, s, ext)
}

func init() {
	slug.Lowercase = true
	slug.CustomSub = nil
}
