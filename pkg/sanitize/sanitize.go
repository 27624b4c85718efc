// Package sanitize cleans user-supplied text before it is stored or rendered.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy keeps inert inline formatting and drops every attribute.
var policy = bluemonday.NewPolicy().AllowElements("b", "strong", "i", "em", "u", "p", "br")

// Quotes and semicolons never reach templates, raw or as escaped entities.
var (
	rawUnsafe     = strings.NewReplacer(`"`, "", "'", "", ";", "")
	escapedUnsafe = strings.NewReplacer("&#34;", "", "&#39;", "", ";", "")
)

// String returns s with unsafe markup, quotes, semicolons and control
// characters removed, trimmed of surrounding whitespace. LF and TAB are kept.
// String(String(s)) == String(s) for every s.
func String(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = stripControl(s)
	s = rawUnsafe.Replace(s)
	s = policy.Sanitize(s)
	// Decoded numeric entities can reintroduce quotes and control characters.
	s = escapedUnsafe.Replace(s)
	s = stripControl(s)
	return strings.TrimSpace(s)
}

// Any coerces v to its string form and sanitizes it.
func Any(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return String(s)
	}
	return String(fmt.Sprint(v))
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
