package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Hello world", "Hello world"},
		{"trims whitespace", "  padded \n ", "padded"},
		{"removes script with body", "<script>alert(1)</script>Hello", "Hello"},
		{"keeps allowed tags without attributes", `<b onclick="x()">bold</b> <i class="a">it</i>`, "<b>bold</b> <i>it</i>"},
		{"strips disallowed tags to text", `<div><a href="http://x">link</a></div>`, "link"},
		{"removes quotes and semicolons", `it's "quoted"; done`, "its quoted done"},
		{"removes control characters", "a\x00b\x07c\x7fd", "abcd"},
		{"keeps newlines and tabs", "line one\n\tline two", "line one\n\tline two"},
		{"normalizes CRLF", "a\r\nb", "a\nb"},
		{"escaped ampersand loses semicolon", "a & b", "a &amp b"},
		{"quote entities are dropped", "say &quot;hi&#39;", "say hi"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.input))
		})
	}
}

func TestStringIdempotent(t *testing.T) {
	inputs := []string{
		"Hello world",
		"a & b < c > d",
		"&amp;lt;script&amp;gt;",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"<p>para</p><br/><br>",
		"&#1;hidden&#13;\n",
		"&copy 2026 &nbsp; x",
		"<b>unclosed <i>tags",
		`"'; ;;'"`,
		"   \t  ",
		"multi\nline\ncontent with <u>markup</u>",
	}

	for _, in := range inputs {
		once := String(in)
		assert.Equal(t, once, String(once), "input %q", in)
	}
}

func TestAny(t *testing.T) {
	assert.Equal(t, "42", Any(42))
	assert.Equal(t, "true", Any(true))
	assert.Equal(t, "", Any(nil))
	assert.Equal(t, "x", Any(" x "))
}
