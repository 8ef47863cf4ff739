package guard

import (
	"net/url"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// Escape percent-encodes characters that may not appear in a URL as sent:
// controls, spaces, non-ascii bytes and the unwise set. Existing escapes and
// reserved characters are left alone.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&15])
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}

func shouldEscape(c byte) bool {
	if c <= 0x20 || c >= 0x7f {
		return true
	}
	switch c {
	case '"', '<', '>', '\\', '^', '`', '{', '|', '}':
		return true
	}
	return false
}

// Parse escapes s and parses it as a URL.
func Parse(s string) (*url.URL, error) {
	return url.Parse(Escape(s))
}
