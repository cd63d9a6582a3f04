package model

import (
	"strconv"
	"strings"
)

const none = "None"

// Quote wraps s in single quotes, escaping backslashes, single quotes and
// control characters.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\x`)
				hex := strconv.FormatInt(int64(r), 16)
				if len(hex) < 2 {
					b.WriteByte('0')
				}
				b.WriteString(hex)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// QuoteOptional quotes *s, or returns None for a nil pointer.
func QuoteOptional(s *string) string {
	if s == nil {
		return none
	}
	return Quote(*s)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
