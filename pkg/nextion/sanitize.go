package nextion

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxText is the default length limit of a text value.
const DefaultMaxText = 48

// Placeholder is shown for empty values.
const Placeholder = "-"

const ellipsis = "..."

// Sanitize makes s safe to be placed inside a quoted text value.
// Control and non-ASCII characters become spaces, double quotes
// become single quotes, backslashes become slashes and raw 0xFF
// bytes are removed. The result is trimmed, never empty, and at
// most max bytes long (DefaultMaxText if max <= 0).
func Sanitize(s string, max int) string {
	if max <= 0 {
		max = DefaultMaxText
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i, r := range s {
		switch {
		case r == utf8.RuneError && s[i] == 0xFF:
			continue
		case r == '"':
			sb.WriteByte('\'')
		case r == '\\':
			sb.WriteByte('/')
		case r < 0x20 || r > 0x7E:
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return Placeholder
	}
	if len(out) > max {
		if max <= len(ellipsis) {
			return out[:max]
		}
		out = out[:max-len(ellipsis)] + ellipsis
	}
	return out
}
