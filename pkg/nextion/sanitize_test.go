package nextion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		max    int
		expect string
	}{
		{"plain", "Hello World", 0, "Hello World"},
		{"quotes", `say "hi"`, 0, "say 'hi'"},
		{"backslash", `AC\DC`, 0, "AC/DC"},
		{"control", "a\tb\nc\x00d", 0, "a b c d"},
		{"non ascii", "Beyoncé", 0, "Beyonc"},
		{"raw ff", "ab\xffcd", 0, "abcd"},
		{"trim", "   x  ", 0, "x"},
		{"empty", "", 0, "-"},
		{"blank", " \x01 ", 0, "-"},
		{"exact", "12345678", 8, "12345678"},
		{"truncate", "123456789", 8, "12345..."},
		{"tiny", "abcdef", 2, "ab"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Sanitize(tc.in, tc.max))
		})
	}
}

func TestSanitizeDefaultMax(t *testing.T) {
	out := Sanitize(strings.Repeat("x", 100), 0)
	require.Len(t, out, DefaultMaxText)
	require.True(t, strings.HasSuffix(out, "..."))
}

func TestSanitizeOutputIsSafe(t *testing.T) {
	in := "\"\\\xff\xff\xff\x7f\x1bOK"
	out := Sanitize(in, 0)
	require.Equal(t, "'/  OK", out)
	require.NotContains(t, out, "\"")
	require.NotContains(t, out, "\xff")
}
