package eqpolicy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptions_Equal(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		a, b string
		want bool
	}{
		{name: "default exact", opts: Options{}, a: "abc", b: "abc", want: true},
		{name: "default case sensitive", opts: Options{}, a: "B", b: "b", want: false},
		{name: "ignore case", opts: Options{IgnoreCase: true}, a: "B", b: "b", want: true},
		{name: "ignore case unicode", opts: Options{IgnoreCase: true}, a: "STRASSE", b: "straße", want: true},
		{name: "default whitespace significant", opts: Options{}, a: "a b", b: "a  b", want: false},
		{name: "ignore space change collapses runs", opts: Options{IgnoreSpaceChange: true}, a: "a \t b", b: "a b", want: true},
		{name: "ignore space change keeps presence", opts: Options{IgnoreSpaceChange: true}, a: "ab", b: "a b", want: false},
		{name: "ignore space change trailing", opts: Options{IgnoreSpaceChange: true}, a: "ab   ", b: "ab", want: true},
		{name: "ignore all space", opts: Options{IgnoreAllSpace: true}, a: " a\tb ", b: "ab", want: true},
		{name: "combined case and space", opts: Options{IgnoreCase: true, IgnoreAllSpace: true}, a: "A B", b: "ab", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.opts.Equal(tc.a, "\n", tc.b, "\n"))
		})
	}
}

func TestOptions_EOLForm(t *testing.T) {
	// Same content from an LF pane and a CRLF pane: unequal by default, equal
	// when terminator form is ignored.
	require.False(t, Options{}.Equal("a", "\n", "a", "\r\n"))
	require.True(t, Options{IgnoreEOL: true}.Equal("a", "\n", "a", "\r\n"))

	// Stray \r content is terminator form too.
	require.True(t, Options{IgnoreEOL: true}.Equal("a\r", "\n", "a", "\n"))
	require.False(t, Options{}.Equal("a\r", "\n", "a", "\n"))
}

func TestOptions_Blank(t *testing.T) {
	o := Options{}
	require.True(t, o.Blank(""))
	require.True(t, o.Blank(" \t "))
	require.False(t, o.Blank(" x "))
}

func TestOptions_KeyDeterministic(t *testing.T) {
	o := Options{IgnoreCase: true, IgnoreSpaceChange: true}
	require.Equal(t, o.Key("Foo  Bar", "\n"), o.Key("Foo  Bar", "\n"))
}
