package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"hello", "hello"},
		{"one two", "one two"},
		{"one two three", "one two three"},
		{"one two three four", "one two three..."},
		{"  spaced   out   words   here  ", "spaced out words..."},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, DeriveTitle(c.source), "source %q", c.source)
	}
}

func TestTitleOrFallback(t *testing.T) {
	src := "What's the weather like today"
	assert.Equal(t, "What's the weather...", titleOrFallback(&src, FallbackTitleNew))

	assert.Equal(t, FallbackTitleNew, titleOrFallback(nil, FallbackTitleNew))
	assert.Equal(t, FallbackTitleUntitled, titleOrFallback(nil, FallbackTitleUntitled))

	empty := "   "
	assert.Equal(t, FallbackTitleUntitled, titleOrFallback(&empty, FallbackTitleUntitled))
}
