package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown("<h1>Launch Day</h1><p>Ship it <strong>today</strong>.</p><ul><li>one</li><li>two</li></ul>")
	require.NoError(t, err)

	assert.Contains(t, md, "# Launch Day")
	assert.Contains(t, md, "**today**")
	assert.Contains(t, md, "- one")
	assert.Contains(t, md, "- two")
}

func TestToMarkdown_Empty(t *testing.T) {
	md, err := ToMarkdown("   ")
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestToMarkdown_PlainText(t *testing.T) {
	md, err := ToMarkdown("just words")
	require.NoError(t, err)
	assert.Equal(t, "just words", md)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "hello world", want: "hello world"},
		{name: "paragraphs", in: "<p>first</p><p>second</p>", want: "first second"},
		{name: "entities", in: "<p>Tom &amp; Jerry</p>", want: "Tom & Jerry"},
		{name: "scripts dropped", in: "<p>safe</p><script>alert(1)</script>", want: "safe"},
		{name: "whitespace collapsed", in: "<div>\n  a \n\n b </div>", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "Growth hacking", Snippet("<p>Growth hacking</p>", 150))
	assert.Equal(t, "Growth…", Snippet("<p>Growth hacking</p>", 8))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "zero limit", in: "abc", limit: 0, want: ""},
		{name: "fits", in: "abc", limit: 3, want: "abc"},
		{name: "one", in: "abc", limit: 1, want: "…"},
		{name: "cut", in: "abcdef", limit: 4, want: "abc…"},
		{name: "multibyte", in: "héllo wörld", limit: 6, want: "héllo…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.limit))
		})
	}
}
