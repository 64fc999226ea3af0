package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	t.Run("renders basic markdown", func(t *testing.T) {
		out := Markdown("# Title\n\nSome *emphasis*.")
		assert.Contains(t, out, "<h1>Title</h1>")
		assert.Contains(t, out, "<em>emphasis</em>")
	})

	t.Run("renders GFM tables", func(t *testing.T) {
		out := Markdown("| a | b |\n|---|---|\n| 1 | 2 |")
		assert.Contains(t, out, "<table>")
	})

	t.Run("plain text passes through as a paragraph", func(t *testing.T) {
		assert.Equal(t, "<p>hello</p>\n", Markdown("hello"))
	})
}
