package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmpty(t *testing.T) {
	renderer := NewRenderer()

	assert.Equal(t, "", renderer.Render(""))
	assert.Equal(t, "", renderer.Render("   \n\t"))
}

func TestRenderMarkdown(t *testing.T) {
	renderer := NewRenderer()

	out := renderer.Render("# Postgres Source\n\nReads tables as streams.")
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Postgres Source")
	assert.Contains(t, out, "Reads tables as streams.")
}

func TestRenderStripsRawHTML(t *testing.T) {
	renderer := NewRenderer()

	out := renderer.Render("before <script>alert(1)</script> after")
	assert.NotContains(t, out, "<script>")
}

func TestRenderGarbageNeverPanics(t *testing.T) {
	renderer := NewRenderer()

	assert.NotPanics(t, func() {
		renderer.Render("[unclosed(link\n```\n~~~ ###### |||")
	})
}
