package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitedims/internal/adapters/markdown"
	"go.trai.ch/sitedims/internal/core/domain"
)

func TestRender_FrontMatter(t *testing.T) {
	r, err := markdown.New([]string{"gfm"})
	require.NoError(t, err)

	src := []byte("---\ntitle: Field Notes\ndraft: true\n---\n# Heading\n\nSome *text*.\n")
	doc, err := r.Render(src)
	require.NoError(t, err)

	assert.Equal(t, "Field Notes", doc.Title)
	assert.True(t, doc.Draft)
	assert.Contains(t, string(doc.HTML), `<h1 id="heading">Heading</h1>`)
	assert.Contains(t, string(doc.HTML), "<em>text</em>")
	assert.NotContains(t, string(doc.HTML), "title:")
}

func TestRender_TitleFromHeading(t *testing.T) {
	r, err := markdown.New(nil)
	require.NoError(t, err)

	doc, err := r.Render([]byte("Intro line.\n\n# The *Real* Title\n\n# Second\n"))
	require.NoError(t, err)

	assert.Equal(t, "The Real Title", doc.Title)
	assert.False(t, doc.Draft)
}

func TestRender_KeepsRawHTML(t *testing.T) {
	r, err := markdown.New(nil)
	require.NoError(t, err)

	src := []byte("<video src=\"/clips/intro.mp4\" controls></video>\n\n![alt](/img/a.png)\n")
	doc, err := r.Render(src)
	require.NoError(t, err)

	assert.Contains(t, string(doc.HTML), `<video src="/clips/intro.mp4" controls></video>`)
	assert.Contains(t, string(doc.HTML), `<img src="/img/a.png" alt="alt">`)
}

func TestRender_Extensions(t *testing.T) {
	r, err := markdown.New([]string{"GFM", "footnote", "gfm"})
	require.NoError(t, err)

	doc, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n\nNote[^1].\n\n[^1]: Footnote.\n"))
	require.NoError(t, err)

	assert.Contains(t, string(doc.HTML), "<table>")
	assert.Contains(t, string(doc.HTML), `class="footnotes"`)
}

func TestNew_UnknownExtension(t *testing.T) {
	_, err := markdown.New([]string{"gfm", "mermaid"})

	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "mermaid")
}
