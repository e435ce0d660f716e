// Package markdown implements the MarkdownRenderer port with goldmark.
package markdown

import (
	"bytes"
	"errors"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/zerr"
)

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":            extension.GFM,
	"table":          extension.Table,
	"strikethrough":  extension.Strikethrough,
	"linkify":        extension.Linkify,
	"tasklist":       extension.TaskList,
	"definitionlist": extension.DefinitionList,
	"footnote":       extension.Footnote,
	"typographer":    extension.Typographer,
	"cjk":            extension.CJK,
}

// frontMatter is the subset of page metadata the build understands.
type frontMatter struct {
	Title string `yaml:"title"`
	Draft bool   `yaml:"draft"`
}

// Renderer implements ports.MarkdownRenderer.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with the named goldmark extensions enabled.
// Raw HTML in the source is passed through so hand-written <video> and <svg> tags survive.
func New(extensions []string) (*Renderer, error) {
	exts := make([]goldmark.Extender, 0, len(extensions))
	seen := make(map[string]struct{}, len(extensions))
	for _, name := range extensions {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown markdown extension "+name), "extension", name)
		}
		seen[key] = struct{}{}
		exts = append(exts, ext)
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}, nil
}

// Render splits off the front matter and renders the remaining body.
func (r *Renderer) Render(source []byte) (domain.MarkdownDocument, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return domain.MarkdownDocument{}, errors.Join(domain.ErrMarkdownRenderFailed, err)
	}

	doc := r.md.Parser().Parse(text.NewReader(body))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, doc); err != nil {
		return domain.MarkdownDocument{}, errors.Join(domain.ErrMarkdownRenderFailed, err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = firstHeading(doc, body)
	}

	return domain.MarkdownDocument{
		Title: title,
		Draft: meta.Draft,
		HTML:  buf.Bytes(),
	}, nil
}

// firstHeading returns the plain text of the first level-one heading, or "".
func firstHeading(doc ast.Node, source []byte) string {
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = plainText(heading, source)
		return ast.WalkStop, nil
	})
	return title
}

func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
