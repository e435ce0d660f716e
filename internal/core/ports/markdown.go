package ports

import "go.trai.ch/sitedims/internal/core/domain"

// MarkdownRenderer turns a Markdown source with optional front matter into HTML.
//
//go:generate go run go.uber.org/mock/mockgen -source=markdown.go -destination=mocks/mock_markdown.go -package=mocks
type MarkdownRenderer interface {
	Render(source []byte) (domain.MarkdownDocument, error)
}
