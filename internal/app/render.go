package app

import (
	"bytes"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/sitedims/internal/adapters/markdown" //nolint:depguard // Built per run from the loaded config
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
)

var markdownExtensions = []string{".md", ".markdown"}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

// renderContent renders every non-draft Markdown source below the content root and
// stages the result in pages. It returns the number of staged pages.
func (a *App) renderContent(cfg domain.Config, pages *renderedPages) (int, error) {
	if _, err := os.Stat(cfg.Paths.Content); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	renderer, err := markdown.New(cfg.Markdown.Extensions)
	if err != nil {
		return 0, err
	}

	sources, err := a.pages.List(cfg.Paths.Content, markdownExtensions...)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to list markdown sources")
	}

	rendered := 0
	for _, src := range sources {
		page, ok, err := renderPage(renderer, a.pages, src)
		if err != nil {
			return rendered, err
		}
		if !ok {
			a.logger.Info("skipping draft " + src)
			continue
		}

		rel, err := filepath.Rel(cfg.Paths.Content, src)
		if err != nil {
			return rendered, zerr.With(errors.Join(domain.ErrPageWriteFailed, err), "path", src)
		}
		out := filepath.Join(cfg.Paths.Output, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
		pages.Stage(out, page)
		rendered++
	}
	return rendered, nil
}

// renderPage renders src into a complete HTML page. Drafts report false.
func renderPage(renderer ports.MarkdownRenderer, store ports.PageStore, src string) ([]byte, bool, error) {
	source, err := store.Read(src)
	if err != nil {
		return nil, false, err
	}

	doc, err := renderer.Render(source)
	if err != nil {
		return nil, false, zerr.With(err, "path", src)
	}
	if doc.Draft {
		return nil, false, nil
	}

	var buf bytes.Buffer
	//nolint:gosec // The body is the site's own rendered content
	data := pageData{Title: doc.Title, Body: template.HTML(doc.HTML)}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, false, zerr.With(errors.Join(domain.ErrMarkdownRenderFailed, err), "path", src)
	}
	return buf.Bytes(), true, nil
}

// renderedPages is a PageStore that serves freshly rendered pages from memory, so an
// output file is written at most once per build and only when its bytes change.
type renderedPages struct {
	ports.PageStore

	mu      sync.Mutex
	pending map[string][]byte
}

func newRenderedPages(store ports.PageStore) *renderedPages {
	return &renderedPages{
		PageStore: store,
		pending:   make(map[string][]byte),
	}
}

// Stage keeps data as the current content of path until it is written.
func (r *renderedPages) Stage(path string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[path] = data
}

// Pending returns the staged paths that have not been written yet, sorted.
func (r *renderedPages) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := make([]string, 0, len(r.pending))
	for p := range r.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *renderedPages) Read(path string) ([]byte, error) {
	r.mu.Lock()
	data, ok := r.pending[path]
	r.mu.Unlock()
	if ok {
		return data, nil
	}
	return r.PageStore.Read(path)
}

func (r *renderedPages) Write(path string, data []byte) (bool, error) {
	r.mu.Lock()
	delete(r.pending, path)
	r.mu.Unlock()
	return r.PageStore.Write(path, data)
}

// Flush writes the staged pages nobody has written yet.
func (r *renderedPages) Flush() error {
	var errs error
	for _, path := range r.Pending() {
		r.mu.Lock()
		data, ok := r.pending[path]
		r.mu.Unlock()
		if !ok {
			continue
		}
		if _, err := r.Write(path, data); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
