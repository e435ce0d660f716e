package ports

// PageStore reads and writes the rendered HTML pages of a site.
//
//go:generate go run go.uber.org/mock/mockgen -source=pages.go -destination=mocks/mock_pages.go -package=mocks
type PageStore interface {
	// List returns the files below root whose extension is one of extensions,
	// in lexical order.
	List(root string, extensions ...string) ([]string, error)

	// Read returns the contents of a page.
	Read(path string) ([]byte, error)

	// Write stores data at path unless the file already holds the same bytes.
	// It reports whether the file was written.
	Write(path string, data []byte) (bool, error)
}
