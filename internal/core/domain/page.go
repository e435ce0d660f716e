package domain

// MarkdownDocument is a Markdown source rendered to an HTML fragment.
type MarkdownDocument struct {
	// Title comes from the front matter, falling back to the first level-one heading.
	Title string
	// Draft pages are not written to the output directory.
	Draft bool
	// HTML is the rendered body.
	HTML []byte
}
