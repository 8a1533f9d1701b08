package docbridge

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

// Segmenter splits an HTML document into labeled block elements.
type Segmenter interface {
	// Segment returns the blocks of html in document order, each rendered
	// as Markdown and tagged with the heading it appears under.
	Segment(html string) ([]*Element, error)
}
