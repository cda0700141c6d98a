package docrag

// ExtractResult holds the normalized content of one HTML page.
type ExtractResult struct {
	// Title comes from page metadata, falling back to the first heading.
	Title string

	// Text is the serialized main content: headings, paragraphs, list
	// items, code blocks and tables in document order, separated by blank
	// lines.
	Text string
}

// Extractor turns raw HTML into normalized text.
type Extractor interface {
	// Extract selects the main content container, strips excluded
	// elements and serializes what remains. Returns EINVALID when nothing
	// but whitespace remains.
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor collects the links a page points to.
type LinkExtractor interface {
	// ExtractLinks returns absolute, fragment-free HTTP(S) URLs in
	// document order. Duplicates are removed.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// Converter converts an HTML fragment to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
