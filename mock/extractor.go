package mock

import "github.com/fwojciec/docrag"

var (
	_ docrag.Extractor     = (*Extractor)(nil)
	_ docrag.LinkExtractor = (*LinkExtractor)(nil)
	_ docrag.Converter     = (*Converter)(nil)
)

// Extractor is a mock implementation of docrag.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docrag.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docrag.ExtractResult, error) {
	return e.ExtractFn(html)
}

// LinkExtractor is a mock implementation of docrag.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

// Converter is a mock implementation of docrag.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
