// Package glob compiles shell-style URL patterns using gobwas/glob.
//
// Patterns follow fnmatch semantics: '*' matches any run of characters
// including '/', '?' matches one character, and '[...]' matches a class.
package glob

import (
	"github.com/fwojciec/docrag"
	"github.com/gobwas/glob"
)

// Ensure Pattern implements docrag.Pattern at compile time.
var _ docrag.Pattern = (*Pattern)(nil)

// Pattern is a compiled URL glob.
type Pattern struct {
	source string
	g      glob.Glob
}

// Compile compiles a single pattern. Returns ECONFIG for invalid syntax.
func Compile(pattern string) (*Pattern, error) {
	// No separators: '*' must cross path segments.
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, docrag.Errorf(docrag.ECONFIG, "invalid URL pattern %q: %w", pattern, err)
	}
	return &Pattern{source: pattern, g: g}, nil
}

// Match reports whether the URL matches the whole pattern.
func (p *Pattern) Match(url string) bool {
	return p.g.Match(url)
}

// String returns the source pattern.
func (p *Pattern) String() string {
	return p.source
}

// NewURLFilter compiles accept and deny patterns into a filter.
func NewURLFilter(accept, deny []string) (*docrag.URLFilter, error) {
	a, err := compileAll(accept)
	if err != nil {
		return nil, err
	}
	d, err := compileAll(deny)
	if err != nil {
		return nil, err
	}
	return &docrag.URLFilter{Accept: a, Deny: d}, nil
}

func compileAll(patterns []string) ([]docrag.Pattern, error) {
	out := make([]docrag.Pattern, 0, len(patterns))
	for _, s := range patterns {
		p, err := Compile(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
