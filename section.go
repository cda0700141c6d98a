package docrag

import (
	"regexp"
	"strings"
)

// Section represents a heading in a markdown document.
type Section struct {
	Title string `json:"title"`

	// Offset is the byte offset of the heading line in the document.
	Offset int `json:"offset"`
}

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
)

// ExtractSections parses markdown and returns all headings (H1-H6) in
// document order. Headings inside fenced code blocks are ignored.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	// Blank out code blocks so # in code is not a heading. Blanking keeps
	// byte offsets aligned with the original text.
	cleaned := blankCodeBlocks(markdown)

	matches := headingRe.FindAllStringSubmatchIndex(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for _, m := range matches {
		sections = append(sections, Section{
			Title:  strings.TrimSpace(cleaned[m[4]:m[5]]),
			Offset: m[0],
		})
	}

	return sections
}

func blankCodeBlocks(s string) string {
	return codeBlockRe.ReplaceAllStringFunc(s, func(block string) string {
		return strings.Repeat(" ", len(block))
	})
}
