package docrag_test

import (
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("extracts headings of every level in order", func(t *testing.T) {
		t.Parallel()

		markdown := "# H1 Title\n## H2 Title\n###### H6 Title\n####### not a heading"

		sections := docrag.ExtractSections(markdown)

		require.Len(t, sections, 3)
		assert.Equal(t, "H1 Title", sections[0].Title)
		assert.Equal(t, "H2 Title", sections[1].Title)
		assert.Equal(t, "H6 Title", sections[2].Title)
	})

	t.Run("records byte offsets of heading lines", func(t *testing.T) {
		t.Parallel()

		markdown := "# Intro\n\nSome text.\n\n## Usage\n\nMore."

		sections := docrag.ExtractSections(markdown)

		require.Len(t, sections, 2)
		assert.Equal(t, 0, sections[0].Offset)
		assert.Equal(t, 21, sections[1].Offset)
		assert.Equal(t, "## Usage", markdown[sections[1].Offset:sections[1].Offset+8])
	})

	t.Run("keeps repeated titles as separate headings", func(t *testing.T) {
		t.Parallel()

		markdown := "# API\n## Example\ntext\n### Example"

		sections := docrag.ExtractSections(markdown)

		require.Len(t, sections, 3)
		assert.Equal(t, []docrag.Section{
			{Title: "API", Offset: 0},
			{Title: "Example", Offset: 6},
			{Title: "Example", Offset: 22},
		}, sections)
	})

	t.Run("returns nothing without headings", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docrag.ExtractSections(""))
		assert.Empty(t, docrag.ExtractSections("Just some text\n\nWith paragraphs."))
	})

	t.Run("ignores hash symbols inside code blocks", func(t *testing.T) {
		t.Parallel()

		markdown := "# Real Heading\n\n```bash\n# a comment ü\necho hello\n```\n\n## Another Real Heading"

		sections := docrag.ExtractSections(markdown)

		require.Len(t, sections, 2)
		assert.Equal(t, "Real Heading", sections[0].Title)
		assert.Equal(t, "Another Real Heading", sections[1].Title)
		assert.Equal(t, "## Another", markdown[sections[1].Offset:sections[1].Offset+10])
	})
}
