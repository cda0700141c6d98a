package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("renders tables as pipe tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Flag</th><th>Meaning</th></tr></thead>
<tbody><tr><td>-v</td><td>verbose</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Regexp(t, `\|\s*Flag\s*\|\s*Meaning\s*\|`, md)
		assert.Regexp(t, `\|\s*-v\s*\|\s*verbose\s*\|`, md)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("<p>Hello, world!</p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", md)
	})

	t.Run("rejects blank input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		require.Error(t, err)
		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
	})
}
