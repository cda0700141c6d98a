package goquery_test

import (
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<nav><a href="/docs/intro">Intro</a></nav>
<main><a href="install">Install</a><a href="https://other.example.com/x">Other</a></main>
</body>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com/docs/")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/docs/intro",
			"https://example.com/docs/install",
			"https://other.example.com/x",
		}, links)
	})

	t.Run("strips fragments and removes duplicates", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/a#one">A</a><a href="/a#two">A again</a><a href="/a">A bare</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, links)
	})

	t.Run("drops self links and non-HTTP schemes", func(t *testing.T) {
		t.Parallel()

		html := `<a href="#top">Top</a>
<a href="mailto:a@example.com">Mail</a>
<a href="javascript:void(0)">JS</a>
<a href="ftp://example.com/file">FTP</a>
<a href="/b">B</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/b"}, links)
	})

	t.Run("honors base href", func(t *testing.T) {
		t.Parallel()

		html := `<head><base href="/v2/"></head><body><a href="guide">Guide</a></body>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com/v1/page")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/v2/guide"}, links)
	})

	t.Run("rejects invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor().ExtractLinks("<a href='/x'>x</a>", "://bad")

		require.Error(t, err)
		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
	})
}
