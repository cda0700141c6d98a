package crawl_test

import (
	"testing"

	"github.com/fwojciec/docrag/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url    string
		maxLen int
		want   string
	}{
		{"https://example.com/a", 40, "https://example.com/a"},
		{"https://example.com/docs/guide/install", 20, "...ocs/guide/install"},
		{"https://example.com", 3, "htt"},
		{"https://example.com", 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, crawl.TruncateURL(tt.url, tt.maxLen))
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, crawl.ComputeHash("same"), crawl.ComputeHash("same"))
	assert.NotEqual(t, crawl.ComputeHash("content a"), crawl.ComputeHash("content b"))
	assert.Regexp(t, `^[0-9a-f]+$`, crawl.ComputeHash("test"))
}
