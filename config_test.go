package docrag_test

import (
	"testing"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := docrag.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.Document.ChunkSize)
	assert.Equal(t, 200, cfg.Document.ChunkOverlap)
	assert.Equal(t, 4, cfg.VectorStore.SimilaritySearchK)
	assert.Equal(t, time.Second, cfg.Crawler.Delay)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *docrag.Config)
	}{
		{"overlap not below size", func(c *docrag.Config) { c.Document.ChunkOverlap = c.Document.ChunkSize }},
		{"zero depth", func(c *docrag.Config) { c.Document.MaxDepth = 0 }},
		{"unknown renderer", func(c *docrag.Config) { c.Crawler.Renderer = "lynx" }},
		{"negative delay", func(c *docrag.Config) { c.Crawler.Delay = -time.Second }},
		{"zero fetch timeout", func(c *docrag.Config) { c.Crawler.FetchTimeout = 0 }},
		{"zero browser recycle", func(c *docrag.Config) { c.Crawler.RecycleAfter = 0 }},
		{"empty index path", func(c *docrag.Config) { c.VectorStore.IndexPath = "" }},
		{"zero k", func(c *docrag.Config) { c.VectorStore.SimilaritySearchK = 0 }},
		{"unknown provider", func(c *docrag.Config) { c.Provider = "ollama" }},
		{"template without context", func(c *docrag.Config) { c.PromptTemplate = "Q: {question}" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := docrag.DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
		})
	}
}

func TestConfig_ValidateForIndex(t *testing.T) {
	t.Parallel()

	cfg := docrag.DefaultConfig()
	err := cfg.ValidateForIndex()
	require.Error(t, err)
	assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))

	cfg.URLs = []string{"https://docs.example.com/"}
	cfg.URLPatterns.Accepted = []string{"https://docs.example.com/*"}
	assert.NoError(t, cfg.ValidateForIndex())
}

func TestConfig_Model(t *testing.T) {
	t.Parallel()

	cfg := docrag.DefaultConfig()
	assert.Equal(t, "gpt-4", cfg.Model().ModelName)

	cfg.Provider = docrag.ProviderGemini
	assert.Equal(t, "gemini-2.5-flash", cfg.Model().ModelName)
}
