package docrag

import "time"

// Providers supported for the embedding and language model capabilities.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Page renderers supported by the crawler.
const (
	RendererBrowser = "browser"
	RendererHTTP    = "http"
)

// Config is the complete runtime configuration.
type Config struct {
	URLs           []string          `koanf:"urls" yaml:"urls"`
	URLPatterns    URLPatternsConfig `koanf:"url_patterns" yaml:"url_patterns"`
	Document       DocumentConfig    `koanf:"document" yaml:"document"`
	Crawler        CrawlerConfig     `koanf:"crawler" yaml:"crawler"`
	VectorStore    VectorStoreConfig `koanf:"vector_store" yaml:"vector_store"`
	Provider       string            `koanf:"provider" yaml:"provider"`
	OpenAI         ModelConfig       `koanf:"openai" yaml:"openai"`
	Gemini         ModelConfig       `koanf:"gemini" yaml:"gemini"`
	Answer         AnswerConfig      `koanf:"answer" yaml:"answer"`
	PromptTemplate string            `koanf:"prompt_template" yaml:"prompt_template"`
	Log            LogConfig         `koanf:"log" yaml:"log"`
}

// URLPatternsConfig holds the accept and deny globs of the URL filter.
type URLPatternsConfig struct {
	Accepted    []string `koanf:"accepted" yaml:"accepted"`
	Blacklisted []string `koanf:"blacklisted" yaml:"blacklisted"`
}

// DocumentConfig bounds chunking and crawl depth.
type DocumentConfig struct {
	ChunkSize    int `koanf:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int `koanf:"chunk_overlap" yaml:"chunk_overlap"`
	MaxDepth     int `koanf:"max_depth" yaml:"max_depth"`
}

// CrawlerConfig controls page fetching.
type CrawlerConfig struct {
	Renderer     string        `koanf:"renderer" yaml:"renderer"`
	Delay        time.Duration `koanf:"delay" yaml:"delay"`
	FetchTimeout time.Duration `koanf:"fetch_timeout" yaml:"fetch_timeout"`
	MaxPages     int           `koanf:"max_pages" yaml:"max_pages"`
	UseSitemap   bool          `koanf:"use_sitemap" yaml:"use_sitemap"`

	// BrowserBin points the browser renderer at a Chrome binary instead of
	// looking one up.
	BrowserBin   string `koanf:"browser_bin" yaml:"browser_bin,omitempty"`
	RecycleAfter int    `koanf:"recycle_after" yaml:"recycle_after"`
}

// VectorStoreConfig locates the index and sizes retrieval.
type VectorStoreConfig struct {
	IndexPath         string `koanf:"index_path" yaml:"index_path"`
	SimilaritySearchK int    `koanf:"similarity_search_k" yaml:"similarity_search_k"`
	EmbedConcurrency  int    `koanf:"embed_concurrency" yaml:"embed_concurrency"`
}

// ModelConfig selects the models of one provider.
type ModelConfig struct {
	ModelName      string  `koanf:"model_name" yaml:"model_name"`
	Temperature    float32 `koanf:"temperature" yaml:"temperature"`
	EmbeddingModel string  `koanf:"embedding_model" yaml:"embedding_model"`
	APIKey         string  `koanf:"api_key" yaml:"-"`

	// BaseURL overrides the provider endpoint, for proxies and local servers.
	BaseURL string `koanf:"base_url" yaml:"base_url,omitempty"`
}

// AnswerConfig bounds the context handed to the language model.
type AnswerConfig struct {
	MaxContextTokens int `koanf:"max_context_tokens" yaml:"max_context_tokens"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			MaxDepth:     3,
		},
		Crawler: CrawlerConfig{
			Renderer:     RendererBrowser,
			Delay:        time.Second,
			FetchTimeout: 30 * time.Second,
			MaxPages:     1000,
			RecycleAfter: 75,
		},
		VectorStore: VectorStoreConfig{
			IndexPath:         "faiss_index",
			SimilaritySearchK: 4,
			EmbedConcurrency:  4,
		},
		Provider: ProviderOpenAI,
		OpenAI: ModelConfig{
			ModelName:      "gpt-4",
			EmbeddingModel: "text-embedding-3-small",
		},
		Gemini: ModelConfig{
			ModelName:      "gemini-2.5-flash",
			EmbeddingModel: "gemini-embedding-001",
		},
		PromptTemplate: DefaultPromptTemplate,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Splitter returns the chunker configured by c.
func (c *Config) Splitter() Splitter {
	return Splitter{ChunkSize: c.Document.ChunkSize, Overlap: c.Document.ChunkOverlap}
}

// Validate returns ECONFIG for the first constraint c violates.
func (c *Config) Validate() error {
	if err := c.Splitter().Validate(); err != nil {
		return err
	}
	if c.Document.MaxDepth < 1 {
		return Errorf(ECONFIG, "document.max_depth must be at least 1, got %d", c.Document.MaxDepth)
	}
	switch c.Crawler.Renderer {
	case RendererBrowser, RendererHTTP:
	default:
		return Errorf(ECONFIG, "invalid crawler.renderer %q: must be one of browser, http", c.Crawler.Renderer)
	}
	if c.Crawler.Delay < 0 {
		return Errorf(ECONFIG, "crawler.delay must not be negative")
	}
	if c.Crawler.FetchTimeout <= 0 {
		return Errorf(ECONFIG, "crawler.fetch_timeout must be positive")
	}
	if c.Crawler.MaxPages <= 0 {
		return Errorf(ECONFIG, "crawler.max_pages must be positive")
	}
	if c.Crawler.RecycleAfter <= 0 {
		return Errorf(ECONFIG, "crawler.recycle_after must be positive")
	}
	if c.VectorStore.IndexPath == "" {
		return Errorf(ECONFIG, "vector_store.index_path is required")
	}
	if c.VectorStore.SimilaritySearchK <= 0 {
		return Errorf(ECONFIG, "vector_store.similarity_search_k must be positive")
	}
	if c.VectorStore.EmbedConcurrency <= 0 {
		return Errorf(ECONFIG, "vector_store.embed_concurrency must be positive")
	}
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return Errorf(ECONFIG, "invalid provider %q: must be one of openai, gemini", c.Provider)
	}
	if c.Answer.MaxContextTokens < 0 {
		return Errorf(ECONFIG, "answer.max_context_tokens must not be negative")
	}
	return ValidatePromptTemplate(c.PromptTemplate)
}

// ValidateForIndex additionally requires what a crawl needs.
func (c *Config) ValidateForIndex() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.URLs) == 0 {
		return Errorf(ECONFIG, "urls: at least one seed URL is required")
	}
	if len(c.URLPatterns.Accepted) == 0 {
		return Errorf(ECONFIG, "url_patterns.accepted: at least one pattern is required")
	}
	return nil
}

// Model returns the model configuration of the selected provider.
func (c *Config) Model() ModelConfig {
	if c.Provider == ProviderGemini {
		return c.Gemini
	}
	return c.OpenAI
}
