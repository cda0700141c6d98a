package docrag

import "context"

// IndexMetadata is the provenance stored with every index entry.
type IndexMetadata struct {
	SourceURL string `json:"sourceUrl"`
	Title     string `json:"title"`
	Heading   string `json:"heading,omitempty"`
	Position  int    `json:"position"`
}

// IndexEntry is one embedded chunk.
type IndexEntry struct {
	// ID is the zero-padded insertion sequence number of the entry.
	ID        string        `json:"id"`
	Embedding []float32     `json:"embedding,omitempty"`
	Content   string        `json:"content"`
	Metadata  IndexMetadata `json:"metadata"`
}

// SearchResult is an index entry with its cosine distance to the query.
type SearchResult struct {
	Entry    *IndexEntry `json:"entry"`
	Distance float32     `json:"distance"`
}

// Index is a built, immutable vector index.
type Index interface {
	// Search returns the k entries nearest to vector by ascending cosine
	// distance, ties broken by insertion order. Returns ECONFIG if the
	// vector's dimension differs from the index's.
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)

	// Len returns the number of entries.
	Len() int

	// Save writes the index into dir.
	Save(dir string) error
}

// Indexer builds indexes from chunks and loads saved ones.
type Indexer interface {
	// Build embeds every chunk. Any embedding failure fails the whole build
	// with EEMBEDDING. Returns ENODOCUMENTS for an empty chunk set.
	Build(ctx context.Context, chunks []*Chunk) (Index, error)

	// Load reads an index saved into dir. Returns ENOINDEX if none exists.
	Load(ctx context.Context, dir string) (Index, error)
}

// Embedder maps text to a fixed-dimension vector. The same embedder must be
// used to build an index and to query it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Catalog stores the documents behind an index inside an index directory.
type Catalog interface {
	// WriteDocuments stores docs in the catalog inside dir.
	WriteDocuments(ctx context.Context, dir string, docs []*Document) error

	// ReadDocuments lists the documents in the catalog inside dir by
	// position.
	ReadDocuments(ctx context.Context, dir string) ([]*Document, error)
}

// IndexStore persists the committed index.
type IndexStore interface {
	// Save replaces any committed index with idx and docs in full. On
	// failure the previously committed index is left untouched.
	Save(ctx context.Context, idx Index, docs []*Document) error

	// Load opens the committed index. Returns ENOINDEX if there is none.
	Load(ctx context.Context) (Index, error)

	// Documents lists the documents of the committed index.
	Documents(ctx context.Context) ([]*Document, error)
}
