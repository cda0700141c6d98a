package mock

import (
	"context"

	"github.com/fwojciec/docrag"
)

var (
	_ docrag.Index      = (*Index)(nil)
	_ docrag.Indexer    = (*Indexer)(nil)
	_ docrag.Embedder   = (*Embedder)(nil)
	_ docrag.Catalog    = (*Catalog)(nil)
	_ docrag.IndexStore = (*IndexStore)(nil)
)

// Index is a mock implementation of docrag.Index.
type Index struct {
	SearchFn func(ctx context.Context, vector []float32, k int) ([]docrag.SearchResult, error)
	LenFn    func() int
	SaveFn   func(dir string) error
}

func (i *Index) Search(ctx context.Context, vector []float32, k int) ([]docrag.SearchResult, error) {
	return i.SearchFn(ctx, vector, k)
}

func (i *Index) Len() int {
	return i.LenFn()
}

func (i *Index) Save(dir string) error {
	return i.SaveFn(dir)
}

// Indexer is a mock implementation of docrag.Indexer.
type Indexer struct {
	BuildFn func(ctx context.Context, chunks []*docrag.Chunk) (docrag.Index, error)
	LoadFn  func(ctx context.Context, dir string) (docrag.Index, error)
}

func (i *Indexer) Build(ctx context.Context, chunks []*docrag.Chunk) (docrag.Index, error) {
	return i.BuildFn(ctx, chunks)
}

func (i *Indexer) Load(ctx context.Context, dir string) (docrag.Index, error) {
	return i.LoadFn(ctx, dir)
}

// Embedder is a mock implementation of docrag.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

// Catalog is a mock implementation of docrag.Catalog.
type Catalog struct {
	WriteDocumentsFn func(ctx context.Context, dir string, docs []*docrag.Document) error
	ReadDocumentsFn  func(ctx context.Context, dir string) ([]*docrag.Document, error)
}

func (c *Catalog) WriteDocuments(ctx context.Context, dir string, docs []*docrag.Document) error {
	return c.WriteDocumentsFn(ctx, dir, docs)
}

func (c *Catalog) ReadDocuments(ctx context.Context, dir string) ([]*docrag.Document, error) {
	return c.ReadDocumentsFn(ctx, dir)
}

// IndexStore is a mock implementation of docrag.IndexStore.
type IndexStore struct {
	SaveFn      func(ctx context.Context, idx docrag.Index, docs []*docrag.Document) error
	LoadFn      func(ctx context.Context) (docrag.Index, error)
	DocumentsFn func(ctx context.Context) ([]*docrag.Document, error)
}

func (s *IndexStore) Save(ctx context.Context, idx docrag.Index, docs []*docrag.Document) error {
	return s.SaveFn(ctx, idx, docs)
}

func (s *IndexStore) Load(ctx context.Context) (docrag.Index, error) {
	return s.LoadFn(ctx)
}

func (s *IndexStore) Documents(ctx context.Context) ([]*docrag.Document, error) {
	return s.DocumentsFn(ctx)
}

// IndexLoader is a mock implementation of http.IndexLoader.
type IndexLoader struct {
	LoadIndexFn func(ctx context.Context) error
	LoadedFn    func() bool
}

func (l *IndexLoader) LoadIndex(ctx context.Context) error {
	return l.LoadIndexFn(ctx)
}

func (l *IndexLoader) Loaded() bool {
	return l.LoadedFn()
}
