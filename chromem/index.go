package chromem

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/fwojciec/docrag"
	chromem "github.com/philippgille/chromem-go"
)

var _ docrag.Index = (*Index)(nil)

// Index is a built chromem collection. It is read-only once built, so
// concurrent searches are safe.
type Index struct {
	db   *chromem.DB
	col  *chromem.Collection
	dims int
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return idx.col.Count()
}

// Dimensions returns the embedding dimension of the index.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// Search returns the k nearest entries to vector. Every entry is scored so
// that ties at the cut-off resolve by insertion order.
func (idx *Index) Search(ctx context.Context, vector []float32, k int) ([]docrag.SearchResult, error) {
	if len(vector) != idx.dims {
		return nil, docrag.Errorf(docrag.ECONFIG, "query dimension %d does not match index dimension %d; was the index built with another embedding model?", len(vector), idx.dims)
	}
	if k <= 0 {
		return nil, docrag.Errorf(docrag.EINVALID, "k must be positive")
	}
	n := idx.col.Count()
	if n == 0 {
		return nil, nil
	}

	results, err := idx.col.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]docrag.SearchResult, len(results))
	for i, r := range results {
		out[i] = docrag.SearchResult{
			Entry:    toEntry(r.ID, r.Content, r.Metadata, r.Embedding),
			Distance: 1 - r.Similarity,
		}
	}
	slices.SortStableFunc(out, func(a, b docrag.SearchResult) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Entry.ID, b.Entry.ID)
	})
	return out[:min(k, len(out))], nil
}

// Entries returns every entry in insertion order.
func (idx *Index) Entries(ctx context.Context) ([]*docrag.IndexEntry, error) {
	n := idx.col.Count()
	out := make([]*docrag.IndexEntry, 0, n)
	for i := range n {
		doc, err := idx.col.GetByID(ctx, entryID(i))
		if err != nil {
			return nil, fmt.Errorf("get entry %d: %w", i, err)
		}
		out = append(out, toEntry(doc.ID, doc.Content, doc.Metadata, doc.Embedding))
	}
	return out, nil
}

// Save writes the index to dir as a compressed gob export.
func (idx *Index) Save(dir string) error {
	if err := idx.db.ExportToFile(filepath.Join(dir, VectorsFile), true, ""); err != nil {
		return fmt.Errorf("export index: %w", err)
	}
	return nil
}

// Load reads an index saved with Save. A missing file is ENOINDEX rather
// than an empty index.
func (ix *Indexer) Load(ctx context.Context, dir string) (docrag.Index, error) {
	path := filepath.Join(dir, VectorsFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, docrag.Errorf(docrag.ENOINDEX, "no index found at %s", dir)
	} else if err != nil {
		return nil, err
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(path, ""); err != nil {
		return nil, fmt.Errorf("import index: %w", err)
	}
	col := db.GetCollection(collectionName, noTextQueries)
	if col == nil || col.Count() == 0 {
		return nil, docrag.Errorf(docrag.ENOINDEX, "index at %s is empty", dir)
	}

	first, err := col.GetByID(ctx, entryID(0))
	if err != nil {
		return nil, fmt.Errorf("read first entry: %w", err)
	}
	return &Index{db: db, col: col, dims: len(first.Embedding)}, nil
}

func toEntry(id, content string, md map[string]string, embedding []float32) *docrag.IndexEntry {
	pos, _ := strconv.Atoi(md[keyPosition])
	return &docrag.IndexEntry{
		ID:        id,
		Embedding: embedding,
		Content:   content,
		Metadata: docrag.IndexMetadata{
			SourceURL: md[keySourceURL],
			Title:     md[keyTitle],
			Heading:   md[keyHeading],
			Position:  pos,
		},
	}
}
