// Package chromem implements the vector index on top of chromem-go.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fwojciec/docrag"
	chromem "github.com/philippgille/chromem-go"
	"golang.org/x/sync/errgroup"
)

// VectorsFile is the name of the exported vector database inside an index
// directory.
const VectorsFile = "vectors.gob.gz"

// DefaultConcurrency is the number of chunks embedded at once.
const DefaultConcurrency = 4

const collectionName = "chunks"

// Metadata keys stored with each chromem document.
const (
	keySourceURL = "source_url"
	keyTitle     = "title"
	keyHeading   = "heading"
	keyPosition  = "position"
)

var _ docrag.Indexer = (*Indexer)(nil)

// Indexer embeds chunks into chromem collections.
type Indexer struct {
	Embedder docrag.Embedder

	// Concurrency bounds parallel Embed calls. Defaults to
	// DefaultConcurrency.
	Concurrency int
}

// NewIndexer returns an Indexer using embedder.
func NewIndexer(embedder docrag.Embedder, concurrency int) *Indexer {
	return &Indexer{Embedder: embedder, Concurrency: concurrency}
}

// Build embeds every chunk and returns the resulting index. The build is
// all or nothing: the first embedding failure cancels the rest.
func (ix *Indexer) Build(ctx context.Context, chunks []*docrag.Chunk) (docrag.Index, error) {
	if len(chunks) == 0 {
		return nil, docrag.Errorf(docrag.ENODOCUMENTS, "no chunks to index")
	}

	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency())
	for i, c := range chunks {
		g.Go(func() error {
			vec, err := ix.Embedder.Embed(gctx, c.Content)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return docrag.Errorf(docrag.EEMBEDDING, "embedding chunk %d of %s: %w", c.Position, c.SourceURL, err)
			}
			if len(vec) == 0 || isZero(vec) {
				return docrag.Errorf(docrag.EEMBEDDING, "empty embedding for chunk %d of %s", c.Position, c.SourceURL)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dims := len(vectors[0])
	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) != dims {
			return nil, docrag.Errorf(docrag.EEMBEDDING, "embedding dimension %d differs from %d", len(vectors[i]), dims)
		}
		docs[i] = chromem.Document{
			ID:        entryID(i),
			Content:   c.Content,
			Embedding: vectors[i],
			Metadata: map[string]string{
				keySourceURL: c.SourceURL,
				keyTitle:     c.Title,
				keyHeading:   c.Heading,
				keyPosition:  strconv.Itoa(c.Position),
			},
		}
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, noTextQueries)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	if err := col.AddDocuments(ctx, docs, ix.concurrency()); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}
	return &Index{db: db, col: col, dims: dims}, nil
}

func (ix *Indexer) concurrency() int {
	if ix.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return ix.Concurrency
}

// noTextQueries is the collection's embedding function. Documents arrive
// embedded and queries arrive as vectors, so it is never expected to run.
func noTextQueries(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("text queries are not supported")
}

// entryID is the zero-padded insertion sequence number, so ordering IDs
// as strings orders entries by insertion.
func entryID(seq int) string {
	return fmt.Sprintf("%08d", seq)
}

func isZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
