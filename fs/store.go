package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/fwojciec/docrag"
)

var _ docrag.IndexStore = (*IndexStore)(nil)

// IndexStore keeps the committed index at Path.
//
// Save builds the full directory at Path.tmp and only then swaps it in, so
// a failed build leaves the previous index as it was.
type IndexStore struct {
	Path    string
	Indexer docrag.Indexer
	Catalog docrag.Catalog

	mu sync.Mutex
}

// NewIndexStore returns an IndexStore for the directory at path.
func NewIndexStore(path string, indexer docrag.Indexer, catalog docrag.Catalog) *IndexStore {
	return &IndexStore{Path: path, Indexer: indexer, Catalog: catalog}
}

func (s *IndexStore) tempDir() string { return s.Path + ".tmp" }
func (s *IndexStore) oldDir() string  { return s.Path + ".old" }

// Save replaces the committed index with idx and docs.
func (s *IndexStore) Save(ctx context.Context, idx docrag.Index, docs []*docrag.Document) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.tempDir()
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = s.abort()
		}
	}()

	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return err
	}
	if err := idx.Save(tmp); err != nil {
		return err
	}
	if err := s.Catalog.WriteDocuments(ctx, tmp, docs); err != nil {
		return err
	}
	if err := writePages(tmp, docs); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit()
}

// Load opens the committed index.
func (s *IndexStore) Load(ctx context.Context) (docrag.Index, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, fs.ErrNotExist) {
		return nil, docrag.Errorf(docrag.ENOINDEX, "no index at %s", s.Path)
	}
	return s.Indexer.Load(ctx, s.Path)
}

// Documents lists the documents of the committed index by position.
func (s *IndexStore) Documents(ctx context.Context) ([]*docrag.Document, error) {
	return s.Catalog.ReadDocuments(ctx, s.Path)
}

// commit moves the staged directory into place. The previous index is set
// aside first and restored if the final rename fails.
func (s *IndexStore) commit() error {
	old := s.oldDir()
	if err := os.RemoveAll(old); err != nil {
		return err
	}

	hadPrevious := true
	if err := os.Rename(s.Path, old); errors.Is(err, fs.ErrNotExist) {
		hadPrevious = false
	} else if err != nil {
		return err
	}

	if err := os.Rename(s.tempDir(), s.Path); err != nil {
		if hadPrevious {
			_ = os.Rename(old, s.Path)
		}
		return err
	}
	return os.RemoveAll(old)
}

func (s *IndexStore) abort() error {
	return os.RemoveAll(s.tempDir())
}
