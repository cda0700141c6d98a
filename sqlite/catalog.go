package sqlite

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/docrag"
)

// CatalogFile is the name of the catalog database inside an index directory.
const CatalogFile = "documents.db"

var _ docrag.Catalog = (*Catalog)(nil)

// Catalog keeps the documents behind an index in a SQLite file inside the
// index directory, so the directory stays self-contained.
type Catalog struct {
	Now func() time.Time
}

// NewCatalog returns a Catalog.
func NewCatalog() *Catalog {
	return &Catalog{Now: time.Now}
}

// WriteDocuments replaces the catalog in dir with docs in one transaction.
func (c *Catalog) WriteDocuments(ctx context.Context, dir string, docs []*docrag.Document) error {
	db := NewDB(filepath.Join(dir, CatalogFile))
	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return err
	}
	svc := NewDocumentService(tx)
	svc.Now = c.now
	for _, doc := range docs {
		if err := svc.CreateDocument(ctx, doc); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReadDocuments returns the documents in dir's catalog by position.
// Returns ENOINDEX if dir has no catalog.
func (c *Catalog) ReadDocuments(ctx context.Context, dir string) ([]*docrag.Document, error) {
	path := filepath.Join(dir, CatalogFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, docrag.Errorf(docrag.ENOINDEX, "no document catalog in %s", dir)
	} else if err != nil {
		return nil, err
	}

	db := NewDB(path)
	if err := db.Open(); err != nil {
		return nil, err
	}
	defer db.Close()

	return NewDocumentService(db).FindDocuments(ctx, docrag.DocumentFilter{SortBy: docrag.SortByPosition})
}

func (c *Catalog) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
