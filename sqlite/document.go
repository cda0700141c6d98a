package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docrag"
	"github.com/google/uuid"
)

const documentColumns = "id, source_url, title, content, content_hash, depth, position, fetched_at"

// Executor runs statements against a database or inside a transaction.
// Both *DB and *sql.Tx satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DocumentService stores and queries catalog rows.
type DocumentService struct {
	db Executor

	// Now returns the time recorded for documents without a FetchedAt.
	Now func() time.Time
}

// NewDocumentService returns a DocumentService backed by db, which may be
// an open transaction.
func NewDocumentService(db Executor) *DocumentService {
	return &DocumentService{db: db, Now: time.Now}
}

// hashContent matches the hex xxhash64 the crawler records.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// CreateDocument stores doc. ID, ContentHash and FetchedAt are filled in
// when empty, so crawled documents keep the values the crawler gave them.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *docrag.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	prepareDocument(doc, s.Now)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents ("+documentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		documentArgs(doc)...)
	if isConstraintErr(err) {
		return docrag.Errorf(docrag.EINVALID, "document %s already exists", doc.SourceURL)
	}
	return err
}

// FindDocuments retrieves documents matching the filter.
func (s *DocumentService) FindDocuments(ctx context.Context, filter docrag.DocumentFilter) ([]*docrag.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents WHERE 1=1")
	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	switch filter.SortBy {
	case docrag.SortByPosition:
		query.WriteString(" ORDER BY position ASC")
	default:
		query.WriteString(" ORDER BY fetched_at DESC, position ASC")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*docrag.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func prepareDocument(doc *docrag.Document, now func() time.Time) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.ContentHash == "" {
		doc.ContentHash = hashContent(doc.Content)
	}
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = now().UTC()
	}
}

func documentArgs(doc *docrag.Document) []any {
	return []any{doc.ID, doc.SourceURL, doc.Title, doc.Content, doc.ContentHash,
		doc.Depth, doc.Position, formatTime(doc.FetchedAt)}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*docrag.Document, error) {
	var doc docrag.Document
	var fetchedAt string
	if err := row.Scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.Content,
		&doc.ContentHash, &doc.Depth, &doc.Position, &fetchedAt); err != nil {
		return nil, err
	}
	t, err := parseTime(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	doc.FetchedAt = t
	return &doc, nil
}

func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
