package rag

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/docrag"
)

var _ docrag.Asker = (*Service)(nil)

// IndexSummary describes a completed index build.
type IndexSummary struct {
	Documents int           `json:"documents"`
	Chunks    int           `json:"chunks"`
	Bytes     int           `json:"bytes"`
	Duration  time.Duration `json:"duration"`
}

// Service builds, loads and queries the documentation index.
//
// Building and answering may run concurrently; answers use whichever index
// was loaded when they started.
type Service struct {
	Crawler  docrag.Crawler
	Splitter docrag.Splitter
	Indexer  docrag.Indexer
	Store    docrag.IndexStore
	Answerer *Answerer

	// Seeds are crawled when Index is called without seeds.
	Seeds []string

	Logger *slog.Logger

	mu    sync.RWMutex
	index docrag.Index
}

// Index crawls seeds, chunks and embeds every page and commits the result
// as the new index. On failure the committed index is unchanged.
func (s *Service) Index(ctx context.Context, seeds []string) (*IndexSummary, error) {
	begin := time.Now()
	if len(seeds) == 0 {
		seeds = s.Seeds
	}
	if len(seeds) == 0 {
		return nil, docrag.Errorf(docrag.ECONFIG, "no seed URLs to crawl")
	}

	docs, err := s.Crawler.Crawl(ctx, seeds)
	if err != nil {
		return nil, err
	}

	var chunks []*docrag.Chunk
	var size int
	for _, doc := range docs {
		size += len(doc.Content)
		cs, err := s.Splitter.Split(doc)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, cs...)
	}
	s.logger().Info("chunked documents", "documents", len(docs), "chunks", len(chunks))

	idx, err := s.Indexer.Build(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, idx, docs); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	summary := &IndexSummary{Documents: len(docs), Chunks: len(chunks), Bytes: size, Duration: time.Since(begin)}
	s.logger().Info("index committed",
		"documents", summary.Documents,
		"chunks", summary.Chunks,
		"duration", summary.Duration,
	)
	return summary, nil
}

// LoadIndex loads the committed index. Returns ENOINDEX if none exists.
func (s *Service) LoadIndex(ctx context.Context) error {
	idx, err := s.Store.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	s.logger().Info("index loaded", "entries", idx.Len())
	return nil
}

// Loaded reports whether an index is loaded.
func (s *Service) Loaded() bool {
	return s.current() != nil
}

// Ask answers question against the loaded index.
func (s *Service) Ask(ctx context.Context, question string, history []docrag.Message) (*docrag.Answer, error) {
	return s.Answerer.Answer(ctx, s.current(), question, history)
}

// Documents lists the documents of the committed index.
func (s *Service) Documents(ctx context.Context) ([]*docrag.Document, error) {
	return s.Store.Documents(ctx)
}

func (s *Service) current() docrag.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
