package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/docrag"
)

var (
	_ docrag.Fetcher       = (*Fetcher)(nil)
	_ docrag.Embedder      = (*Embedder)(nil)
	_ docrag.LanguageModel = (*LanguageModel)(nil)
	_ docrag.Asker         = (*Asker)(nil)
)

// Fetcher counts and times fetches.
type Fetcher struct {
	next docrag.Fetcher
	m    *Metrics
}

// NewFetcher wraps next.
func NewFetcher(next docrag.Fetcher, m *Metrics) *Fetcher {
	return &Fetcher{next: next, m: m}
}

// Fetch delegates to the wrapped fetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	f.m.FetchDuration.Observe(time.Since(begin).Seconds())
	f.m.FetchesTotal.WithLabelValues(result(err)).Inc()
	return html, err
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}

// Embedder counts and times embedding calls.
type Embedder struct {
	next docrag.Embedder
	m    *Metrics
}

// NewEmbedder wraps next.
func NewEmbedder(next docrag.Embedder, m *Metrics) *Embedder {
	return &Embedder{next: next, m: m}
}

// Embed delegates to the wrapped embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	begin := time.Now()
	vec, err := e.next.Embed(ctx, text)
	e.m.EmbedDuration.Observe(time.Since(begin).Seconds())
	e.m.EmbeddingsTotal.WithLabelValues(result(err)).Inc()
	return vec, err
}

// LanguageModel counts and times completions.
type LanguageModel struct {
	next docrag.LanguageModel
	m    *Metrics
}

// NewLanguageModel wraps next.
func NewLanguageModel(next docrag.LanguageModel, m *Metrics) *LanguageModel {
	return &LanguageModel{next: next, m: m}
}

// Complete delegates to the wrapped model.
func (l *LanguageModel) Complete(ctx context.Context, prompt string) (string, error) {
	begin := time.Now()
	reply, err := l.next.Complete(ctx, prompt)
	l.m.CompletionDuration.Observe(time.Since(begin).Seconds())
	l.m.CompletionsTotal.WithLabelValues(result(err)).Inc()
	return reply, err
}

// Asker counts questions by outcome and times answers.
type Asker struct {
	next docrag.Asker
	m    *Metrics
}

// NewAsker wraps next.
func NewAsker(next docrag.Asker, m *Metrics) *Asker {
	return &Asker{next: next, m: m}
}

// Ask delegates to the wrapped asker.
func (a *Asker) Ask(ctx context.Context, question string, history []docrag.Message) (*docrag.Answer, error) {
	begin := time.Now()
	ans, err := a.next.Ask(ctx, question, history)
	a.m.AnswerDuration.Observe(time.Since(begin).Seconds())
	a.m.QuestionsTotal.WithLabelValues(questionResult(err)).Inc()
	return ans, err
}
