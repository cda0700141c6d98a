// Package rag ties crawling, indexing and answering together.
package rag

import (
	"context"
	"slices"
	"strings"

	"github.com/fwojciec/docrag"
)

// DefaultK is the number of chunks retrieved per question.
const DefaultK = 4

// Answerer answers questions from the chunks nearest to them.
type Answerer struct {
	Embedder docrag.Embedder
	Model    docrag.LanguageModel

	// Tokens and MaxContextTokens, when both set, cap the context size.
	Tokens           docrag.TokenCounter
	MaxContextTokens int

	K              int
	PromptTemplate string
}

// Answer embeds the question, retrieves the nearest chunks from idx and asks
// the language model. The returned history is history followed by the new
// question and answer.
func (a *Answerer) Answer(ctx context.Context, idx docrag.Index, question string, history []docrag.Message) (*docrag.Answer, error) {
	if idx == nil {
		return nil, docrag.Errorf(docrag.ENOINDEX, "index not loaded")
	}
	if strings.TrimSpace(question) == "" {
		return nil, docrag.Errorf(docrag.EINVALID, "question required")
	}

	query := docrag.FormatQuestion(question, history)
	vec, err := a.Embedder.Embed(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, docrag.Errorf(docrag.EEMBEDDING, "embedding question: %w", err)
	}

	results, err := idx.Search(ctx, vec, a.k())
	if err != nil {
		return nil, err
	}
	results, err = a.fit(ctx, results)
	if err != nil {
		return nil, err
	}

	prompt := docrag.RenderPrompt(a.template(), docrag.FormatContext(results), query)
	text, err := a.Model.Complete(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, docrag.Errorf(docrag.ESYNTHESIS, "generating answer: %w", err)
	}

	sources := Sources(results)
	turns := slices.Clone(history)
	turns = append(turns,
		docrag.Message{Role: docrag.RoleUser, Content: question},
		docrag.Message{Role: docrag.RoleAssistant, Content: text, Sources: sources},
	)
	return &docrag.Answer{Text: text, Sources: sources, History: turns}, nil
}

// fit drops trailing results once the context would exceed the token
// budget. The nearest result is always kept.
func (a *Answerer) fit(ctx context.Context, results []docrag.SearchResult) ([]docrag.SearchResult, error) {
	if a.Tokens == nil || a.MaxContextTokens <= 0 || len(results) < 2 {
		return results, nil
	}

	total := 0
	for i, r := range results {
		n, err := a.Tokens.CountTokens(ctx, r.Entry.Content)
		if err != nil {
			return nil, err
		}
		total += n
		if i > 0 && total > a.MaxContextTokens {
			return results[:i], nil
		}
	}
	return results, nil
}

func (a *Answerer) k() int {
	if a.K <= 0 {
		return DefaultK
	}
	return a.K
}

func (a *Answerer) template() string {
	if a.PromptTemplate == "" {
		return docrag.DefaultPromptTemplate
	}
	return a.PromptTemplate
}

// Sources returns the distinct source URLs of results in first-retrieved
// order.
func Sources(results []docrag.SearchResult) []string {
	seen := make(map[string]bool, len(results))
	out := make([]string, 0, len(results))
	for _, r := range results {
		u := r.Entry.Metadata.SourceURL
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
