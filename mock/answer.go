package mock

import (
	"context"

	"github.com/fwojciec/docrag"
)

var (
	_ docrag.LanguageModel = (*LanguageModel)(nil)
	_ docrag.TokenCounter  = (*TokenCounter)(nil)
	_ docrag.Asker         = (*Asker)(nil)
)

// LanguageModel is a mock implementation of docrag.LanguageModel.
type LanguageModel struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
}

func (m *LanguageModel) Complete(ctx context.Context, prompt string) (string, error) {
	return m.CompleteFn(ctx, prompt)
}

// TokenCounter is a mock implementation of docrag.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}

// Asker is a mock implementation of docrag.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, history []docrag.Message) (*docrag.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string, history []docrag.Message) (*docrag.Answer, error) {
	return a.AskFn(ctx, question, history)
}
