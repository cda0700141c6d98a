// Package openai provides the language model and embedder backed by the
// OpenAI API.
package openai

import (
	"context"

	"github.com/fwojciec/docrag"
	openai "github.com/sashabaranov/go-openai"
)

// NewClient returns an OpenAI client. An empty baseURL uses the public
// endpoint; any OpenAI compatible server works otherwise.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, docrag.Errorf(docrag.ECONFIG, "openai API key required (set OPENAI_API_KEY)")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg), nil
}

var _ docrag.LanguageModel = (*LanguageModel)(nil)

// LanguageModel completes prompts with the Chat Completions API.
type LanguageModel struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewLanguageModel returns a LanguageModel for model.
func NewLanguageModel(client *openai.Client, model string, temperature float32) *LanguageModel {
	return &LanguageModel{client: client, model: model, temperature: temperature}
}

// Complete sends prompt as a single user message.
func (m *LanguageModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		Temperature: m.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", docrag.Errorf(docrag.EINTERNAL, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ docrag.Embedder = (*Embedder)(nil)

// Embedder embeds text with an OpenAI embedding model.
type Embedder struct {
	client *openai.Client
	model  string
}

// NewEmbedder returns an Embedder for model.
func NewEmbedder(client *openai.Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != 1 {
		return nil, docrag.Errorf(docrag.EINTERNAL, "openai returned %d embeddings, expected 1", len(resp.Data))
	}
	return resp.Data[0].Embedding, nil
}
