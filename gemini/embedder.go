package gemini

import (
	"context"

	"github.com/fwojciec/docrag"
	"google.golang.org/genai"
)

var _ docrag.Embedder = (*Embedder)(nil)

// Embedder embeds text with a Gemini embedding model.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder returns an Embedder for model.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, docrag.Errorf(docrag.EINTERNAL, "gemini returned no embedding")
	}
	return resp.Embeddings[0].Values, nil
}
