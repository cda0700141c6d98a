// Package gemini provides the language model, embedder and token counter
// backed by Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/docrag"
	"google.golang.org/genai"
)

// SystemInstruction keeps answers grounded in the retrieved context.
const SystemInstruction = "You are a helpful assistant answering questions about software documentation. Answer based only on the documentation provided. If the answer is not in the documentation, say so."

// NewClient returns a Gemini API client. An empty baseURL uses the public
// endpoint.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, docrag.Errorf(docrag.ECONFIG, "gemini API key required (set GEMINI_API_KEY)")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	return genai.NewClient(ctx, cfg)
}
