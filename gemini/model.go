package gemini

import (
	"context"

	"github.com/fwojciec/docrag"
	"google.golang.org/genai"
)

var _ docrag.LanguageModel = (*LanguageModel)(nil)

// LanguageModel completes prompts with a Gemini model.
type LanguageModel struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewLanguageModel returns a LanguageModel for model.
func NewLanguageModel(client *genai.Client, model string, temperature float32) *LanguageModel {
	return &LanguageModel{client: client, model: model, temperature: temperature}
}

// Complete sends prompt as a single user turn.
func (m *LanguageModel) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := m.client.Models.GenerateContent(ctx, m.model,
		genai.Text(prompt),
		m.Config(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docrag.Errorf(docrag.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// Config returns the generation config sent with every prompt.
func (m *LanguageModel) Config() *genai.GenerateContentConfig {
	temp := m.temperature
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       &temp,
	}
}
