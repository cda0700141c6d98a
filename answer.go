package docrag

import "context"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Sources []string `json:"sources,omitempty"`
}

// Answer is a synthesized answer with the pages it drew on.
type Answer struct {
	Text string `json:"answer"`

	// Sources are the distinct source URLs of the retrieved chunks in
	// first-retrieved order.
	Sources []string `json:"sources"`

	// History is the input history followed by the new question and answer.
	History []Message `json:"conversation_history"`
}

// LanguageModel completes a prompt.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Asker answers natural language questions over the loaded index.
type Asker interface {
	// Ask answers question in the context of history. Returns ENOINDEX if
	// no index is loaded.
	Ask(ctx context.Context, question string, history []Message) (*Answer, error)
}
