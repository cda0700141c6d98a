package docrag

import "strings"

// DefaultPromptTemplate is used when no template is configured.
const DefaultPromptTemplate = `Use the following pieces of documentation to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

{context}

Question: {question}
Answer:`

// Prompt template placeholders.
const (
	ContextPlaceholder  = "{context}"
	QuestionPlaceholder = "{question}"
)

// FormatContext joins retrieved chunk texts in retrieval order, separated
// by blank lines.
func FormatContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Entry.Content)
	}
	return strings.Join(parts, "\n\n")
}

// FormatQuestion folds the conversation history into the question as one
// "role: content" line per turn followed by "User: question". Without
// history the question is returned unchanged.
func FormatQuestion(question string, history []Message) string {
	if len(history) == 0 {
		return question
	}

	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(question)
	return b.String()
}

// RenderPrompt substitutes the context and question into template.
func RenderPrompt(template, context, question string) string {
	return strings.NewReplacer(
		ContextPlaceholder, context,
		QuestionPlaceholder, question,
	).Replace(template)
}

// ValidatePromptTemplate returns ECONFIG unless template contains both
// placeholders.
func ValidatePromptTemplate(template string) error {
	for _, p := range []string{ContextPlaceholder, QuestionPlaceholder} {
		if !strings.Contains(template, p) {
			return Errorf(ECONFIG, "prompt template must contain %s", p)
		}
	}
	return nil
}
