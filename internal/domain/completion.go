package domain

import "context"

// Completer sends a single-turn prompt to a chat model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// Completion is the text returned by a chat model with its token usage.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
