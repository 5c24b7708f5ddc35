package answer

import (
	"context"

	"github.com/kailas-cloud/policyqa/internal/domain"
)

// Chat completes a rendered prompt.
type Chat interface {
	Complete(ctx context.Context, prompt string) (domain.Completion, error)
}

// TokenCounter estimates the token length of a prompt.
type TokenCounter interface {
	Count(text string) int
}
