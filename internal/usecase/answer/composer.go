// Package answer turns retrieved policy chunks into a grounded chat completion.
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
)

// Input is one question with its retrieved context.
type Input struct {
	Question string
	FollowUp string
	Chunks   []chunk.Scored
}

// Composition is the generated answer text with the estimated prompt size.
type Composition struct {
	Text         string
	PromptTokens int
}

// Composer renders the prompt and asks the chat model for an answer. No retries.
type Composer struct {
	chat    Chat
	counter TokenCounter
	logger  *zap.Logger
}

// NewComposer creates a composer. counter can be nil.
func NewComposer(chat Chat, counter TokenCounter, logger *zap.Logger) *Composer {
	return &Composer{chat: chat, counter: counter, logger: logger}
}

// Compose generates the answer for in.
func (c *Composer) Compose(ctx context.Context, in Input) (Composition, error) {
	prompt := RenderPrompt(in.Question, in.FollowUp, in.Chunks)

	tokens := 0
	if c.counter != nil {
		tokens = c.counter.Count(prompt)
	}

	out, err := c.chat.Complete(ctx, prompt)
	if err != nil {
		return Composition{}, fmt.Errorf("complete: %w", err)
	}
	if tokens == 0 {
		tokens = out.PromptTokens
	}

	c.logger.Debug("answer composed",
		zap.Int("chunks", len(in.Chunks)),
		zap.Int("prompt_tokens", tokens),
		zap.Int("answer_len", len(out.Text)),
	)
	return Composition{Text: out.Text, PromptTokens: tokens}, nil
}
