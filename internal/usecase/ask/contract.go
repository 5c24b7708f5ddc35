package ask

import (
	"context"

	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
	"github.com/kailas-cloud/policyqa/internal/usecase/answer"
)

// Retriever finds the chunks nearest to a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]chunk.Scored, error)
}

// Composer generates the answer text from retrieved chunks.
type Composer interface {
	Compose(ctx context.Context, in answer.Input) (answer.Composition, error)
}
