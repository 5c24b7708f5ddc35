package index

import (
	"context"

	"github.com/kailas-cloud/policyqa/internal/db"
	"github.com/kailas-cloud/policyqa/internal/domain"
)

// Store defines the persistence contract of the chunk index.
type Store interface {
	Initialized(ctx context.Context) (bool, error)
	ReplaceAll(ctx context.Context, entries []db.Entry) error
	Nearest(ctx context.Context, vector []float32, k int) ([]db.Hit, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
