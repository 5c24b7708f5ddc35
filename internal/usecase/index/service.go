// Package index embeds policy chunks and serves nearest-neighbour retrieval over them.
package index

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/db"
	"github.com/kailas-cloud/policyqa/internal/domain"
	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
)

// DefaultBatchSize is the number of chunks embedded per provider call.
const DefaultBatchSize = 100

// Service builds and queries the vector index.
type Service struct {
	store     Store
	embed     Embedder
	batchSize int
	logger    *zap.Logger
}

// New creates an index service. batchSize <= 0 selects DefaultBatchSize.
func New(store Store, embed Embedder, batchSize int, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{store: store, embed: embed, batchSize: batchSize, logger: logger}
}

// Ingest embeds every chunk and replaces the persisted index with them.
// Returns the number of chunks indexed.
func (s *Service) Ingest(ctx context.Context, chunks []chunk.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, domain.ErrNothingToIndex
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	res, err := domain.EmbedAll(ctx, s.embed, texts, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	entries := make([]db.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = db.Entry{
			ID:       c.ID,
			Ordinal:  i,
			Content:  c.Content,
			Metadata: c.Metadata,
			Vector:   res.Embeddings[i],
		}
	}

	if err := s.store.ReplaceAll(ctx, entries); err != nil {
		if errors.Is(err, db.ErrEmptyIndex) {
			return 0, domain.ErrNothingToIndex
		}
		return 0, fmt.Errorf("replace index: %w", err)
	}

	s.logger.Info("vector index rebuilt",
		zap.Int("chunks", len(entries)),
		zap.Int("dimensions", len(entries[0].Vector)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return len(entries), nil
}

// Retrieve returns up to k chunks nearest to query, best first.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]chunk.Scored, error) {
	ok, err := s.store.Initialized(ctx)
	if err != nil {
		return nil, fmt.Errorf("check index: %w", err)
	}
	if !ok {
		return nil, domain.ErrIndexNotInitialized
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Nearest(ctx, emb.Embedding, k)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, domain.ErrIndexNotInitialized
		}
		return nil, fmt.Errorf("nearest chunks: %w", err)
	}

	out := make([]chunk.Scored, len(hits))
	for i, h := range hits {
		out[i] = chunk.Scored{
			Chunk: chunk.Chunk{ID: h.ID, Content: h.Content, Metadata: h.Metadata},
			Score: h.Score,
		}
	}
	return out, nil
}
