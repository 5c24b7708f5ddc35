package ingest

import (
	"context"

	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
	"github.com/kailas-cloud/policyqa/internal/domain/document"
)

// Loader reads policy files from a directory.
type Loader interface {
	Load(ctx context.Context, dir string) ([]document.Loaded, error)
}

// MetadataWriter appends document records.
type MetadataWriter interface {
	Append(ctx context.Context, rec document.Record) error
}

// Splitter cuts documents into chunks.
type Splitter interface {
	SplitDocuments(docs []document.Loaded) []chunk.Chunk
}

// Indexer replaces the vector index with the given chunks.
type Indexer interface {
	Ingest(ctx context.Context, chunks []chunk.Chunk) (int, error)
}
