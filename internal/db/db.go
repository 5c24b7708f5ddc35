package db

import (
	"context"
)

// Store is the persistence facade for one vector index backend.
type Store interface {
	VectorStore
	KVStore
	// Driver names the backend ("sqlite", "redis").
	Driver() string
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Entry is one embedded chunk to persist.
type Entry struct {
	ID       string
	Ordinal  int
	Content  string
	Metadata map[string]string
	Vector   []float32
}

// Hit is a stored chunk ranked by similarity to a query vector (higher is closer).
type Hit struct {
	ID       string
	Ordinal  int
	Content  string
	Metadata map[string]string
	Score    float64
}

// VectorStore persists the chunk index and answers nearest-neighbour queries.
type VectorStore interface {
	Pinger
	// Initialized reports whether an index has ever been persisted.
	Initialized(ctx context.Context) (bool, error)
	// ReplaceAll discards the current index and persists entries in its place.
	ReplaceAll(ctx context.Context, entries []Entry) error
	// Nearest returns up to k hits ordered by descending score.
	// Returns ErrIndexNotFound when nothing has been persisted.
	Nearest(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Close()
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
