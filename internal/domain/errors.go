package domain

import "errors"

var (
	// ErrDocumentNotFound signals an unknown document id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrIndexNotInitialized signals a query against a vector index that was never built.
	ErrIndexNotInitialized = errors.New("vector index not initialized, run ingestion first")
	// ErrNothingToIndex signals an ingestion that produced no chunks.
	ErrNothingToIndex = errors.New("nothing to index")
	// ErrMissingAPIKey signals that the model provider credential is not configured.
	ErrMissingAPIKey = errors.New("model provider API key is not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)
