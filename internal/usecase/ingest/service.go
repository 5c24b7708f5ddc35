// Package ingest rebuilds the policy index from the policies directory.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/domain"
	"github.com/kailas-cloud/policyqa/internal/metrics"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusInfo    = "info"
	StatusError   = "error"
)

// Result messages.
const (
	MessageDirCreated  = "Policies directory created. Please add policy files and run ingestion again."
	MessageNoDocuments = "No documents found to ingest"
	MessageNoChunks    = "No text could be extracted from the policy documents"
)

// Result is the outcome of one ingestion run.
type Result struct {
	Status             string `json:"status"`
	DocumentsProcessed int    `json:"documents_processed"`
	ChunksCreated      int    `json:"chunks_created"`
	Message            string `json:"message,omitempty"`
	VectorStore        string `json:"vector_store,omitempty"`
	EmbeddingModel     string `json:"embedding_model,omitempty"`
}

// Config holds ingestion settings.
type Config struct {
	PoliciesDir    string
	VectorStore    string
	EmbeddingModel string
}

// Service runs ingestion: load, record metadata, chunk, index.
type Service struct {
	loader   Loader
	meta     MetadataWriter
	splitter Splitter
	indexer  Indexer
	cfg      Config
	logger   *zap.Logger
}

// New creates an ingestion service.
func New(loader Loader, meta MetadataWriter, splitter Splitter, indexer Indexer, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		loader:   loader,
		meta:     meta,
		splitter: splitter,
		indexer:  indexer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run ingests every supported file of the policies directory and replaces the index.
// A missing directory is created and reported with StatusInfo.
func (s *Service) Run(ctx context.Context) (Result, error) {
	res, err := s.run(ctx)
	if err != nil {
		metrics.IngestionsTotal.WithLabelValues("failed").Inc()
		return Result{}, err
	}
	metrics.IngestionsTotal.WithLabelValues(res.Status).Inc()
	return res, nil
}

func (s *Service) run(ctx context.Context) (Result, error) {
	if _, err := os.Stat(s.cfg.PoliciesDir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(s.cfg.PoliciesDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create policies directory: %w", err)
		}
		s.logger.Info("policies directory created", zap.String("dir", s.cfg.PoliciesDir))
		return Result{Status: StatusInfo, Message: MessageDirCreated}, nil
	} else if err != nil {
		return Result{}, fmt.Errorf("stat policies directory: %w", err)
	}

	docs, err := s.loader.Load(ctx, s.cfg.PoliciesDir)
	if err != nil {
		return Result{}, fmt.Errorf("load policies: %w", err)
	}
	if len(docs) == 0 {
		return Result{Status: StatusError, Message: MessageNoDocuments}, nil
	}

	for _, d := range docs {
		if err := s.meta.Append(ctx, d.Record); err != nil {
			return Result{}, fmt.Errorf("record metadata: %w", err)
		}
	}

	chunks := s.splitter.SplitDocuments(docs)
	s.logger.Info("policies split",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
	)

	n, err := s.indexer.Ingest(ctx, chunks)
	if errors.Is(err, domain.ErrNothingToIndex) {
		return Result{Status: StatusError, DocumentsProcessed: len(docs), Message: MessageNoChunks}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("index chunks: %w", err)
	}

	metrics.IndexedChunks.Set(float64(n))
	return Result{
		Status:             StatusSuccess,
		DocumentsProcessed: len(docs),
		ChunksCreated:      n,
		VectorStore:        s.cfg.VectorStore,
		EmbeddingModel:     s.cfg.EmbeddingModel,
	}, nil
}
