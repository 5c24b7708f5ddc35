// Package document serves the catalog of ingested policy documents.
package document

import (
	"context"
	"fmt"

	domdoc "github.com/kailas-cloud/policyqa/internal/domain/document"
)

// Service lists and looks up document records.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every ingested record in ingestion order, duplicates included.
func (s *Service) List(ctx context.Context) ([]domdoc.Record, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return recs, nil
}

// Get returns the first record with docID, or domain.ErrDocumentNotFound.
func (s *Service) Get(ctx context.Context, docID string) (domdoc.Record, error) {
	rec, err := s.repo.Get(ctx, docID)
	if err != nil {
		return domdoc.Record{}, fmt.Errorf("get document: %w", err)
	}
	return rec, nil
}
