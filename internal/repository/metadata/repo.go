// Package metadata persists ingested document records as JSON Lines.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/domain"
	"github.com/kailas-cloud/policyqa/internal/domain/document"
	"github.com/kailas-cloud/policyqa/internal/repository/jsonl"
)

var errFound = errors.New("found")

// Repo is the append-only document metadata store.
// Re-ingesting a file appends a second record with the same id.
type Repo struct {
	file   *jsonl.File
	logger *zap.Logger
}

// New creates a metadata repository backed by the file at path.
func New(path string, logger *zap.Logger) *Repo {
	return &Repo{file: jsonl.New(path), logger: logger}
}

// Append persists one record.
func (r *Repo) Append(_ context.Context, rec document.Record) error {
	if err := r.file.Append(rec); err != nil {
		return fmt.Errorf("append document %s: %w", rec.DocID, err)
	}
	return nil
}

// List returns every record in insertion order. Malformed lines are skipped with a warning.
func (r *Repo) List(ctx context.Context) ([]document.Record, error) {
	recs := []document.Record{}
	err := r.scan(ctx, func(rec document.Record) error {
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Get returns the first record with the given id.
func (r *Repo) Get(ctx context.Context, docID string) (document.Record, error) {
	var found document.Record
	err := r.scan(ctx, func(rec document.Record) error {
		if rec.DocID == docID {
			found = rec
			return errFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errFound):
		return found, nil
	case err != nil:
		return document.Record{}, err
	default:
		return document.Record{}, domain.ErrDocumentNotFound
	}
}

func (r *Repo) scan(ctx context.Context, fn func(document.Record) error) error {
	err := r.file.Scan(func(n int, line []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var rec document.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			r.logger.Warn("malformed metadata line skipped",
				zap.String("path", r.file.Path()),
				zap.Int("line", n),
				zap.Error(err),
			)
			return nil
		}
		return fn(rec)
	})
	if err != nil && !errors.Is(err, errFound) {
		return fmt.Errorf("read metadata: %w", err)
	}
	return err
}
