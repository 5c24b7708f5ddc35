// Package feedback is the write-only sink for answer feedback.
package feedback

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/policyqa/internal/domain/feedback"
	"github.com/kailas-cloud/policyqa/internal/repository/jsonl"
)

// Repo appends feedback records as JSON Lines.
type Repo struct {
	file *jsonl.File
}

// New creates a feedback repository backed by the file at path.
func New(path string) *Repo {
	return &Repo{file: jsonl.New(path)}
}

// Append persists one record.
func (r *Repo) Append(_ context.Context, rec feedback.Record) error {
	if err := r.file.Append(rec); err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	return nil
}
