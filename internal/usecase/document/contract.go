package document

import (
	"context"

	domdoc "github.com/kailas-cloud/policyqa/internal/domain/document"
)

// Repository defines the read contract of the metadata store.
type Repository interface {
	List(ctx context.Context) ([]domdoc.Record, error)
	Get(ctx context.Context, docID string) (domdoc.Record, error)
}
