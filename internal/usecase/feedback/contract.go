package feedback

import (
	"context"

	domfb "github.com/kailas-cloud/policyqa/internal/domain/feedback"
)

// Repository appends feedback records.
type Repository interface {
	Append(ctx context.Context, rec domfb.Record) error
}
