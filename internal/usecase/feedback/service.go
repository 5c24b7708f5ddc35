// Package feedback records user feedback on answers.
package feedback

import (
	"context"
	"fmt"
	"time"

	domfb "github.com/kailas-cloud/policyqa/internal/domain/feedback"
)

// Request is one piece of feedback as submitted.
type Request struct {
	AnswerID string
	Question string
	Helpful  bool
	Comments string
}

// Service stamps and stores feedback.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a feedback service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the clock used for timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit stamps the request with the current time and appends it.
func (s *Service) Submit(ctx context.Context, req Request) error {
	rec := domfb.Record{
		AnswerID:  req.AnswerID,
		Question:  req.Question,
		Helpful:   req.Helpful,
		Comments:  req.Comments,
		Timestamp: float64(s.now().UnixNano()) / float64(time.Second),
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}
