// Package ask orchestrates the question-answering path: retrieve, compose, cite.
package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domanswer "github.com/kailas-cloud/policyqa/internal/domain/answer"
	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
	"github.com/kailas-cloud/policyqa/internal/domain/citation"
	"github.com/kailas-cloud/policyqa/internal/logger"
	"github.com/kailas-cloud/policyqa/internal/metrics"
	"github.com/kailas-cloud/policyqa/internal/usecase/answer"
)

// DefaultTopK is the number of chunks retrieved when the request does not say.
const DefaultTopK = 5

const defaultCategory = "Policy"

// Answer outcomes recorded in metrics.
const (
	outcomeAnswered    = "answered"
	outcomeNoDocuments = "no_documents"
	outcomeDegraded    = "degraded"
)

// Request is one question.
type Request struct {
	Question        string
	Filters         map[string]any
	TopK            int
	FollowUpContext string
}

// Models names the models reported in answer metadata.
type Models struct {
	Chat      string
	Embedding string
}

// Service answers questions from the policy index.
type Service struct {
	retriever   Retriever
	composer    Composer
	models      Models
	defaultTopK int
	logger      *zap.Logger
}

// New creates an ask service. defaultTopK <= 0 selects DefaultTopK.
func New(retriever Retriever, composer Composer, models Models, defaultTopK int, logger *zap.Logger) *Service {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &Service{
		retriever:   retriever,
		composer:    composer,
		models:      models,
		defaultTopK: defaultTopK,
		logger:      logger,
	}
}

// Ask always returns a well-formed answer. Failures become a degraded answer
// carrying the error text in its metadata.
func (s *Service) Ask(ctx context.Context, req Request) domanswer.Answer {
	answerID := uuid.NewString()
	log := logger.FromContextOr(ctx, s.logger).With(zap.String("answer_id", answerID))

	if len(req.Filters) > 0 {
		log.Info("filters ignored", zap.Any("filters", req.Filters))
	}

	res, outcome, err := s.answer(ctx, req, answerID)
	if err != nil {
		log.Error("question failed", zap.Error(err))
		res = domanswer.Degraded(err, map[string]any{"answer_id": answerID})
		outcome = outcomeDegraded
	}

	metrics.AnswersTotal.WithLabelValues(string(res.Confidence), outcome).Inc()
	return res
}

func (s *Service) answer(ctx context.Context, req Request, answerID string) (domanswer.Answer, string, error) {
	k := req.TopK
	if k <= 0 {
		k = s.defaultTopK
	}

	chunks, err := s.retriever.Retrieve(ctx, req.Question, k)
	if err != nil {
		return domanswer.Answer{}, "", fmt.Errorf("retrieve: %w", err)
	}
	if len(chunks) == 0 {
		return domanswer.NoDocuments(map[string]any{
			"retrieved_docs": 0,
			"model":          s.models.Chat,
			"response":       "no_documents_found",
		}), outcomeNoDocuments, nil
	}

	comp, err := s.composer.Compose(ctx, answer.Input{
		Question: req.Question,
		FollowUp: req.FollowUpContext,
		Chunks:   chunks,
	})
	if err != nil {
		return domanswer.Answer{}, "", fmt.Errorf("compose: %w", err)
	}

	text := strings.TrimSpace(comp.Text)
	return domanswer.Answer{
		Text:          text,
		Citations:     citation.Extract(chunks),
		PolicyMatches: PolicyMatches(chunks),
		Confidence:    domanswer.ScoreConfidence(len(chunks), len(text)),
		Disclaimer:    domanswer.Disclaimer,
		Metadata: map[string]any{
			"retrieved_docs":  len(chunks),
			"model":           s.models.Chat,
			"embedding_model": s.models.Embedding,
			"answer_id":       answerID,
			"prompt_tokens":   comp.PromptTokens,
		},
	}, outcomeAnswered, nil
}

// PolicyMatches returns the distinct categories of chunks in first-seen order.
func PolicyMatches(chunks []chunk.Scored) []string {
	seen := make(map[string]struct{}, len(chunks))
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		cat := c.Category()
		if cat == "" {
			cat = defaultCategory
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}
