package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/domain"
	domanswer "github.com/kailas-cloud/policyqa/internal/domain/answer"
	domdoc "github.com/kailas-cloud/policyqa/internal/domain/document"
	"github.com/kailas-cloud/policyqa/internal/transport/api"
	askuc "github.com/kailas-cloud/policyqa/internal/usecase/ask"
	feedbackuc "github.com/kailas-cloud/policyqa/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/policyqa/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/policyqa/internal/usecase/ingest"
)

const maxBodyBytes = 1 << 20

// Asker answers questions. It never fails; failures are degraded answers.
type Asker interface {
	Ask(ctx context.Context, req askuc.Request) domanswer.Answer
}

// Ingester rebuilds the index from the policies directory.
type Ingester interface {
	Run(ctx context.Context) (ingestuc.Result, error)
}

// DocumentCatalog reads ingested document records.
type DocumentCatalog interface {
	List(ctx context.Context) ([]domdoc.Record, error)
	Get(ctx context.Context, docID string) (domdoc.Record, error)
}

// FeedbackSink stores answer feedback.
type FeedbackSink interface {
	Submit(ctx context.Context, req feedbackuc.Request) error
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Services groups the use cases served over HTTP.
type Services struct {
	Ask       Asker
	Ingest    Ingester
	Documents DocumentCatalog
	Feedback  FeedbackSink
	Health    HealthChecker
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements api.ServerInterface.
type Server struct {
	svc           Services
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	s := &Server{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, api.ErrorResponseCodeDocumentNotFound),
		sentinelHandler(domain.ErrIndexNotInitialized, http.StatusConflict, api.ErrorResponseCodeIndexNotInitialized),
		sentinelHandler(domain.ErrMissingAPIKey, http.StatusInternalServerError, api.ErrorResponseCodeMissingAPIKey),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, api.ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, api.ErrorResponseCodeChatProviderError),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]api.HealthResponseChecks, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = api.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status:             api.HealthResponseStatus(report.Status),
		Service:            report.Service,
		ModelName:          report.ModelName,
		EmbeddingModelName: report.EmbeddingModelName,
		Timestamp:          report.Timestamp,
		Checks:             checks,
	})
}

// Ask handles POST /ask. Any validated request gets 200, degraded answers included.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req api.AskRequest
	if !s.decode(w, r, &req) {
		return
	}

	ans := s.svc.Ask.Ask(r.Context(), askRequestFromAPI(req))
	if ans.Metadata == nil {
		ans.Metadata = make(map[string]any, 1)
	}
	ans.Metadata["latency_ms"] = time.Since(start).Milliseconds()

	writeJSON(w, http.StatusOK, answerToAPI(ans))
}

// Ingest handles POST /ingest.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Ingest.Run(r.Context())
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("ingestion failed: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, ingestResultToAPI(res))
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.Documents.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]api.DocumentMetadata, len(recs))
	for i, rec := range recs {
		items[i] = documentToAPI(rec)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetDocument handles GET /documents/{doc_id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request, docID api.DocID) {
	rec, err := s.svc.Documents.Get(r.Context(), docID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToAPI(rec))
}

// SubmitFeedback handles POST /feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req api.FeedbackRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.svc.Feedback.Submit(r.Context(), feedbackRequestFromAPI(req)); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FeedbackResponse{Status: "success", Message: "Feedback recorded"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed, validationMessage(err))
		return false
	}
	return true
}

// validationMessage flattens validator errors into "field: tag" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag()))
	}
	return strings.Join(parts, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrIndexNotInitialized,
		domain.ErrMissingAPIKey,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalError, "internal error")
}
