// Package api defines the HTTP contract of the policy assistant: wire types,
// the server interface and the chi route table.
package api

// ErrorResponseCode is the machine-readable error code of an ErrorResponse.
type ErrorResponseCode string

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest             ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed       ErrorResponseCode = "validation_failed"
	ErrorResponseCodeDocumentNotFound       ErrorResponseCode = "document_not_found"
	ErrorResponseCodeIndexNotInitialized    ErrorResponseCode = "index_not_initialized"
	ErrorResponseCodeEmbeddingProviderError ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeChatProviderError      ErrorResponseCode = "chat_provider_error"
	ErrorResponseCodeMissingAPIKey          ErrorResponseCode = "missing_api_key"
	ErrorResponseCodeInternalError          ErrorResponseCode = "internal_error"
)

// HealthResponseStatus is the aggregated health status.
type HealthResponseStatus string

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusHealthy  HealthResponseStatus = "healthy"
	HealthResponseStatusDegraded HealthResponseStatus = "degraded"
)

// HealthResponseChecks is the outcome of one component check.
type HealthResponseChecks string

// Defines values for HealthResponseChecks.
const (
	HealthResponseChecksOk    HealthResponseChecks = "ok"
	HealthResponseChecksError HealthResponseChecks = "error"
)

// DocID is the document identifier path parameter.
type DocID = string

// AskRequest defines model for AskRequest.
type AskRequest struct {
	Question        string          `json:"question" validate:"required"`
	Filters         *map[string]any `json:"filters,omitempty"`
	TopK            *int            `json:"top_k,omitempty" validate:"omitempty,min=1,max=50"`
	FollowUpContext *string         `json:"follow_up_context,omitempty"`
}

// Citation defines model for Citation.
type Citation struct {
	DocID      string  `json:"doc_id"`
	Title      string  `json:"title"`
	Section    *string `json:"section"`
	Snippet    string  `json:"snippet"`
	Category   string  `json:"category"`
	Confidence string  `json:"confidence"`
}

// AskResponse defines model for AskResponse.
type AskResponse struct {
	Answer        string         `json:"answer"`
	Citations     []Citation     `json:"citations"`
	PolicyMatches []string       `json:"policy_matches"`
	Confidence    string         `json:"confidence"`
	Disclaimer    string         `json:"disclaimer"`
	Metadata      map[string]any `json:"metadata"`
}

// IngestResponse defines model for IngestResponse.
type IngestResponse struct {
	Status             string  `json:"status"`
	DocumentsProcessed int     `json:"documents_processed"`
	ChunksCreated      int     `json:"chunks_created"`
	Message            *string `json:"message,omitempty"`
	VectorStore        *string `json:"vector_store,omitempty"`
	EmbeddingModel     *string `json:"embedding_model,omitempty"`
}

// DocumentMetadata defines model for DocumentMetadata.
type DocumentMetadata struct {
	DocID         string `json:"doc_id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Version       string `json:"version"`
	EffectiveDate string `json:"effective_date"`
	Region        string `json:"region"`
	Owner         string `json:"owner"`
	FilePath      string `json:"file_path"`
	IngestionTime string `json:"ingestion_time"`
}

// FeedbackRequest defines model for FeedbackRequest.
type FeedbackRequest struct {
	AnswerID *string `json:"answer_id,omitempty"`
	Question string  `json:"question" validate:"required"`
	Helpful  *bool   `json:"helpful" validate:"required"`
	Comments *string `json:"comments,omitempty"`
}

// FeedbackResponse defines model for FeedbackResponse.
type FeedbackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status             HealthResponseStatus            `json:"status"`
	Service            string                          `json:"service"`
	ModelName          string                          `json:"model_name"`
	EmbeddingModelName string                          `json:"embedding_model_name"`
	Timestamp          int64                           `json:"timestamp"`
	Checks             map[string]HealthResponseChecks `json:"checks,omitempty"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}
