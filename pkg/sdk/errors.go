package policyqa

import (
	"fmt"

	"github.com/kailas-cloud/policyqa/internal/domain"
	"github.com/kailas-cloud/policyqa/internal/transport/api"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrIndexNotInitialized    = domain.ErrIndexNotInitialized
	ErrMissingAPIKey          = domain.ErrMissingAPIKey
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrChatProviderError      = domain.ErrChatProviderError
)

var sentinelByCode = map[api.ErrorResponseCode]error{
	api.ErrorResponseCodeDocumentNotFound:       ErrDocumentNotFound,
	api.ErrorResponseCodeIndexNotInitialized:    ErrIndexNotInitialized,
	api.ErrorResponseCodeMissingAPIKey:          ErrMissingAPIKey,
	api.ErrorResponseCodeEmbeddingProviderError: ErrEmbeddingProviderError,
	api.ErrorResponseCodeChatProviderError:      ErrChatProviderError,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("policyqa: http %d", e.StatusCode)
	}
	return fmt.Sprintf("policyqa: http %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is matches the sentinel error for the response code.
func (e *APIError) Is(target error) bool {
	s, ok := sentinelByCode[api.ErrorResponseCode(e.Code)]
	return ok && s == target
}
