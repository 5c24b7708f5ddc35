package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// parseAPIError extracts a human-readable error from the API response and wraps it
// with the given domain sentinel for status mapping upstream.
func parseAPIError(kind string, err error, wrap error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("%s API error %d: %s: %w", kind, reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", kind, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("%s request failed: %v: %w", kind, err, wrap)
}

// extractDetail reads the error message from a JSON error body. Both the
// {"detail": "..."} and the Google-style [{"error": {"message": "..."}}] shapes are accepted.
func extractDetail(body []byte) string {
	var flat struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Detail != "" {
		return flat.Detail
	}

	var google []struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &google) == nil && len(google) > 0 && google[0].Error.Message != "" {
		return google[0].Error.Message
	}
	return ""
}
