// Package answer holds the response model of the question-answering path.
package answer

import (
	"github.com/kailas-cloud/policyqa/internal/domain/citation"
)

// Confidence is the overall confidence of an answer.
type Confidence string

// Answer confidences.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Canned texts of the assistant.
const (
	Disclaimer = "Please verify with HR for your specific employment contract and situation."

	NoDocumentsText       = "I couldn't find relevant information in our policy documents for your question. Please contact HR for specific guidance."
	NoDocumentsDisclaimer = "For policy questions not covered here, please email hr@abc-digital.com"

	DegradedText       = "I encountered a technical error while processing your question. Please try again or contact HR directly."
	DegradedDisclaimer = "Technical issue detected. If this persists, please contact IT support."
)

// Thresholds of the overall confidence heuristic.
const (
	highConfidenceMinChunks    = 3
	highConfidenceMinAnswerLen = 50
)

// Answer is the well-formed result of a question, including degraded results.
type Answer struct {
	Text          string              `json:"answer"`
	Citations     []citation.Citation `json:"citations"`
	PolicyMatches []string            `json:"policy_matches"`
	Confidence    Confidence          `json:"confidence"`
	Disclaimer    string              `json:"disclaimer"`
	Metadata      map[string]any      `json:"metadata"`
}

// ScoreConfidence rates an answer from the number of supporting chunks and the answer length.
func ScoreConfidence(retrieved, answerLen int) Confidence {
	switch {
	case retrieved >= highConfidenceMinChunks && answerLen > highConfidenceMinAnswerLen:
		return ConfidenceHigh
	case retrieved >= 1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// NoDocuments is the answer returned when retrieval finds nothing.
func NoDocuments(metadata map[string]any) Answer {
	return Answer{
		Text:          NoDocumentsText,
		Citations:     []citation.Citation{},
		PolicyMatches: []string{},
		Confidence:    ConfidenceLow,
		Disclaimer:    NoDocumentsDisclaimer,
		Metadata:      metadata,
	}
}

// Degraded is the answer returned when any step of the query path fails.
func Degraded(err error, metadata map[string]any) Answer {
	if metadata == nil {
		metadata = make(map[string]any, 1)
	}
	metadata["error"] = err.Error()
	return Answer{
		Text:          DegradedText,
		Citations:     []citation.Citation{},
		PolicyMatches: []string{},
		Confidence:    ConfidenceLow,
		Disclaimer:    DegradedDisclaimer,
		Metadata:      metadata,
	}
}
