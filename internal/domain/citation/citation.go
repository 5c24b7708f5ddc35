// Package citation derives lightweight source pointers from retrieved chunks.
package citation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
)

const (
	headingWindow  = 100
	snippetLength  = 250
	truncateMarker = "..."
	// contentLengthForHigh is the content length above which a citation is rated "high".
	contentLengthForHigh = 50
)

// Heading lines: a Markdown heading, a numbered item, or a capitalized label ending in a colon.
var headingRegex = regexp.MustCompile(`(?m)^(#+\s+.+|\d+\.\s+.+|[A-Z][^.!?]*:)$`)

// Confidence is the heuristic confidence of a single citation.
type Confidence string

// Citation confidences.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// Citation points from an answer back to the chunk that supports it.
type Citation struct {
	DocID      string     `json:"doc_id"`
	Title      string     `json:"title"`
	Section    string     `json:"section,omitempty"`
	Snippet    string     `json:"snippet"`
	Category   string     `json:"category"`
	Confidence Confidence `json:"confidence"`
}

// Extract builds one citation per chunk, in order.
func Extract(chunks []chunk.Scored) []Citation {
	out := make([]Citation, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, FromChunk(c.Chunk))
	}
	return out
}

// FromChunk builds the citation of a single chunk.
func FromChunk(c chunk.Chunk) Citation {
	content := strings.TrimSpace(c.Content)

	confidence := ConfidenceMedium
	if utf8.RuneCountInString(content) > contentLengthForHigh {
		confidence = ConfidenceHigh
	}

	return Citation{
		DocID:      valueOr(c.Metadata, "source", "Unknown"),
		Title:      valueOr(c.Metadata, "title", "Unknown"),
		Section:    Section(content),
		Snippet:    Snippet(content),
		Category:   valueOr(c.Metadata, "category", "Policy"),
		Confidence: confidence,
	}
}

// Section returns the first heading-like line within the first 100 characters, or "".
func Section(content string) string {
	m := headingRegex.FindString(prefix(content, headingWindow))
	return strings.TrimSpace(m)
}

// Snippet returns the first 250 characters, marked when truncated.
func Snippet(content string) string {
	if utf8.RuneCountInString(content) <= snippetLength {
		return content
	}
	return prefix(content, snippetLength) + truncateMarker
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func valueOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return fallback
}
