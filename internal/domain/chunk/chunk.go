package chunk

import "strconv"

// Chunk is a bounded text window cut from one policy document; the unit that is indexed and retrieved.
type Chunk struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Scored is a retrieved chunk with its similarity to the query (higher is closer).
type Scored struct {
	Chunk
	Score float64 `json:"score"`
}

// ID builds the chunk identifier "<doc_id>#<ordinal>".
func ID(docID string, ordinal int) string {
	return docID + "#" + strconv.Itoa(ordinal)
}

// Source returns the id of the parent document, or "" when unknown.
func (c Chunk) Source() string { return c.Metadata["source"] }

// Category returns the category of the parent document, or "" when unknown.
func (c Chunk) Category() string { return c.Metadata["category"] }
