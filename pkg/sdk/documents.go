package policyqa

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// ListDocuments returns the metadata of every ingested document.
func (c *Client) ListDocuments(ctx context.Context) (_ []DocumentMetadata, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list_documents", start, err) }()

	var docs []DocumentMetadata
	if err = c.do(ctx, http.MethodGet, "/documents", nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []DocumentMetadata{}
	}
	return docs, nil
}

// GetDocument returns one document's metadata.
// Returns an error matching ErrDocumentNotFound when the ID is unknown.
func (c *Client) GetDocument(ctx context.Context, docID string) (_ DocumentMetadata, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_document", start, err) }()

	if docID == "" {
		return DocumentMetadata{}, errors.New("policyqa: document ID required")
	}

	var doc DocumentMetadata
	if err = c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(docID), nil, &doc); err != nil {
		return DocumentMetadata{}, err
	}
	return doc, nil
}
