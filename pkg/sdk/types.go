package policyqa

import "github.com/kailas-cloud/policyqa/internal/transport/api"

// Wire types shared with the server.
type (
	AskRequest       = api.AskRequest
	AskResponse      = api.AskResponse
	Citation         = api.Citation
	IngestResponse   = api.IngestResponse
	DocumentMetadata = api.DocumentMetadata
	FeedbackRequest  = api.FeedbackRequest
	FeedbackResponse = api.FeedbackResponse
	HealthResponse   = api.HealthResponse
)

// Health status values.
const (
	StatusHealthy  = string(api.HealthResponseStatusHealthy)
	StatusDegraded = string(api.HealthResponseStatusDegraded)
)
