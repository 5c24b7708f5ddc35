package chi

import (
	domanswer "github.com/kailas-cloud/policyqa/internal/domain/answer"
	domdoc "github.com/kailas-cloud/policyqa/internal/domain/document"
	"github.com/kailas-cloud/policyqa/internal/transport/api"
	askuc "github.com/kailas-cloud/policyqa/internal/usecase/ask"
	feedbackuc "github.com/kailas-cloud/policyqa/internal/usecase/feedback"
	ingestuc "github.com/kailas-cloud/policyqa/internal/usecase/ingest"
)

func askRequestFromAPI(req api.AskRequest) askuc.Request {
	out := askuc.Request{
		Question:        req.Question,
		TopK:            derefInt(req.TopK),
		FollowUpContext: derefString(req.FollowUpContext),
	}
	if req.Filters != nil {
		out.Filters = *req.Filters
	}
	return out
}

func answerToAPI(a domanswer.Answer) api.AskResponse {
	citations := make([]api.Citation, len(a.Citations))
	for i, c := range a.Citations {
		citations[i] = api.Citation{
			DocID:      c.DocID,
			Title:      c.Title,
			Section:    strPtrOrNil(c.Section),
			Snippet:    c.Snippet,
			Category:   c.Category,
			Confidence: string(c.Confidence),
		}
	}
	matches := a.PolicyMatches
	if matches == nil {
		matches = []string{}
	}
	return api.AskResponse{
		Answer:        a.Text,
		Citations:     citations,
		PolicyMatches: matches,
		Confidence:    string(a.Confidence),
		Disclaimer:    a.Disclaimer,
		Metadata:      a.Metadata,
	}
}

func ingestResultToAPI(r ingestuc.Result) api.IngestResponse {
	return api.IngestResponse{
		Status:             r.Status,
		DocumentsProcessed: r.DocumentsProcessed,
		ChunksCreated:      r.ChunksCreated,
		Message:            strPtrOrNil(r.Message),
		VectorStore:        strPtrOrNil(r.VectorStore),
		EmbeddingModel:     strPtrOrNil(r.EmbeddingModel),
	}
}

func documentToAPI(r domdoc.Record) api.DocumentMetadata {
	return api.DocumentMetadata{
		DocID:         r.DocID,
		Title:         r.Title,
		Category:      string(r.Category),
		Version:       r.Version,
		EffectiveDate: r.EffectiveDate,
		Region:        r.Region,
		Owner:         r.Owner,
		FilePath:      r.FilePath,
		IngestionTime: r.IngestionTime,
	}
}

func feedbackRequestFromAPI(req api.FeedbackRequest) feedbackuc.Request {
	return feedbackuc.Request{
		AnswerID: derefString(req.AnswerID),
		Question: req.Question,
		Helpful:  req.Helpful != nil && *req.Helpful,
		Comments: derefString(req.Comments),
	}
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
