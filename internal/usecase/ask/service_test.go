package ask

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/domain"
	domanswer "github.com/kailas-cloud/policyqa/internal/domain/answer"
	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
	"github.com/kailas-cloud/policyqa/internal/metrics"
	"github.com/kailas-cloud/policyqa/internal/usecase/answer"
)

// --- Mocks ---

type mockRetriever struct {
	chunks []chunk.Scored
	err    error
	lastK  int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) ([]chunk.Scored, error) {
	m.lastK = k
	return m.chunks, m.err
}

type mockComposer struct {
	out    answer.Composition
	err    error
	called bool
	last   answer.Input
}

func (m *mockComposer) Compose(_ context.Context, in answer.Input) (answer.Composition, error) {
	m.called = true
	m.last = in
	return m.out, m.err
}

var testModels = Models{Chat: "gemini-2.0-flash", Embedding: "text-embedding-004"}

func hit(source, category, content string) chunk.Scored {
	return chunk.Scored{Chunk: chunk.Chunk{
		ID:      source + "#0",
		Content: content,
		Metadata: map[string]string{
			"source":   source,
			"title":    source + ".md",
			"category": category,
		},
	}, Score: 0.8}
}

const longAnswer = "Employees are entitled to twenty days of paid annual leave per calendar year."

// --- Tests ---

func TestAsk_Answered(t *testing.T) {
	ret := &mockRetriever{chunks: []chunk.Scored{
		hit("leave-policy", "Leave", "Annual leave is twenty days per calendar year for all employees."),
		hit("leave-policy", "Leave", "Unused leave can be carried over up to five days."),
		hit("benefits", "Benefits", "Leave encashment is part of the benefits package."),
	}}
	comp := &mockComposer{out: answer.Composition{Text: "  " + longAnswer + "\n", PromptTokens: 240}}
	svc := New(ret, comp, testModels, 0, zap.NewNop())

	got := svc.Ask(context.Background(), Request{Question: "How many leave days?", FollowUpContext: "earlier"})

	assert.Equal(t, DefaultTopK, ret.lastK)
	assert.Equal(t, "earlier", comp.last.FollowUp)
	assert.Equal(t, longAnswer, got.Text)
	assert.Equal(t, domanswer.ConfidenceHigh, got.Confidence)
	assert.Equal(t, domanswer.Disclaimer, got.Disclaimer)
	assert.Equal(t, []string{"Leave", "Benefits"}, got.PolicyMatches)
	require.Len(t, got.Citations, 3)
	assert.Equal(t, "leave-policy", got.Citations[0].DocID)

	assert.Equal(t, 3, got.Metadata["retrieved_docs"])
	assert.Equal(t, "gemini-2.0-flash", got.Metadata["model"])
	assert.Equal(t, "text-embedding-004", got.Metadata["embedding_model"])
	assert.Equal(t, 240, got.Metadata["prompt_tokens"])
	_, err := uuid.Parse(got.Metadata["answer_id"].(string))
	assert.NoError(t, err)
}

func TestAsk_TopKOverride(t *testing.T) {
	ret := &mockRetriever{chunks: []chunk.Scored{hit("a", "Leave", "x")}}
	svc := New(ret, &mockComposer{out: answer.Composition{Text: "short"}}, testModels, 0, zap.NewNop())

	got := svc.Ask(context.Background(), Request{Question: "q", TopK: 2})

	assert.Equal(t, 2, ret.lastK)
	assert.Equal(t, domanswer.ConfidenceMedium, got.Confidence)
}

func TestAsk_NoDocuments(t *testing.T) {
	comp := &mockComposer{}
	svc := New(&mockRetriever{}, comp, testModels, 5, zap.NewNop())

	got := svc.Ask(context.Background(), Request{Question: "q"})

	assert.False(t, comp.called)
	assert.Equal(t, domanswer.NoDocumentsText, got.Text)
	assert.Equal(t, domanswer.ConfidenceLow, got.Confidence)
	assert.Empty(t, got.Citations)
	assert.NotNil(t, got.Citations)
	assert.Equal(t, map[string]any{
		"retrieved_docs": 0,
		"model":          "gemini-2.0-flash",
		"response":       "no_documents_found",
	}, got.Metadata)
}

func TestAsk_BeforeIngestIsDegraded(t *testing.T) {
	before := testutil.ToFloat64(metrics.AnswersTotal.WithLabelValues("low", "degraded"))
	svc := New(&mockRetriever{err: domain.ErrIndexNotInitialized}, &mockComposer{}, testModels, 5, zap.NewNop())

	got := svc.Ask(context.Background(), Request{Question: "q"})

	assert.Equal(t, domanswer.DegradedText, got.Text)
	assert.Equal(t, domanswer.ConfidenceLow, got.Confidence)
	assert.Equal(t, domanswer.DegradedDisclaimer, got.Disclaimer)
	assert.Contains(t, got.Metadata["error"], "run ingestion first")
	assert.NotEmpty(t, got.Metadata["answer_id"])
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AnswersTotal.WithLabelValues("low", "degraded")))
}

func TestAsk_ComposeErrorIsDegraded(t *testing.T) {
	ret := &mockRetriever{chunks: []chunk.Scored{hit("a", "Leave", "x")}}
	comp := &mockComposer{err: errors.New("429 quota exceeded")}
	svc := New(ret, comp, testModels, 5, zap.NewNop())

	got := svc.Ask(context.Background(), Request{Question: "q"})

	assert.Equal(t, domanswer.ConfidenceLow, got.Confidence)
	assert.True(t, strings.Contains(got.Metadata["error"].(string), "429 quota exceeded"))
	assert.Empty(t, got.PolicyMatches)
}

func TestAsk_FiltersNeverApplied(t *testing.T) {
	ret := &mockRetriever{chunks: []chunk.Scored{hit("a", "Exit", "notice period")}}
	svc := New(ret, &mockComposer{out: answer.Composition{Text: "ok"}}, testModels, 5, zap.NewNop())

	got := svc.Ask(context.Background(), Request{Question: "q", Filters: map[string]any{"category": "Leave"}})

	assert.Equal(t, []string{"Exit"}, got.PolicyMatches)
}

func TestPolicyMatches_DefaultCategory(t *testing.T) {
	chunks := []chunk.Scored{
		{Chunk: chunk.Chunk{Content: "x"}},
		hit("b", "PoSH", "y"),
		{Chunk: chunk.Chunk{Content: "z", Metadata: map[string]string{}}},
	}
	assert.Equal(t, []string{"Policy", "PoSH"}, PolicyMatches(chunks))
}
