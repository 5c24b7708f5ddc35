package index

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/db"
	"github.com/kailas-cloud/policyqa/internal/domain"
	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
)

// --- Mocks ---

type mockStore struct {
	initialized bool
	initErr     error
	replaceErr  error
	replaced    []db.Entry
	hits        []db.Hit
	nearestErr  error
	lastK       int
	lastVec     []float32
}

func (m *mockStore) Initialized(_ context.Context) (bool, error) { return m.initialized, m.initErr }

func (m *mockStore) ReplaceAll(_ context.Context, entries []db.Entry) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = entries
	m.initialized = true
	return nil
}

func (m *mockStore) Nearest(_ context.Context, vec []float32, k int) ([]db.Hit, error) {
	m.lastK = k
	m.lastVec = vec
	return m.hits, m.nearestErr
}

type mockEmbedder struct {
	err        error
	batchErr   error
	batchSizes []int
	embedCalls int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.embedCalls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{float32(len(text)), 1}}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

func testChunks(n int) []chunk.Chunk {
	out := make([]chunk.Chunk, n)
	for i := range out {
		out[i] = chunk.Chunk{
			ID:       chunk.ID("leave-policy", i),
			Content:  "chunk content",
			Metadata: map[string]string{"source": "leave-policy", "category": "Leave"},
		}
	}
	return out
}

// --- Tests ---

func TestIngest_ReplacesIndexInBatches(t *testing.T) {
	store := &mockStore{}
	emb := &mockEmbedder{}
	svc := New(store, emb, 2, zap.NewNop())

	n, err := svc.Ingest(context.Background(), testChunks(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 indexed, got %d", n)
	}
	if len(store.replaced) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(store.replaced))
	}
	wantBatches := []int{2, 2, 1}
	if len(emb.batchSizes) != len(wantBatches) {
		t.Fatalf("expected batches %v, got %v", wantBatches, emb.batchSizes)
	}
	for i, b := range wantBatches {
		if emb.batchSizes[i] != b {
			t.Errorf("batch %d: expected %d, got %d", i, b, emb.batchSizes[i])
		}
	}
	for i, e := range store.replaced {
		if e.ID != chunk.ID("leave-policy", i) {
			t.Errorf("entry %d: unexpected id %q", i, e.ID)
		}
		if e.Ordinal != i {
			t.Errorf("entry %d: unexpected ordinal %d", i, e.Ordinal)
		}
		if len(e.Vector) != 2 {
			t.Errorf("entry %d: expected vector, got %v", i, e.Vector)
		}
		if e.Metadata["category"] != "Leave" {
			t.Errorf("entry %d: metadata lost", i)
		}
	}
}

func TestIngest_Empty(t *testing.T) {
	store := &mockStore{}
	svc := New(store, &mockEmbedder{}, 0, zap.NewNop())

	_, err := svc.Ingest(context.Background(), nil)
	if !errors.Is(err, domain.ErrNothingToIndex) {
		t.Fatalf("expected ErrNothingToIndex, got %v", err)
	}
	if store.replaced != nil {
		t.Error("store should not be touched")
	}
}

func TestIngest_EmbeddingError(t *testing.T) {
	store := &mockStore{}
	svc := New(store, &mockEmbedder{batchErr: domain.ErrEmbeddingProviderError}, 0, zap.NewNop())

	_, err := svc.Ingest(context.Background(), testChunks(2))
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if store.replaced != nil {
		t.Error("index must not be replaced when embedding fails")
	}
}

func TestIngest_StoreError(t *testing.T) {
	boom := errors.New("disk full")
	svc := New(&mockStore{replaceErr: boom}, &mockEmbedder{}, 0, zap.NewNop())

	_, err := svc.Ingest(context.Background(), testChunks(1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestRetrieve_NotInitialized(t *testing.T) {
	emb := &mockEmbedder{}
	svc := New(&mockStore{}, emb, 0, zap.NewNop())

	_, err := svc.Retrieve(context.Background(), "leave", 5)
	if !errors.Is(err, domain.ErrIndexNotInitialized) {
		t.Fatalf("expected ErrIndexNotInitialized, got %v", err)
	}
	if emb.embedCalls != 0 {
		t.Error("query should not be embedded before the index exists")
	}
}

func TestRetrieve_IndexVanished(t *testing.T) {
	svc := New(&mockStore{initialized: true, nearestErr: db.ErrIndexNotFound}, &mockEmbedder{}, 0, zap.NewNop())

	_, err := svc.Retrieve(context.Background(), "leave", 5)
	if !errors.Is(err, domain.ErrIndexNotInitialized) {
		t.Fatalf("expected ErrIndexNotInitialized, got %v", err)
	}
}

func TestRetrieve_ConvertsHits(t *testing.T) {
	store := &mockStore{
		initialized: true,
		hits: []db.Hit{
			{ID: "leave-policy#0", Content: "Annual leave", Metadata: map[string]string{"source": "leave-policy"}, Score: 0.9},
			{ID: "exit-policy#1", Content: "Notice period", Metadata: map[string]string{"source": "exit-policy"}, Score: 0.4},
		},
	}
	svc := New(store, &mockEmbedder{}, 0, zap.NewNop())

	got, err := svc.Retrieve(context.Background(), "leave", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastK != 3 {
		t.Errorf("expected k=3, got %d", store.lastK)
	}
	if len(store.lastVec) != 2 {
		t.Errorf("expected query vector, got %v", store.lastVec)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].ID != "leave-policy#0" || got[0].Score != 0.9 || got[0].Source() != "leave-policy" {
		t.Errorf("unexpected first chunk: %+v", got[0])
	}
}

func TestRetrieve_EmbedError(t *testing.T) {
	svc := New(&mockStore{initialized: true}, &mockEmbedder{err: domain.ErrMissingAPIKey}, 0, zap.NewNop())

	_, err := svc.Retrieve(context.Background(), "leave", 5)
	if !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
