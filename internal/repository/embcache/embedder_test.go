package embcache

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/db"
	"github.com/kailas-cloud/policyqa/internal/domain"
)

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, kv := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	first, err := ce.Embed(ctx, "Employees get 20 days annual leave.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10 on miss, got %d", first.TotalTokens)
	}
	if len(kv.sets) != 1 {
		t.Fatalf("expected 1 cache put, got %d", len(kv.sets))
	}

	second, err := ce.Embed(ctx, "Employees get 20 days annual leave.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.TotalTokens != 0 {
		t.Errorf("expected TotalTokens=0 on hit, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[2] != 0.3 {
		t.Errorf("unexpected cached vector %v", second.Embedding)
	}
}

func TestEmbed_KeyNamespacedByModel(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	kv := newMemKV()
	ctx := context.Background()

	a := New(inner, kv, "model-a", nil, zap.NewNop())
	b := New(inner, kv, "model-b", nil, zap.NewNop())
	if _, err := a.Embed(ctx, "same text"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Embed(ctx, "same text"); err != nil {
		t.Fatal(err)
	}

	if len(kv.sets) != 2 || kv.sets[0] == kv.sets[1] {
		t.Fatalf("expected two distinct keys, got %v", kv.sets)
	}
	if !strings.HasPrefix(kv.sets[0], cacheKeyPrefix+"model-a:") {
		t.Errorf("unexpected key %q", kv.sets[0])
	}
}

func TestEmbed_InnerError(t *testing.T) {
	providerErr := errors.New("provider down")
	ce, _ := newTestCachedEmbedder(t, &mockEmbedder{err: providerErr})

	_, err := ce.Embed(context.Background(), "text")
	if !errors.Is(err, providerErr) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestEmbed_StoreErrorIsAMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.7}, TotalTokens: 2}}
	ce, kv := newTestCachedEmbedder(t, inner)
	kv.getErr = &db.Error{Op: db.OpGet, Err: errors.New("connection reset")}

	res, err := ce.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("store failure must not fail the embed: %v", err)
	}
	if res.TotalTokens != 2 {
		t.Errorf("expected provider result, got %+v", res)
	}
}

func TestBatchEmbed_MixedHitsMisses(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.5},
		PromptTokens: 3,
		TotalTokens:  3,
	}}
	ce, kv := newTestCachedEmbedder(t, inner)
	kv.data[ce.cacheKey("hit")] = db.EncodeVector([]float32{0.9})

	res, err := ce.BatchEmbed(context.Background(), []string{"miss1", "hit", "miss2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.Embeddings[1][0] != 0.9 {
		t.Errorf("expected cached vec for index 1, got %v", res.Embeddings[1])
	}
	if res.Embeddings[0][0] != 0.5 || res.Embeddings[2][0] != 0.5 {
		t.Errorf("expected inner vec for misses, got %v, %v", res.Embeddings[0], res.Embeddings[2])
	}
	if inner.batchCalls != 1 || len(inner.batchTexts[0]) != 2 {
		t.Errorf("expected one batch call with the 2 misses, got %v", inner.batchTexts)
	}
	if res.TotalTokens != 6 {
		t.Errorf("expected TotalTokens=6 (2 misses * 3), got %d", res.TotalTokens)
	}
}

func TestBatchEmbed_AllHits(t *testing.T) {
	inner := &mockEmbedder{}
	ce, kv := newTestCachedEmbedder(t, inner)
	kv.data[ce.cacheKey("a")] = db.EncodeVector([]float32{0.1})
	kv.data[ce.cacheKey("b")] = db.EncodeVector([]float32{0.2})

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 0 {
		t.Errorf("expected no provider calls, got %d", inner.batchCalls)
	}
	if res.Embeddings[1][0] != 0.2 {
		t.Errorf("unexpected embeddings %v", res.Embeddings)
	}
}

func TestBatchEmbed_InnerError(t *testing.T) {
	ce, _ := newTestCachedEmbedder(t, &mockEmbedder{batchErr: errors.New("api down")})

	if _, err := ce.BatchEmbed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error from inner batch embedder")
	}
}

func TestBatchEmbed_Empty(t *testing.T) {
	ce, _ := newTestCachedEmbedder(t, &mockEmbedder{})

	res, err := ce.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Embeddings != nil {
		t.Errorf("expected nil for empty input")
	}
}

func TestCacheCounter(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ce := New(inner, newMemKV(), "m", counter, zap.NewNop())
	ctx := context.Background()

	for range 3 {
		if _, err := ce.Embed(ctx, "x"); err != nil {
			t.Fatal(err)
		}
	}

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 2 {
		t.Errorf("hit = %v, want 2", got)
	}
}
