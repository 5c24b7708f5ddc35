package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/chunker"
	"github.com/kailas-cloud/policyqa/internal/config"
	"github.com/kailas-cloud/policyqa/internal/db"
	dbRedis "github.com/kailas-cloud/policyqa/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/policyqa/internal/db/sqlite"
	"github.com/kailas-cloud/policyqa/internal/domain"
	"github.com/kailas-cloud/policyqa/internal/loader"
	"github.com/kailas-cloud/policyqa/internal/metrics"
	"github.com/kailas-cloud/policyqa/internal/repository/embcache"
	feedbackrepo "github.com/kailas-cloud/policyqa/internal/repository/feedback"
	"github.com/kailas-cloud/policyqa/internal/repository/metadata"
	chiTransport "github.com/kailas-cloud/policyqa/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/policyqa/internal/transport/openai"
	answeruc "github.com/kailas-cloud/policyqa/internal/usecase/answer"
	askuc "github.com/kailas-cloud/policyqa/internal/usecase/ask"
	documentuc "github.com/kailas-cloud/policyqa/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/policyqa/internal/usecase/embedding"
	feedbackuc "github.com/kailas-cloud/policyqa/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/policyqa/internal/usecase/health"
	indexuc "github.com/kailas-cloud/policyqa/internal/usecase/index"
	ingestuc "github.com/kailas-cloud/policyqa/internal/usecase/ingest"
)

// app is the composition root shared by serve and ingest.
type app struct {
	store   db.Store
	ingest  *ingestuc.Service
	handler http.Handler
}

func (a *app) Close() {
	a.store.Close()
}

// newApp wires every component from cfg. The caller must Close the app.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	for _, dir := range []string{
		cfg.Storage.Dir,
		cfg.Storage.PoliciesDir,
		filepath.Dir(cfg.Storage.MetadataFile),
		filepath.Dir(cfg.Storage.FeedbackFile),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	metrics.RegisterModelMetrics()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := openaiTransport.Config{
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		Provider:   cfg.Provider.Name,
		Timeout:    cfg.ProviderTimeout(),
		Logger:     logger,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	}
	embedder := buildEmbedder(&provider, cfg.CacheEmbeddings(), store, logger)

	chatCfg := openaiTransport.ChatConfig{
		Config:      provider,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	}
	chatCfg.Model = cfg.Generation.Model
	chat := openaiTransport.NewChat(&chatCfg)

	logger.Info("Model provider configured",
		zap.String("provider", cfg.Provider.Name),
		zap.String("chat_model", cfg.Generation.Model),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Bool("embedding_cache", cfg.CacheEmbeddings()),
	)

	splitter, err := chunker.New(chunker.Config{Size: cfg.Chunking.Size, Overlap: cfg.Chunking.Overlap})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create splitter: %w", err)
	}

	metaRepo := metadata.New(cfg.Storage.MetadataFile, logger)
	composer := answeruc.NewComposer(chat, answeruc.NewTiktokenCounter(cfg.Generation.TokenEncoding, logger), logger)

	indexSvc := indexuc.New(store, embedder, cfg.Embedding.BatchSize, logger)
	askSvc := askuc.New(indexSvc, composer, askuc.Models{
		Chat:      cfg.Generation.Model,
		Embedding: cfg.Embedding.Model,
	}, cfg.Retrieval.TopK, logger)
	ingestSvc := ingestuc.New(loader.New(logger), metaRepo, splitter, indexSvc, ingestuc.Config{
		PoliciesDir:    cfg.Storage.PoliciesDir,
		VectorStore:    store.Driver(),
		EmbeddingModel: cfg.Embedding.Model,
	}, logger)
	docSvc := documentuc.New(metaRepo)
	feedbackSvc := feedbackuc.New(feedbackrepo.New(cfg.Storage.FeedbackFile))

	// Pass a nil interface, not a typed nil, when probing is off.
	var probe healthuc.ProviderChecker
	if cfg.Health.ProbeProvider {
		probe = chat
	}
	healthSvc := healthuc.New(store, probe, healthuc.Models{
		Chat:      cfg.Generation.Model,
		Embedding: cfg.Embedding.Model,
	})

	server := chiTransport.NewServer(chiTransport.Services{
		Ask:       askSvc,
		Ingest:    ingestSvc,
		Documents: docSvc,
		Feedback:  feedbackSvc,
		Health:    healthSvc,
	}, logger)

	return &app{
		store:   store,
		ingest:  ingestSvc,
		handler: chiTransport.NewRouter(server, logger),
	}, nil
}

// openStore creates the vector index backend selected by index.driver.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.Store, error) {
	switch cfg.Index.Driver {
	case config.DriverSQLite:
		store, err := dbSQLite.NewStore(cfg.Index.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite index: %w", err)
		}
		logger.Info("Opened vector index", zap.String("driver", store.Driver()), zap.String("path", store.Path()))
		return store, nil
	case config.DriverRedis:
		rc := cfg.Index.Redis
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     rc.Addrs,
			Password:  rc.Password,
			IndexName: rc.IndexName,
			KeyPrefix: rc.KeyPrefix,
			Algorithm: db.VectorAlgorithm(rc.Algorithm),
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(rc.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to vector index", zap.String("driver", store.Driver()), zap.Strings("addrs", rc.Addrs))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown index driver %q", cfg.Index.Driver)
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildEmbedder(cfg *openaiTransport.Config, cache bool, store db.KVStore, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(cfg)

	var embedder domain.Embedder = base
	if cache {
		embedder = embcache.New(base, store, cfg.Model, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger)
}
