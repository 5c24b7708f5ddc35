// Package loader reads policy files from a directory into documents ready for chunking.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/domain/document"
)

// extractFunc turns a file into plain text.
type extractFunc func(path string) (string, error)

// Loader scans a policies directory. It is stateless apart from its collaborators.
type Loader struct {
	logger     *zap.Logger
	now        func() time.Time
	extractors map[string]extractFunc
}

// Option configures a Loader.
type Option func(*Loader)

// WithClock overrides the ingestion clock.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// New creates a loader for .txt, .md and .pdf files.
func New(logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		logger: logger,
		now:    time.Now,
		extractors: map[string]extractFunc{
			".txt": readText,
			".md":  readText,
			".pdf": readPDF,
		},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Supported reports whether files with the given name can be loaded.
func (l *Loader) Supported(name string) bool {
	_, ok := l.extractors[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Load returns one document per supported, readable file directly under dir, ordered by
// file name. A missing directory yields no documents. Files that cannot be read are
// skipped with a warning.
func (l *Loader) Load(ctx context.Context, dir string) ([]document.Loaded, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policies dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	now := l.now()
	var docs []document.Loaded
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load policies: %w", err)
		}
		if !e.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, e.Name())
		extract, ok := l.extractors[strings.ToLower(filepath.Ext(e.Name()))]
		if !ok {
			l.logger.Warn("unsupported policy file skipped", zap.String("path", path))
			continue
		}

		text, err := extract(path)
		if err != nil {
			l.logger.Warn("policy file skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			l.logger.Warn("policy file has no text", zap.String("path", path))
			continue
		}

		rec := document.NewRecord(path, now)
		l.logger.Debug("policy file loaded",
			zap.String("doc_id", rec.DocID),
			zap.String("category", string(rec.Category)),
			zap.Int("chars", len(text)),
		)
		docs = append(docs, document.Loaded{Record: rec, Content: text})
	}
	return docs, nil
}

func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(b), nil
}
