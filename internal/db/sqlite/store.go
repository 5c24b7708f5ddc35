// Package sqlite is the default single-file vector index backend.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kailas-cloud/policyqa/internal/db"
	"github.com/kailas-cloud/policyqa/internal/db/sqlite/migrations"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps chunks, their vectors and the embedding cache in one SQLite file.
// Search is an exact cosine scan over every stored vector.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore opens (or creates) the database at path and applies pending migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes writers; readers see either the old or the new index.
	conn.SetMaxOpenConns(1)

	s := &Store{db: conn, path: path, now: time.Now}
	if err := s.migrate(migrations.FS); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Driver implements db.Store.
func (s *Store) Driver() string { return "sqlite" }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Ping checks that the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

// Initialized reports whether ReplaceAll has ever completed.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM index_state`).Scan(&n); err != nil {
		return false, &db.Error{Op: db.OpQuery, Err: err}
	}
	return n > 0, nil
}

// ReplaceAll swaps the whole index in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, entries []db.Entry) (err error) {
	if len(entries) == 0 {
		return db.ErrEmptyIndex
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpReplace, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return &db.Error{Op: db.OpReplace, Err: err}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, ordinal, content, metadata, vector) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return &db.Error{Op: db.OpReplace, Err: err}
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		meta, mErr := json.Marshal(e.Metadata)
		if mErr != nil {
			err = fmt.Errorf("marshal metadata %s: %w", e.ID, mErr)
			return err
		}
		if _, err = stmt.ExecContext(ctx, e.ID, e.Ordinal, e.Content, string(meta), db.EncodeVector(e.Vector)); err != nil {
			return &db.Error{Op: db.OpReplace, Err: fmt.Errorf("chunk %s: %w", e.ID, err)}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO index_state (id, built_at, dimensions, entries) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			built_at = excluded.built_at,
			dimensions = excluded.dimensions,
			entries = excluded.entries
	`, s.now().UTC().Format(time.RFC3339Nano), len(entries[0].Vector), len(entries))
	if err != nil {
		return &db.Error{Op: db.OpReplace, Err: err}
	}

	if err = tx.Commit(); err != nil {
		return &db.Error{Op: db.OpReplace, Err: err}
	}
	return nil
}

// Nearest scans every chunk and returns the k most similar. Ties keep insertion order.
func (s *Store) Nearest(ctx context.Context, vector []float32, k int) ([]db.Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}
	ok, err := s.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, db.ErrIndexNotFound
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, ordinal, content, metadata, vector FROM chunks ORDER BY seq`)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var hits []db.Hit
	for rows.Next() {
		var (
			h    db.Hit
			meta string
			blob []byte
		)
		if err := rows.Scan(&h.ID, &h.Ordinal, &h.Content, &meta, &blob); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		v, err := db.DecodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", h.ID, err)
		}
		if err := json.Unmarshal([]byte(meta), &h.Metadata); err != nil {
			return nil, fmt.Errorf("chunk %s metadata: %w", h.ID, err)
		}
		h.Score = db.Cosine(vector, v)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Get reads a cached value.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM embedding_cache WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return v, nil
}

// Set writes a cached value, replacing any previous one.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embedding_cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// migrate runs all pending numbered migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
