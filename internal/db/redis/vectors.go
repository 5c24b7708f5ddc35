package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/policyqa/internal/db"
)

// Hash fields of one stored chunk.
const (
	fieldChunkID  = "chunk_id"
	fieldDocID    = "doc_id"
	fieldOrdinal  = "ordinal"
	fieldContent  = "content"
	fieldMetadata = "metadata"
	fieldVector   = "vector"
)

// Initialized reports whether the chunk index exists.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	return s.IndexExists(ctx, s.index)
}

// ReplaceAll drops the index and every chunk hash under the key prefix, recreates the
// index for the entries' dimension and writes the entries. The swap is not atomic:
// a concurrent query may see an empty or partially written index.
func (s *Store) ReplaceAll(ctx context.Context, entries []db.Entry) error {
	if len(entries) == 0 {
		return db.ErrEmptyIndex
	}

	if err := s.DropIndex(ctx, s.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index: %w", err)
	}
	keys, err := s.scan(ctx, s.prefix+"*")
	if err != nil {
		return fmt.Errorf("list chunks: %w", err)
	}
	if err := s.delMulti(ctx, keys); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}

	def, err := s.chunkIndex(len(entries[0].Vector))
	if err != nil {
		return err
	}
	if err := s.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	items := make([]hashItem, len(entries))
	for i, e := range entries {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata %s: %w", e.ID, err)
		}
		items[i] = hashItem{
			Key: s.prefix + e.ID,
			Fields: map[string]string{
				fieldChunkID:  e.ID,
				fieldDocID:    e.Metadata["doc_id"],
				fieldOrdinal:  strconv.Itoa(e.Ordinal),
				fieldContent:  e.Content,
				fieldMetadata: string(meta),
				fieldVector:   string(db.EncodeVector(e.Vector)),
			},
		}
	}
	return s.hsetMulti(ctx, items)
}

// Nearest runs a KNN query against the chunk index.
func (s *Store) Nearest(ctx context.Context, vector []float32, k int) ([]db.Hit, error) {
	res, err := s.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    s.index,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{fieldChunkID, fieldOrdinal, fieldContent, fieldMetadata, scoreField},
	})
	if err != nil {
		return nil, err
	}

	hits := make([]db.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hit := db.Hit{
			ID:      e.Fields[fieldChunkID],
			Content: e.Fields[fieldContent],
			Score:   e.Score,
		}
		if hit.ID == "" {
			hit.ID = e.Key[min(len(s.prefix), len(e.Key)):]
		}
		hit.Ordinal, _ = strconv.Atoi(e.Fields[fieldOrdinal])
		if raw := e.Fields[fieldMetadata]; raw != "" {
			if err := json.Unmarshal([]byte(raw), &hit.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata %s: %w", e.Key, err)
			}
		}
		hits = append(hits, hit)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

func (s *Store) chunkIndex(dim int) (*db.IndexDefinition, error) {
	b := db.NewIndex(s.index).
		Prefix(s.prefix).
		Tag(fieldDocID).
		Numeric(fieldOrdinal)
	if s.algo == db.VectorFlat {
		b = b.VectorFlat(fieldVector, dim, db.DistanceCosine, 0)
	} else {
		b = b.VectorHNSW(fieldVector, dim, db.DistanceCosine, 16, 200)
	}
	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("chunk index definition: %w", err)
	}
	return def, nil
}
