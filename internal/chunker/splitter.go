// Package chunker splits policy text into overlapping windows for embedding.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
	"github.com/kailas-cloud/policyqa/internal/domain/document"
)

// Defaults for the splitter.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// DefaultSeparators is the split priority: paragraph, line, sentence, word, character.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " ", ""}

// Config holds splitter settings. Sizes are measured in characters (runes).
type Config struct {
	Size       int
	Overlap    int
	Separators []string
}

// Splitter is a greedy recursive character splitter. A separator stays attached to the
// start of the piece that follows it, and merged chunks are whitespace-trimmed.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

// New validates cfg and creates a Splitter. Zero values fall back to the defaults.
func New(cfg Config) (*Splitter, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if cfg.Overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", cfg.Overlap)
	}
	if cfg.Overlap >= cfg.Size {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", cfg.Overlap, cfg.Size)
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = DefaultSeparators
	}
	return &Splitter{
		size:       cfg.Size,
		overlap:    cfg.Overlap,
		separators: append([]string(nil), cfg.Separators...),
	}, nil
}

// SplitDocuments cuts every document into chunks carrying the parent record's metadata.
func (s *Splitter) SplitDocuments(docs []document.Loaded) []chunk.Chunk {
	var out []chunk.Chunk
	for _, d := range docs {
		for i, text := range s.Split(d.Content) {
			out = append(out, chunk.Chunk{
				ID:       chunk.ID(d.Record.DocID, i),
				Content:  text,
				Metadata: d.Record.ChunkMetadata(),
			})
		}
	}
	return out
}

// Split returns the chunk texts of text. Same input and configuration yield the same output.
func (s *Splitter) Split(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var (
		final []string
		good  []string
	)
	for _, piece := range splitKeepingSeparator(text, separator) {
		if length(piece) < s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge packs pieces into windows of at most size characters, seeding each new window
// with up to overlap characters taken from the tail of the previous one.
func (s *Splitter) merge(pieces []string) []string {
	var (
		docs    []string
		current []string
		total   int
	)
	for _, p := range pieces {
		n := length(p)
		if total+n > s.size && len(current) > 0 {
			if doc := join(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.overlap || (total+n > s.size && total > 0) {
				total -= length(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
	}
	if doc := join(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepingSeparator splits text on sep and prefixes every piece after the first with sep.
// An empty separator splits into single characters. Empty pieces are dropped.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		pieces = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces = make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, p := range parts[1:] {
		pieces = append(pieces, sep+p)
	}
	return pieces
}

func join(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
