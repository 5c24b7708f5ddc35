package chunker

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/policyqa/internal/domain/document"
)

func mustNew(t *testing.T, cfg Config) *Splitter {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func policyLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("Line %03d of the leave policy explains accrual and carry-forward rules.", i)
	}
	return strings.Join(lines, "\n")
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Size: 100, Overlap: 100}); err == nil {
		t.Error("expected error when overlap equals size")
	}
	if _, err := New(Config{Size: 100, Overlap: -1}); err == nil {
		t.Error("expected error for negative overlap")
	}
	s, err := New(Config{})
	if err != nil {
		t.Fatalf("zero config should use defaults: %v", err)
	}
	if s.size != DefaultSize || s.overlap != 0 {
		t.Errorf("unexpected defaults: size=%d overlap=%d", s.size, s.overlap)
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := mustNew(t, Config{Size: DefaultSize, Overlap: DefaultOverlap})

	got := s.Split("Employees get 20 days annual leave.")
	want := []string{"Employees get 20 days annual leave."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %q, want %q", got, want)
	}
}

func TestSplit_Empty(t *testing.T) {
	s := mustNew(t, Config{Size: DefaultSize, Overlap: DefaultOverlap})
	if got := s.Split(""); len(got) != 0 {
		t.Errorf("expected no chunks, got %q", got)
	}
	if got := s.Split("   \n\n  "); len(got) != 0 {
		t.Errorf("expected no chunks for whitespace, got %q", got)
	}
}

func TestSplit_ParagraphsMergedWhenSmall(t *testing.T) {
	s := mustNew(t, Config{Size: DefaultSize, Overlap: DefaultOverlap})

	got := s.Split("Para one.\n\nPara two.")
	want := []string{"Para one.\n\nPara two."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %q, want %q", got, want)
	}
}

func TestSplit_WordsWithOverlap(t *testing.T) {
	s := mustNew(t, Config{Size: 10, Overlap: 4})

	got := s.Split("aaa bbb ccc ddd")
	want := []string{"aaa bbb", "bbb ccc", "ccc ddd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %q, want %q", got, want)
	}
}

func TestSplit_FallsBackToCharacters(t *testing.T) {
	s := mustNew(t, Config{Size: 10, Overlap: 4})

	got := s.Split("abcdefghijklmnop")
	want := []string{"abcdefghij", "ghijklmnop"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %q, want %q", got, want)
	}
}

func TestSplit_LongTextRespectsWindowAndOverlap(t *testing.T) {
	s := mustNew(t, Config{Size: DefaultSize, Overlap: DefaultOverlap})
	text := policyLines(40)

	got := s.Split(text)
	if len(got) < 3 {
		t.Fatalf("expected several chunks, got %d", len(got))
	}
	for i, c := range got {
		if n := utf8.RuneCountInString(c); n > DefaultSize {
			t.Errorf("chunk %d has %d characters, exceeds window", i, n)
		}
	}
	for i := 1; i < len(got); i++ {
		head := got[i][:30]
		if !strings.Contains(got[i-1], head) {
			t.Errorf("chunk %d does not start inside the tail of chunk %d: %q", i, i-1, head)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := mustNew(t, Config{Size: DefaultSize, Overlap: DefaultOverlap})
	text := policyLines(60)

	first := s.Split(text)
	for range 5 {
		again := mustNew(t, Config{Size: DefaultSize, Overlap: DefaultOverlap}).Split(text)
		if !reflect.DeepEqual(first, again) {
			t.Fatal("chunk boundaries changed between runs")
		}
	}
}

func TestSplitDocuments(t *testing.T) {
	s := mustNew(t, Config{Size: DefaultSize, Overlap: DefaultOverlap})
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	docs := []document.Loaded{
		{Record: document.NewRecord("policies/leave-policy.md", now), Content: "Employees get 20 days annual leave."},
		{Record: document.NewRecord("policies/exit.md", now), Content: policyLines(40)},
	}

	chunks := s.SplitDocuments(docs)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	first := chunks[0]
	if first.ID != "leave-policy#0" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Source() != "leave-policy" || first.Category() != "Leave" {
		t.Errorf("unexpected metadata: %v", first.Metadata)
	}
	if first.Metadata["title"] != "leave-policy.md" {
		t.Errorf("title = %q", first.Metadata["title"])
	}

	for _, c := range chunks[1:] {
		if c.Source() != "exit" {
			t.Errorf("chunk %s has source %q", c.ID, c.Source())
		}
	}
	if chunks[len(chunks)-1].ID != fmt.Sprintf("exit#%d", len(chunks)-2) {
		t.Errorf("unexpected last id %q", chunks[len(chunks)-1].ID)
	}
}
