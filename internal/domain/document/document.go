package document

import (
	"path/filepath"
	"strings"
	"time"
)

// Constant attributes stamped on every ingested record.
const (
	DefaultVersion = "1.0"
	DefaultRegion  = "IN"
	DefaultOwner   = "HR Department"
)

// EffectiveDateLayout is the ISO date format of Record.EffectiveDate.
const EffectiveDateLayout = "2006-01-02"

// Record is the metadata of one ingested policy file. Records are append-only and never mutated.
type Record struct {
	DocID         string   `json:"doc_id"`
	Title         string   `json:"title"`
	Category      Category `json:"category"`
	Version       string   `json:"version"`
	EffectiveDate string   `json:"effective_date"`
	Region        string   `json:"region"`
	Owner         string   `json:"owner"`
	FilePath      string   `json:"file_path"`
	IngestionTime string   `json:"ingestion_time"`
}

// Loaded pairs a record with the text extracted from its file.
type Loaded struct {
	Record  Record
	Content string
}

// NewRecord builds the record for a file ingested at the given moment.
// The category is inferred from the file name with DefaultRules.
func NewRecord(path string, now time.Time) Record {
	filename := filepath.Base(path)
	return Record{
		DocID:         IDFromFilename(filename),
		Title:         filename,
		Category:      DefaultRules.Infer(filename),
		Version:       DefaultVersion,
		EffectiveDate: now.Format(EffectiveDateLayout),
		Region:        DefaultRegion,
		Owner:         DefaultOwner,
		FilePath:      path,
		IngestionTime: now.Format(time.RFC3339Nano),
	}
}

// IDFromFilename strips the last extension: "leave-policy.md" -> "leave-policy".
func IDFromFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// ChunkMetadata returns the metadata copied onto every chunk cut from this record.
func (r Record) ChunkMetadata() map[string]string {
	return map[string]string{
		"source":         r.DocID,
		"doc_id":         r.DocID,
		"title":          r.Title,
		"category":       string(r.Category),
		"version":        r.Version,
		"effective_date": r.EffectiveDate,
		"region":         r.Region,
		"owner":          r.Owner,
		"file_path":      r.FilePath,
		"ingestion_time": r.IngestionTime,
	}
}
