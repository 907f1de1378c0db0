package ingestion

import (
	"context"
	"sync"
	"time"
)

// RowErrorEntry captures one rejected row for operational visibility.
type RowErrorEntry struct {
	FileName   string    `json:"file_name"`
	RowNumber  int       `json:"row_number"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RowErrorSink receives row-level rejections as they are produced.
// Persistence is owned by the caller; the pipeline only reports.
type RowErrorSink interface {
	Record(ctx context.Context, entry RowErrorEntry) error
}

// MemoryRowErrorSink is an in-process sink, used by the default server
// wiring and by tests.
type MemoryRowErrorSink struct {
	mu      sync.Mutex
	entries []RowErrorEntry
}

// NewMemoryRowErrorSink returns an empty sink.
func NewMemoryRowErrorSink() *MemoryRowErrorSink {
	return &MemoryRowErrorSink{}
}

// Record appends the entry.
func (s *MemoryRowErrorSink) Record(_ context.Context, entry RowErrorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (s *MemoryRowErrorSink) Entries() []RowErrorEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RowErrorEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
