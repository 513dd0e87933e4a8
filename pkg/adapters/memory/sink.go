package memory

import (
	"sync"

	"github.com/aretw0/stance/pkg/domain"
)

// RingSink keeps the last N telemetry records in memory.
// Safe for concurrent use.
type RingSink struct {
	mu      sync.Mutex
	buf     []domain.TelemetryRecord
	next    int
	full    bool
	dropped uint64
}

// NewRingSink creates a sink that retains up to size records.
func NewRingSink(size int) *RingSink {
	if size < 1 {
		size = 1
	}
	return &RingSink{buf: make([]domain.TelemetryRecord, size)}
}

// Record stores rec, overwriting the oldest record once full.
func (s *RingSink) Record(rec domain.TelemetryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		s.dropped++
	}
	s.buf[s.next] = rec
	s.next = (s.next + 1) % len(s.buf)
	if s.next == 0 {
		s.full = true
	}
}

// Records returns the retained records, oldest first.
func (s *RingSink) Records() []domain.TelemetryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		return append([]domain.TelemetryRecord(nil), s.buf[:s.next]...)
	}
	out := make([]domain.TelemetryRecord, 0, len(s.buf))
	out = append(out, s.buf[s.next:]...)
	return append(out, s.buf[:s.next]...)
}

// Overwritten returns how many records were evicted.
func (s *RingSink) Overwritten() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
