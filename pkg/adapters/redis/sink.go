package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/stance/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const writeTimeout = 500 * time.Millisecond

// TelemetrySink implements ports.TelemetrySink on a capped Redis stream.
// Record never blocks the control loop: records are queued and written by a
// background goroutine, and dropped when the queue is full.
type TelemetrySink struct {
	client *backend.Client
	opts   options

	mu     sync.RWMutex
	closed bool
	queue  chan domain.TelemetryRecord
	done   chan struct{}

	written atomic.Uint64
	dropped atomic.Uint64
}

// NewTelemetrySink starts a sink writing to the configured stream.
func NewTelemetrySink(client *backend.Client, opts ...Option) *TelemetrySink {
	s := &TelemetrySink{
		client: client,
		opts:   apply(opts),
		done:   make(chan struct{}),
	}
	s.queue = make(chan domain.TelemetryRecord, s.opts.buffer)
	go s.loop()
	return s
}

// Record queues rec for delivery.
func (s *TelemetrySink) Record(rec domain.TelemetryRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.queue <- rec:
	default:
		s.dropped.Add(1)
	}
}

func (s *TelemetrySink) loop() {
	defer close(s.done)
	for rec := range s.queue {
		if err := s.write(rec); err != nil {
			s.dropped.Add(1)
			s.opts.logger.Warn("telemetry write failed", "stream", s.opts.stream, "tick", rec.Tick, "error", err)
			continue
		}
		s.written.Add(1)
	}
}

func (s *TelemetrySink) write(rec domain.TelemetryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	args := &backend.XAddArgs{
		Stream: s.opts.stream,
		MaxLen: s.opts.maxLen,
		Values: map[string]any{
			"mode":   string(rec.Mode),
			"tick":   rec.Tick,
			"record": data,
		},
	}
	return s.client.XAdd(ctx, args).Err()
}

// Read returns up to count records from the stream, oldest first. A count of
// zero reads everything.
func (s *TelemetrySink) Read(ctx context.Context, count int64) ([]domain.TelemetryRecord, error) {
	var (
		msgs []backend.XMessage
		err  error
	)
	if count > 0 {
		msgs, err = s.client.XRangeN(ctx, s.opts.stream, "-", "+", count).Result()
	} else {
		msgs, err = s.client.XRange(ctx, s.opts.stream, "-", "+").Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read telemetry: %w", err)
	}
	out := make([]domain.TelemetryRecord, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values["record"].(string)
		if !ok {
			continue
		}
		var rec domain.TelemetryRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", m.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Written returns how many records reached Redis.
func (s *TelemetrySink) Written() uint64 { return s.written.Load() }

// Dropped returns how many records were discarded.
func (s *TelemetrySink) Dropped() uint64 { return s.dropped.Load() }

// Close stops accepting records and waits for the queue to drain or ctx to end.
// The client is left open.
func (s *TelemetrySink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
