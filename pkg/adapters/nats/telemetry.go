package nats

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/stance/pkg/domain"
	backend "github.com/nats-io/nats.go"
	"golang.org/x/time/rate"
)

const flushTimeout = time.Second

// TelemetryPublisher implements ports.TelemetrySink on NATS subjects.
// Record never blocks the control loop: records are queued and published by
// a background goroutine, and dropped when the queue is full. Records the
// client refuses (closed connection, reconnect buffer full) are dropped too.
type TelemetryPublisher struct {
	conn *backend.Conn
	opts options
	warn *rate.Limiter

	mu     sync.RWMutex
	closed bool
	queue  chan domain.TelemetryRecord
	done   chan struct{}

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewTelemetryPublisher starts a sink publishing on conn.
func NewTelemetryPublisher(conn *backend.Conn, opts ...Option) *TelemetryPublisher {
	p := &TelemetryPublisher{
		conn: conn,
		opts: apply(opts),
		warn: rate.NewLimiter(rate.Every(time.Second), 1),
		done: make(chan struct{}),
	}
	p.queue = make(chan domain.TelemetryRecord, p.opts.buffer)
	go p.loop()
	return p
}

// Record queues rec for publication on <subject>.<mode>.
func (p *TelemetryPublisher) Record(rec domain.TelemetryRecord) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.dropped.Add(1)
		return
	}
	select {
	case p.queue <- rec:
	default:
		p.dropped.Add(1)
	}
}

func (p *TelemetryPublisher) loop() {
	defer close(p.done)
	for rec := range p.queue {
		data, err := json.Marshal(rec)
		if err == nil {
			err = p.conn.Publish(p.Subject(rec.Mode), data)
		}
		if err != nil {
			p.dropped.Add(1)
			if p.warn.Allow() {
				p.opts.logger.Warn("telemetry publish failed", "subject", p.opts.telemetrySubject, "tick", rec.Tick, "error", err)
			}
			continue
		}
		p.published.Add(1)
	}
}

// Subject returns the subject records for mode are published on.
func (p *TelemetryPublisher) Subject(mode domain.ModeName) string {
	if mode == "" {
		return p.opts.telemetrySubject + ".none"
	}
	return p.opts.telemetrySubject + "." + string(mode)
}

// Published returns how many records were handed to the client.
func (p *TelemetryPublisher) Published() uint64 { return p.published.Load() }

// Dropped returns how many records were discarded.
func (p *TelemetryPublisher) Dropped() uint64 { return p.dropped.Load() }

// Close stops accepting records, waits for the queue to drain or ctx to end,
// then flushes the connection. The connection is left open.
func (p *TelemetryPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if p.conn.IsClosed() {
		return nil
	}
	return p.conn.FlushTimeout(flushTimeout)
}
