package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/aretw0/stance/pkg/domain"
	backend "github.com/nats-io/nats.go"
)

// CommandSubscriber implements ports.CommandSource over a NATS subscription.
// Only the most recent intent is kept; Latest never touches the network.
type CommandSubscriber struct {
	sub      *backend.Subscription
	opts     options
	latest   atomic.Pointer[domain.UserIntent]
	received atomic.Uint64
}

// NewCommandSubscriber subscribes to the command subject. The subscription
// is flushed to the server before returning.
func NewCommandSubscriber(conn *backend.Conn, opts ...Option) (*CommandSubscriber, error) {
	s := &CommandSubscriber{opts: apply(opts)}
	s.latest.Store(&domain.UserIntent{})

	sub, err := conn.Subscribe(s.opts.commandSubject, s.handle)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %q: %w", s.opts.commandSubject, err)
	}
	if err := conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("failed to subscribe to %q: %w", s.opts.commandSubject, err)
	}
	s.sub = sub
	return s, nil
}

func (s *CommandSubscriber) handle(msg *backend.Msg) {
	var intent domain.UserIntent
	if err := json.Unmarshal(msg.Data, &intent); err != nil {
		s.opts.logger.Warn("discarding malformed command", "subject", msg.Subject, "error", err)
		if msg.Reply != "" {
			_ = msg.Respond([]byte("error: " + err.Error()))
		}
		return
	}
	n := s.received.Add(1)
	if intent.Seq == 0 {
		intent.Seq = n
	}
	s.latest.Store(&intent)
	if msg.Reply != "" {
		_ = msg.Respond([]byte(strconv.FormatUint(intent.Seq, 10)))
	}
}

// Latest returns the most recent intent received.
func (s *CommandSubscriber) Latest() domain.UserIntent {
	return *s.latest.Load()
}

// Received returns how many valid commands arrived.
func (s *CommandSubscriber) Received() uint64 { return s.received.Load() }

// Close drains the subscription.
func (s *CommandSubscriber) Close() error {
	return s.sub.Unsubscribe()
}

// Publisher sends operator intents to the command subject. It implements
// ports.IntentSetter.
type Publisher struct {
	conn *backend.Conn
	opts options
}

// NewPublisher creates a publisher for the configured subject.
func NewPublisher(conn *backend.Conn, opts ...Option) *Publisher {
	return &Publisher{conn: conn, opts: apply(opts)}
}

// Publish sends intent without waiting for a subscriber.
func (p *Publisher) Publish(intent domain.UserIntent) error {
	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal intent: %w", err)
	}
	if err := p.conn.Publish(p.opts.commandSubject, data); err != nil {
		return fmt.Errorf("failed to publish intent: %w", err)
	}
	return nil
}

// Request sends intent and waits for a controller to acknowledge it. It
// returns the sequence number the controller assigned.
func (p *Publisher) Request(ctx context.Context, intent domain.UserIntent) (uint64, error) {
	data, err := json.Marshal(intent)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal intent: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.requestTimeout)
		defer cancel()
	}
	reply, err := p.conn.RequestWithContext(ctx, p.opts.commandSubject, data)
	if err != nil {
		return 0, fmt.Errorf("command request: %w", err)
	}
	seq, err := strconv.ParseUint(string(reply.Data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("command rejected: %s", reply.Data)
	}
	return seq, nil
}

// SetIntent publishes intent, logging failures.
func (p *Publisher) SetIntent(intent domain.UserIntent) {
	if err := p.Publish(intent); err != nil {
		p.opts.logger.Warn("command publish failed", "subject", p.opts.commandSubject, "error", err)
	}
}
