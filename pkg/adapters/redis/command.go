package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/aretw0/stance/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// CommandSubscriber implements ports.CommandSource over Redis pub/sub. Only the
// most recent intent is kept; Latest never touches the network.
type CommandSubscriber struct {
	pubsub   *backend.PubSub
	opts     options
	latest   atomic.Pointer[domain.UserIntent]
	received atomic.Uint64
	done     chan struct{}
}

// NewCommandSubscriber subscribes to the command channel and returns once the
// subscription is confirmed.
func NewCommandSubscriber(ctx context.Context, client *backend.Client, opts ...Option) (*CommandSubscriber, error) {
	o := apply(opts)
	ps := client.Subscribe(ctx, o.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %q: %w", o.channel, err)
	}

	s := &CommandSubscriber{
		pubsub: ps,
		opts:   o,
		done:   make(chan struct{}),
	}
	s.latest.Store(&domain.UserIntent{})
	go s.loop(ps.Channel())
	return s, nil
}

func (s *CommandSubscriber) loop(ch <-chan *backend.Message) {
	defer close(s.done)
	for msg := range ch {
		var intent domain.UserIntent
		if err := json.Unmarshal([]byte(msg.Payload), &intent); err != nil {
			s.opts.logger.Warn("discarding malformed command", "channel", msg.Channel, "error", err)
			continue
		}
		s.received.Add(1)
		if intent.Seq == 0 {
			intent.Seq = s.received.Load()
		}
		s.latest.Store(&intent)
	}
}

// Latest returns the most recent intent received.
func (s *CommandSubscriber) Latest() domain.UserIntent {
	return *s.latest.Load()
}

// Close unsubscribes and waits for the receive loop to exit.
func (s *CommandSubscriber) Close() error {
	err := s.pubsub.Close()
	<-s.done
	return err
}

// Publisher sends operator intents to the command channel. It implements
// ports.IntentSetter so that the HTTP and MCP adapters can drive a remote
// controller.
type Publisher struct {
	client *backend.Client
	opts   options
}

// NewPublisher creates a publisher for the configured channel.
func NewPublisher(client *backend.Client, opts ...Option) *Publisher {
	return &Publisher{client: client, opts: apply(opts)}
}

// Publish sends intent and returns the number of subscribers that received it.
func (p *Publisher) Publish(ctx context.Context, intent domain.UserIntent) (int64, error) {
	data, err := json.Marshal(intent)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal intent: %w", err)
	}
	n, err := p.client.Publish(ctx, p.opts.channel, data).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to publish intent: %w", err)
	}
	return n, nil
}

// SetIntent publishes intent, logging failures.
func (p *Publisher) SetIntent(intent domain.UserIntent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := p.Publish(ctx, intent); err != nil {
		p.opts.logger.Warn("command publish failed", "channel", p.opts.channel, "error", err)
	}
}
