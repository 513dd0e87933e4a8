package redis

import (
	"io"
	"log/slog"
)

const (
	defaultStream  = "stance:telemetry"
	defaultChannel = "stance:command"
	defaultMaxLen  = 10000
	defaultBuffer  = 1024
)

type options struct {
	stream  string
	channel string
	maxLen  int64
	buffer  int
	logger  *slog.Logger
}

func defaultOptions() options {
	return options{
		stream:  defaultStream,
		channel: defaultChannel,
		maxLen:  defaultMaxLen,
		buffer:  defaultBuffer,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures the redis adapters.
type Option func(*options)

// WithStream sets the telemetry stream key.
func WithStream(stream string) Option {
	return func(o *options) {
		o.stream = stream
	}
}

// WithChannel sets the pub/sub channel carrying operator commands.
func WithChannel(channel string) Option {
	return func(o *options) {
		o.channel = channel
	}
}

// WithMaxLen caps the telemetry stream length. Zero disables trimming.
func WithMaxLen(n int64) Option {
	return func(o *options) {
		o.maxLen = n
	}
}

// WithBuffer sets how many telemetry records may wait for delivery before new
// ones are dropped.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithLogger sets the logger for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func apply(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
