package nats

import (
	"io"
	"log/slog"
	"time"
)

const (
	defaultTelemetrySubject = "stance.telemetry"
	defaultCommandSubject   = "stance.command"
	defaultRequestTimeout   = 500 * time.Millisecond
	defaultBuffer           = 1024
)

type options struct {
	telemetrySubject string
	commandSubject   string
	requestTimeout   time.Duration
	buffer           int
	logger           *slog.Logger
}

func defaultOptions() options {
	return options{
		telemetrySubject: defaultTelemetrySubject,
		commandSubject:   defaultCommandSubject,
		requestTimeout:   defaultRequestTimeout,
		buffer:           defaultBuffer,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures the NATS adapters.
type Option func(*options)

// WithTelemetrySubject sets the subject prefix for telemetry records. The
// mode name is appended as the last token.
func WithTelemetrySubject(subject string) Option {
	return func(o *options) {
		if subject != "" {
			o.telemetrySubject = subject
		}
	}
}

// WithCommandSubject sets the subject carrying operator commands.
func WithCommandSubject(subject string) Option {
	return func(o *options) {
		if subject != "" {
			o.commandSubject = subject
		}
	}
}

// WithRequestTimeout bounds how long Publisher.Request waits for an ack.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

// WithBuffer sets how many telemetry records may wait for publication before
// new ones are dropped.
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
