package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/stance"
	"github.com/aretw0/stance/internal/config"
	"github.com/aretw0/stance/internal/validator"
	httpAdapter "github.com/aretw0/stance/pkg/adapters/http"
	"github.com/aretw0/stance/pkg/adapters/memory"
	natsAdapter "github.com/aretw0/stance/pkg/adapters/nats"
	redisAdapter "github.com/aretw0/stance/pkg/adapters/redis"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/modes"
	"github.com/aretw0/stance/pkg/ports"
	"github.com/aretw0/stance/pkg/registry"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
)

// AppOptions selects which outer adapters NewApp wires.
type AppOptions struct {
	// Offline skips Redis and NATS even when configured. Used by the
	// introspection commands that never tick.
	Offline bool

	// Debug logs every lifecycle event.
	Debug bool

	// Extra controller options, applied last.
	Controller []stance.Option
}

// App is a controller wired to simulated hardware and the configured adapters.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Controller *stance.Controller
	Registry   *registry.Registry
	Hardware   *memory.SimHardware
	Intents    ports.IntentSetter
	Sink       ports.TelemetrySink
	Metrics    *prometheus.Registry

	closers []func(context.Context) error
}

// NewApp builds the application described by cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts AppOptions) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: modes.NewRegistry(),
		Hardware: memory.NewSimHardware(),
		Metrics:  prometheus.NewRegistry(),
	}
	app.Metrics.MustRegister(collectors.NewGoCollector())

	var commands ports.CommandSource
	switch {
	case opts.Offline:
		commands = app.wireLocal()
	case cfg.Redis.Addr != "":
		if err := app.wireRedis(ctx, &commands); err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
	case cfg.NATS.URL != "":
		if err := app.wireNATS(&commands); err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
	default:
		commands = app.wireLocal()
	}

	ectx, err := domain.NewExecutionContext(app.Hardware, commands, memory.NewParams(cfg.Params), app.Sink)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	ctrlOpts := []stance.Option{
		stance.WithRobotType(cfg.Robot),
		stance.WithPeriod(cfg.Period),
		stance.WithStartMode(cfg.StartMode),
		stance.WithSafeMode(cfg.SafeMode),
		stance.WithDiagnosticInterval(cfg.DiagnosticInterval),
		stance.WithLogger(logger),
		stance.WithMetrics(app.Metrics),
	}
	if opts.Debug {
		ctrlOpts = append(ctrlOpts, stance.WithLifecycleHooks(createDebugHooks(logger)))
	}
	app.Controller, err = stance.New(app.Registry, ectx, append(ctrlOpts, opts.Controller...)...)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	return app, nil
}

func (a *App) wireLocal() ports.CommandSource {
	local := memory.NewLatestCommand()
	a.Intents = local
	a.Sink = memory.NewRingSink(4096)
	return local
}

func (a *App) wireNATS(commands *ports.CommandSource) error {
	nc := a.Config.NATS
	conn, err := nats.Connect(nc.URL,
		nats.Name(nc.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			a.Logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			a.Logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", nc.URL, err)
	}
	a.closers = append(a.closers, func(context.Context) error {
		conn.Close()
		return nil
	})

	natsOpts := []natsAdapter.Option{
		natsAdapter.WithTelemetrySubject(nc.TelemetrySubject),
		natsAdapter.WithCommandSubject(nc.CommandSubject),
		natsAdapter.WithBuffer(nc.Buffer),
		natsAdapter.WithLogger(a.Logger),
	}

	sink := natsAdapter.NewTelemetryPublisher(conn, natsOpts...)
	a.Sink = sink
	a.closers = append(a.closers, func(ctx context.Context) error {
		err := sink.Close(ctx)
		a.Logger.Info("telemetry publisher closed", "published", sink.Published(), "dropped", sink.Dropped())
		return err
	})

	sub, err := natsAdapter.NewCommandSubscriber(conn, natsOpts...)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return sub.Close() })
	*commands = sub
	a.Intents = natsAdapter.NewPublisher(conn, natsOpts...)

	a.Logger.Info("nats connected", "url", conn.ConnectedUrl(), "telemetry", nc.TelemetrySubject, "command", nc.CommandSubject)
	return nil
}

func (a *App) wireRedis(ctx context.Context, commands *ports.CommandSource) error {
	rc := a.Config.Redis
	client := backend.NewClient(&backend.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", rc.Addr, err)
	}

	redisOpts := []redisAdapter.Option{
		redisAdapter.WithStream(rc.Stream),
		redisAdapter.WithChannel(rc.Channel),
		redisAdapter.WithMaxLen(rc.MaxLen),
		redisAdapter.WithBuffer(rc.Buffer),
		redisAdapter.WithLogger(a.Logger),
	}

	sink := redisAdapter.NewTelemetrySink(client, redisOpts...)
	a.Sink = sink
	a.closers = append(a.closers, func(ctx context.Context) error {
		err := sink.Close(ctx)
		a.Logger.Info("telemetry sink closed", "written", sink.Written(), "dropped", sink.Dropped())
		return err
	})

	sub, err := redisAdapter.NewCommandSubscriber(ctx, client, redisOpts...)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return sub.Close() })
	*commands = sub
	a.Intents = redisAdapter.NewPublisher(client, redisOpts...)

	a.Logger.Info("redis connected", "addr", rc.Addr, "stream", rc.Stream, "channel", rc.Channel)
	return nil
}

// Handler returns the diagnostics API for the controller.
func (a *App) Handler() http.Handler {
	return httpAdapter.NewHandler(a.Controller,
		httpAdapter.WithIntentSetter(a.Intents),
		httpAdapter.WithGatherer(a.Metrics),
		httpAdapter.WithLogger(a.Logger),
	)
}

// ValidateModes checks the mode graph and builds every mode once for the
// configured robot. Graph findings that do not prevent running are returned
// as warnings.
func (a *App) ValidateModes() ([]string, error) {
	report, err := validator.ValidateGraph(a.Registry, a.Config.StartMode, a.Config.SafeMode)
	if err != nil {
		return nil, err
	}
	ectx, err := domain.NewExecutionContext(memory.NewSimHardware(), memory.NewLatestCommand(),
		memory.NewParams(a.Config.Params), memory.NewRingSink(1))
	if err != nil {
		return nil, err
	}
	var errs []error
	if err := modes.CheckParams(ectx.Params()); err != nil {
		errs = append(errs, err)
	}
	// A throwaway registry keeps these instances out of the live one.
	scratch := modes.NewRegistry()
	for _, name := range scratch.Names() {
		if _, err := scratch.Resolve(name, a.Config.Robot, ectx); err != nil {
			errs = append(errs, err)
		}
	}
	return report.Warnings(), errors.Join(errs...)
}

// Close releases the adapters in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
