package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stance/internal/config"
	"github.com/aretw0/stance/internal/logging"
	"github.com/aretw0/stance/pkg/adapters/memory"
	natsAdapter "github.com/aretw0/stance/pkg/adapters/nats"
	"github.com/aretw0/stance/pkg/domain"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	// Step is driven by hand; keep the deadline far away.
	cfg.Period = time.Second
	cfg.Params = map[string]any{
		"stand": map[string]any{"duration": 0.001},
	}
	return cfg
}

func TestNewApp_Offline(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig(), logging.NewNop(), AppOptions{Offline: true})
	require.NoError(t, err)
	defer app.Close(ctx)

	require.IsType(t, &memory.LatestCommand{}, app.Intents)
	require.IsType(t, &memory.RingSink{}, app.Sink)

	require.NoError(t, app.Controller.Start())
	defer app.Controller.Stop()
	assert.Equal(t, domain.ModeStandby, app.Controller.Snapshot().Mode)

	app.Intents.SetIntent(domain.UserIntent{Seq: 1, Mode: domain.ModeStand})
	mode, err := app.Controller.Step()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeStand, mode)

	records := app.Sink.(*memory.RingSink).Records()
	assert.Len(t, records, 1)
}

func TestNewApp_OfflineIgnoresRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Redis.Addr = "127.0.0.1:1"

	app, err := NewApp(context.Background(), cfg, logging.NewNop(), AppOptions{Offline: true})
	require.NoError(t, err)
	assert.NoError(t, app.Close(context.Background()))
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Redis.Addr = addr

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewApp(ctx, cfg, logging.NewNop(), AppOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Stream = "test:telemetry"
	cfg.Redis.Channel = "test:command"

	ctx := context.Background()
	app, err := NewApp(ctx, cfg, logging.NewNop(), AppOptions{})
	require.NoError(t, err)

	require.NoError(t, app.Controller.Start())

	app.Intents.SetIntent(domain.UserIntent{Mode: domain.ModeStand})
	assert.Eventually(t, func() bool {
		mode, err := app.Controller.Step()
		return err == nil && mode == domain.ModeStand
	}, 2*time.Second, 10*time.Millisecond)

	app.Controller.Stop()
	require.NoError(t, app.Close(ctx))

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()
	n, err := client.XLen(ctx, "test:telemetry").Result()
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestApp_ValidateModes(t *testing.T) {
	ctx := context.Background()

	app, err := NewApp(ctx, testConfig(), logging.NewNop(), AppOptions{Offline: true})
	require.NoError(t, err)
	warnings, err := app.ValidateModes()
	assert.NoError(t, err)
	assert.Empty(t, warnings)

	app.Config.StartMode = "moonwalk"
	_, err = app.ValidateModes()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownMode)

	t.Run("Malformed mode params", func(t *testing.T) {
		cfg := testConfig()
		cfg.Params["walk"] = map[string]any{"max_forward": "fast"}
		app, err := NewApp(ctx, cfg, logging.NewNop(), AppOptions{Offline: true})
		require.NoError(t, err)

		_, err = app.ValidateModes()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "walk")
	})
}

func TestApp_Handler(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig(), logging.NewNop(), AppOptions{Offline: true})
	require.NoError(t, err)
	defer app.Close(ctx)

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, app.Controller.Start())
	defer app.Controller.Stop()

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug, false)
	hooks := createDebugHooks(logger)

	hooks.OnModeEnter(&domain.ModeEvent{Mode: domain.ModeStand, Reason: domain.ReasonRequested})
	hooks.OnFault(&domain.FaultEvent{Mode: domain.ModeWalk, Reason: domain.ReasonLoseControl})

	out := buf.String()
	assert.Contains(t, out, "Enter Mode")
	assert.Contains(t, out, "mode=stand")
	assert.Contains(t, out, "Fault")
}

func TestNewApp_NATS(t *testing.T) {
	server := startTestNATSServer(t)
	cfg := testConfig()
	cfg.NATS.URL = server.ClientURL()
	cfg.NATS.TelemetrySubject = "test.telemetry"

	watcher, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	defer watcher.Close()
	telemetry, err := watcher.SubscribeSync("test.telemetry.>")
	require.NoError(t, err)
	require.NoError(t, watcher.Flush())

	ctx := context.Background()
	app, err := NewApp(ctx, cfg, logging.NewNop(), AppOptions{})
	require.NoError(t, err)
	require.IsType(t, &natsAdapter.Publisher{}, app.Intents)

	require.NoError(t, app.Controller.Start())
	app.Intents.SetIntent(domain.UserIntent{Mode: domain.ModeStand})
	assert.Eventually(t, func() bool {
		mode, err := app.Controller.Step()
		return err == nil && mode == domain.ModeStand
	}, 2*time.Second, 10*time.Millisecond)
	app.Controller.Stop()
	require.NoError(t, app.Close(ctx))

	msg, err := telemetry.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Regexp(t, `^test\.telemetry\.(standby|stand)$`, msg.Subject)
}

func startTestNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()
	server, err := natsserver.NewServer(&natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1, // Random port
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)
	go server.Start()
	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}
	t.Cleanup(func() {
		server.Shutdown()
		server.WaitForShutdown()
	})
	return server
}
