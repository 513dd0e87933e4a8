package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stance/pkg/adapters/redis"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTelemetrySink_Contract(t *testing.T) {
	_, client := newClient(t)
	sink := redis.NewTelemetrySink(client)
	t.Cleanup(func() { _ = sink.Close(context.Background()) })

	ports.RunTelemetrySinkContract(t, sink, func() []domain.TelemetryRecord {
		recs, err := sink.Read(context.Background(), 0)
		if err != nil {
			return nil
		}
		return recs
	})
}

func TestTelemetrySink_StreamLayout(t *testing.T) {
	mr, client := newClient(t)
	sink := redis.NewTelemetrySink(client, redis.WithStream("robot:1:telemetry"), redis.WithMaxLen(5))

	for i := 1; i <= 20; i++ {
		sink.Record(domain.TelemetryRecord{
			RunID: "run-1",
			Tick:  uint64(i),
			Mode:  domain.ModeWalk,
			Feedback: domain.MotionFeedback{
				Position: [3]float64{float64(i), 0, 0},
			},
		})
	}
	require.NoError(t, sink.Close(context.Background()))

	assert.True(t, mr.Exists("robot:1:telemetry"))
	assert.Equal(t, uint64(20), sink.Written()+sink.Dropped())

	recs, err := sink.Read(context.Background(), 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(recs), 5, "stream is capped")
	require.NotEmpty(t, recs)
	last := recs[len(recs)-1]
	assert.Equal(t, uint64(20), last.Tick)
	assert.Equal(t, "run-1", last.RunID)
	assert.InDelta(t, 20.0, last.Feedback.Position[0], 1e-9)
}

func TestTelemetrySink_DropsAfterClose(t *testing.T) {
	_, client := newClient(t)
	sink := redis.NewTelemetrySink(client)
	require.NoError(t, sink.Close(context.Background()))

	sink.Record(domain.TelemetryRecord{Tick: 1})
	assert.Equal(t, uint64(1), sink.Dropped())
	assert.Equal(t, uint64(0), sink.Written())
}

func TestTelemetrySink_WriteFailureCountsAsDrop(t *testing.T) {
	mr, client := newClient(t)
	sink := redis.NewTelemetrySink(client)
	mr.Close()

	sink.Record(domain.TelemetryRecord{Tick: 1})
	require.NoError(t, sink.Close(context.Background()))
	assert.Equal(t, uint64(1), sink.Dropped())
}

func TestCommandSubscriber_Contract(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	sub, err := redis.NewCommandSubscriber(ctx, client, redis.WithChannel("robot:1:cmd"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	pub := redis.NewPublisher(client, redis.WithChannel("robot:1:cmd"))
	ports.RunCommandSourceContract(t, sub, func(intent domain.UserIntent) {
		_, err := pub.Publish(ctx, intent)
		require.NoError(t, err)
	})
}

func TestCommandSubscriber_IgnoresMalformed(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	sub, err := redis.NewCommandSubscriber(ctx, client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	mr.Publish("stance:command", "{not json")
	var setter ports.IntentSetter = redis.NewPublisher(client)
	setter.SetIntent(domain.UserIntent{Mode: domain.ModeStand})

	require.Eventually(t, func() bool {
		return sub.Latest().Mode == domain.ModeStand
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, uint64(1), sub.Latest().Seq)
}
