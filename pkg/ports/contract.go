package ports

import (
	"testing"
	"time"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTelemetrySinkContract verifies that a TelemetrySink accepts records
// without blocking and eventually delivers them in order. read returns what the
// backing store has received so far.
func RunTelemetrySinkContract(t *testing.T, sink TelemetrySink, read func() []domain.TelemetryRecord) {
	t.Helper()

	t.Run("Record does not block", func(t *testing.T) {
		start := time.Now()
		for i := 1; i <= 100; i++ {
			sink.Record(domain.TelemetryRecord{Tick: uint64(i), Mode: domain.ModeStandby})
		}
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("Records are delivered in order", func(t *testing.T) {
		var got []domain.TelemetryRecord
		require.Eventually(t, func() bool {
			got = read()
			return len(got) > 0
		}, 2*time.Second, 10*time.Millisecond)

		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1].Tick, got[i].Tick, "ticks must be increasing")
		}
		assert.Equal(t, domain.ModeStandby, got[0].Mode)
	})
}

// RunCommandSourceContract verifies "most recent wins" semantics. publish pushes
// an intent through whatever transport the source listens on.
func RunCommandSourceContract(t *testing.T, src CommandSource, publish func(domain.UserIntent)) {
	t.Helper()

	t.Run("Zero intent before any command", func(t *testing.T) {
		assert.Equal(t, uint64(0), src.Latest().Seq)
	})

	t.Run("Latest wins", func(t *testing.T) {
		publish(domain.UserIntent{Seq: 1, Mode: domain.ModeStand})
		publish(domain.UserIntent{Seq: 2, Mode: domain.ModeWalk})
		publish(domain.UserIntent{Seq: 3, Mode: domain.ModeWalk, Velocity: [3]float64{0.5, 0, 0}})

		require.Eventually(t, func() bool {
			return src.Latest().Seq == 3
		}, 2*time.Second, 10*time.Millisecond)

		latest := src.Latest()
		assert.Equal(t, domain.ModeWalk, latest.Mode)
		assert.InDelta(t, 0.5, latest.Velocity[0], 1e-9)
	})
}
