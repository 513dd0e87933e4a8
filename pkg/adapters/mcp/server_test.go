package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/stance/pkg/adapters/memory"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubController struct {
	snap     domain.Snapshot
	releases int
}

func (c *stubController) Snapshot() domain.Snapshot { return c.snap }

func (c *stubController) Modes() []domain.ModeInfo {
	return []domain.ModeInfo{
		{Name: domain.ModeStandby, Start: true},
		{Name: domain.ModeStand},
		{Name: domain.ModeSafeStop, Safe: true},
	}
}

func (c *stubController) RequestRelease() { c.releases++ }

func TestTools(t *testing.T) {
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	t.Run("get_feedback", func(t *testing.T) {
		ctrl := &stubController{snap: domain.Snapshot{
			Mode:     domain.ModeSafeStop,
			Latched:  true,
			Feedback: domain.MotionFeedback{Faults: domain.FaultAttitude | domain.FaultLoseControl},
		}}
		s := NewServer(ctrl, "test")
		res, err := s.handleGetFeedback(ctx, req, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.ModeSafeStop, res.Snapshot.Mode)
		assert.Equal(t, "attitude|lose_control", res.Faults)
	})

	t.Run("list_modes", func(t *testing.T) {
		s := NewServer(&stubController{}, "test")
		res, err := s.handleListModes(ctx, req, nil)
		require.NoError(t, err)
		assert.Len(t, res.Modes, 3)
	})

	t.Run("request_mode", func(t *testing.T) {
		ctrl := &stubController{snap: domain.Snapshot{Mode: domain.ModeStandby}}
		cmd := memory.NewLatestCommand()

		_, err := NewServer(ctrl, "test").handleRequestMode(ctx, req, map[string]interface{}{"mode": "stand"})
		assert.Error(t, err, "disabled without an intent setter")

		s := NewServer(ctrl, "test", WithIntentSetter(cmd))
		_, err = s.handleRequestMode(ctx, req, map[string]interface{}{"mode": "climb"})
		assert.ErrorIs(t, err, domain.ErrUnknownMode)

		res, err := s.handleRequestMode(ctx, req, map[string]interface{}{"mode": "stand", "vx": 0.2})
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, domain.ModeStand, cmd.Latest().Mode)
		assert.InDelta(t, 0.2, cmd.Latest().Velocity[0], 1e-9)
	})

	t.Run("release_safe_mode", func(t *testing.T) {
		ctrl := &stubController{snap: domain.Snapshot{Mode: domain.ModeStandby}}
		s := NewServer(ctrl, "test")

		res, err := s.handleRelease(ctx, req, nil)
		require.NoError(t, err)
		assert.False(t, res.Accepted)
		assert.Equal(t, 0, ctrl.releases)

		ctrl.snap = domain.Snapshot{Mode: domain.ModeSafeStop, Latched: true}
		res, err = s.handleRelease(ctx, req, nil)
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, 1, ctrl.releases)
	})
}
