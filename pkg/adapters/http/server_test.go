package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	stancehttp "github.com/aretw0/stance/pkg/adapters/http"
	"github.com/aretw0/stance/pkg/adapters/memory"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu       sync.Mutex
	snap     domain.Snapshot
	releases int
}

func (f *fakeController) Snapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) Modes() []domain.ModeInfo {
	return []domain.ModeInfo{
		{Name: domain.ModeSafeStop, Transitions: []domain.ModeName{domain.ModeStandby}, Safe: true},
		{Name: domain.ModeStandby, Transitions: []domain.ModeName{domain.ModeStand}, Start: true, Active: true},
		{Name: domain.ModeStand},
	}
}

func (f *fakeController) RequestRelease() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	ctrl := &fakeController{}
	h := stancehttp.NewHandler(ctrl)

	w := do(t, h, "GET", "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	ctrl.snap.Mode = domain.ModeStandby
	w = do(t, h, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestFeedbackAndModes(t *testing.T) {
	ctrl := &fakeController{snap: domain.Snapshot{
		Tick: 42,
		Mode: domain.ModeStand,
		Feedback: domain.MotionFeedback{
			StandProgress: 0.5,
			Faults:        domain.FaultAttitude,
		},
	}}
	h := stancehttp.NewHandler(ctrl)

	w := do(t, h, "GET", "/v1/feedback", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, uint64(42), snap.Tick)
	assert.Equal(t, domain.ModeStand, snap.Mode)
	assert.InDelta(t, 0.5, snap.Feedback.StandProgress, 1e-9)
	assert.True(t, snap.Feedback.Faults.Has(domain.FaultAttitude))

	w = do(t, h, "GET", "/v1/modes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var modes []domain.ModeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &modes))
	require.Len(t, modes, 3)
	assert.True(t, modes[0].Safe)
}

func TestCommand(t *testing.T) {
	ctrl := &fakeController{}
	cmd := memory.NewLatestCommand()

	t.Run("Disabled without setter", func(t *testing.T) {
		h := stancehttp.NewHandler(ctrl)
		w := do(t, h, "POST", "/v1/command", `{"mode":"stand"}`)
		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	h := stancehttp.NewHandler(ctrl, stancehttp.WithIntentSetter(cmd))

	t.Run("Accepted", func(t *testing.T) {
		w := do(t, h, "POST", "/v1/command", `{"mode":"stand","velocity":[0.3,0,0.1]}`)
		assert.Equal(t, http.StatusAccepted, w.Code)
		latest := cmd.Latest()
		assert.Equal(t, domain.ModeStand, latest.Mode)
		assert.InDelta(t, 0.3, latest.Velocity[0], 1e-9)
		assert.Equal(t, uint64(1), latest.Seq)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		w := do(t, h, "POST", "/v1/command", `{"mode":"climb"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.ModeStand, cmd.Latest().Mode)
	})

	t.Run("Malformed body", func(t *testing.T) {
		w := do(t, h, "POST", "/v1/command", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRelease(t *testing.T) {
	ctrl := &fakeController{snap: domain.Snapshot{Mode: domain.ModeStandby}}
	h := stancehttp.NewHandler(ctrl)

	w := do(t, h, "POST", "/v1/release", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, ctrl.releases)

	ctrl.snap = domain.Snapshot{Mode: domain.ModeSafeStop, Latched: true}
	w = do(t, h, "POST", "/v1/release", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, ctrl.releases)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "stance_ticks_total", Help: "ticks"})
	reg.MustRegister(c)
	c.Add(3)

	h := stancehttp.NewHandler(&fakeController{}, stancehttp.WithGatherer(reg))
	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stance_ticks_total 3")

	w = do(t, stancehttp.NewHandler(&fakeController{}), "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := stancehttp.NewHandler(&fakeController{})
	w := do(t, h, "OPTIONS", "/v1/command", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
