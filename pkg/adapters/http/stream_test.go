package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	stancehttp "github.com/aretw0/stance/pkg/adapters/http"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	ctrl := &fakeController{snap: domain.Snapshot{Tick: 1, Mode: domain.ModeStandby}}
	srv := httptest.NewServer(stancehttp.NewHandler(ctrl))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/stream?interval=10ms"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var first domain.Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, uint64(1), first.Tick)
	assert.Equal(t, domain.ModeStandby, first.Mode)

	ctrl.mu.Lock()
	ctrl.snap = domain.Snapshot{Tick: 2, Mode: domain.ModeStand}
	ctrl.mu.Unlock()

	var next domain.Snapshot
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, uint64(2), next.Tick)
	assert.Equal(t, domain.ModeStand, next.Mode)
}

func TestStream_BadInterval(t *testing.T) {
	h := stancehttp.NewHandler(&fakeController{})

	for _, q := range []string{"fast", "1ms"} {
		w := do(t, h, "GET", "/v1/stream?interval="+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestStream_RequiresUpgrade(t *testing.T) {
	w := do(t, stancehttp.NewHandler(&fakeController{}), "GET", "/v1/stream", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
