package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultStreamInterval = 50 * time.Millisecond
	minStreamInterval     = 10 * time.Millisecond
	streamWriteWait       = time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API already allows any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WithStreamInterval sets the default sampling interval of GET /v1/stream.
func WithStreamInterval(d time.Duration) Option {
	return func(srv *Server) {
		if d >= minStreamInterval {
			srv.StreamInterval = d
		}
	}
}

// Stream handles GET /v1/stream. It upgrades to a WebSocket and pushes the
// snapshot every time a new tick has been published, sampled at most once per
// interval. The interval query parameter (e.g. ?interval=200ms) overrides the
// server default. Messages from the client are ignored; the stream ends when
// the client closes the connection.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	interval := s.StreamInterval
	if v := r.URL.Query().Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < minStreamInterval {
			http.Error(w, "Invalid interval", http.StatusBadRequest)
			return
		}
		interval = d
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("Stream: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Read loop
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastTick uint64
	sent := false
	for {
		snap := s.Controller.Snapshot()
		if !sent || snap.Tick != lastTick {
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(snap); err != nil {
				s.Logger.Debug("Stream: client gone", "error", err)
				return
			}
			lastTick = snap.Tick
			sent = true
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
