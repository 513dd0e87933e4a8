package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FeedbackResponse is the structured result of get_feedback.
type FeedbackResponse struct {
	Snapshot domain.Snapshot `json:"snapshot" jsonschema_description:"State published at the last tick boundary"`
	Faults   string          `json:"faults" jsonschema_description:"Human readable fault flags"`
}

// ModesResponse is the structured result of list_modes.
type ModesResponse struct {
	Modes []domain.ModeInfo `json:"modes" jsonschema_description:"Registered modes with their declared transitions"`
}

// AckResponse is returned by the tools that change controller state.
type AckResponse struct {
	Accepted bool            `json:"accepted"`
	Mode     domain.ModeName `json:"mode" jsonschema_description:"Mode active when the request was accepted"`
	Message  string          `json:"message,omitempty"`
}

// Server exposes a controller as an MCP server.
type Server struct {
	ctrl      ports.Controller
	intents   ports.IntentSetter
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithIntentSetter enables the request_mode tool.
func WithIntentSetter(s ports.IntentSetter) Option {
	return func(srv *Server) {
		srv.intents = s
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		if logger != nil {
			srv.logger = logger
		}
	}
}

// NewServer creates a new MCP server for ctrl.
func NewServer(ctrl ports.Controller, version string, opts ...Option) *Server {
	s := &Server{
		ctrl:      ctrl,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("stance-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_feedback",
		mcp.WithDescription("Get the active mode, latch state and motion feedback of the last tick."),
		mcp.WithOutputSchema[FeedbackResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetFeedback))

	s.mcpServer.AddTool(mcp.NewTool("list_modes",
		mcp.WithDescription("List the registered control modes and their declared transitions."),
		mcp.WithOutputSchema[ModesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListModes))

	s.mcpServer.AddTool(mcp.NewTool("request_mode",
		mcp.WithDescription("Set the operator intent. The active mode decides whether to honour it."),
		mcp.WithString("mode", mcp.Required(), mcp.Description("Target mode name")),
		mcp.WithNumber("vx", mcp.Description("Forward velocity (m/s)")),
		mcp.WithNumber("vy", mcp.Description("Lateral velocity (m/s)")),
		mcp.WithNumber("wz", mcp.Description("Yaw rate (rad/s)")),
		mcp.WithOutputSchema[AckResponse](),
	), mcp.NewStructuredToolHandler(s.handleRequestMode))

	s.mcpServer.AddTool(mcp.NewTool("release_safe_mode",
		mcp.WithDescription("Release a latched safe mode so that it may hand control back."),
		mcp.WithOutputSchema[AckResponse](),
	), mcp.NewStructuredToolHandler(s.handleRelease))
}

func (s *Server) handleGetFeedback(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FeedbackResponse, error) {
	snap := s.ctrl.Snapshot()
	return FeedbackResponse{Snapshot: snap, Faults: snap.Feedback.Faults.String()}, nil
}

func (s *Server) handleListModes(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModesResponse, error) {
	return ModesResponse{Modes: s.ctrl.Modes()}, nil
}

func (s *Server) handleRequestMode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (AckResponse, error) {
	if s.intents == nil {
		return AckResponse{}, errors.New("commands are not enabled")
	}
	mode, _ := args["mode"].(string)
	if mode == "" {
		return AckResponse{}, errors.New("mode is required")
	}
	known := slices.ContainsFunc(s.ctrl.Modes(), func(m domain.ModeInfo) bool {
		return m.Name == domain.ModeName(mode)
	})
	if !known {
		return AckResponse{}, fmt.Errorf("%w: %s", domain.ErrUnknownMode, mode)
	}

	intent := domain.UserIntent{Mode: domain.ModeName(mode)}
	for i, key := range []string{"vx", "vy", "wz"} {
		if v, ok := args[key].(float64); ok {
			intent.Velocity[i] = v
		}
	}
	s.intents.SetIntent(intent)
	s.logger.Info("MCP request_mode", "mode", mode, "velocity", intent.Velocity)

	return AckResponse{Accepted: true, Mode: s.ctrl.Snapshot().Mode}, nil
}

func (s *Server) handleRelease(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (AckResponse, error) {
	snap := s.ctrl.Snapshot()
	if !snap.Latched {
		return AckResponse{Accepted: false, Mode: snap.Mode, Message: domain.ErrNotLatched.Error()}, nil
	}
	s.ctrl.RequestRelease()
	return AckResponse{Accepted: true, Mode: snap.Mode, Message: "release applies on the next tick"}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("stance://modes", "Registered control modes",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.ctrl.Modes())
		if err != nil {
			return nil, fmt.Errorf("failed to encode modes: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stance://modes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
