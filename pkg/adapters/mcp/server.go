// Package mcp exposes calculator sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/logging"
	"github.com/aretw0/keypad/internal/presentation/graph"
	"github.com/aretw0/keypad/internal/runtime"
	"github.com/aretw0/keypad/pkg/runner"
	"github.com/aretw0/keypad/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	graphURI = "keypad://graph"
	keysURI  = "keypad://keys"
)

// SessionArgs names an existing session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// PressArgs feeds keys to a session. Keys may be run together ("12+3=") or space separated.
type PressArgs struct {
	SessionID string `json:"session_id"`
	Keys      string `json:"keys"`
}

// Server wraps a session manager and exposes it as an MCP Server.
type Server struct {
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("keypad-mcp", keypad.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("new_session",
		mcp.WithDescription("Start a calculator session showing 0. Returns its id and view."),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleNewSession))

	s.mcpServer.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press keys in order: digits, '.', + - * /, s (negate), r (sqrt), = (compute), c or AC (reset)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from new_session")),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Keys run together or space separated, e.g. \"12+3=\"")),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handlePressKeys))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Return the session to 0, clearing any error."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.mcpServer.AddTool(mcp.NewTool("current_value",
		mcp.WithDescription("Read what the session displays without changing it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleCurrentValue))
}

func (s *Server) handleNewSession(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (session.View, error) {
	view, err := s.sessions.Create(ctx)
	if err != nil {
		return session.View{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Debug("MCP session created", "session_id", view.SessionID)
	return view, nil
}

func (s *Server) handlePressKeys(ctx context.Context, _ mcp.CallToolRequest, args PressArgs) (session.View, error) {
	if args.SessionID == "" {
		return session.View{}, fmt.Errorf("session_id is required")
	}
	clean, err := runner.SanitizeInput(args.Keys)
	if err != nil {
		s.logger.Warn("MCP press_keys: Input rejected", "err", err, "size", len(args.Keys))
		return session.View{}, fmt.Errorf("input rejected: %w", err)
	}
	keys := runner.Tokenize(clean)
	if len(keys) == 0 {
		return session.View{}, fmt.Errorf("no keys given")
	}
	view, err := s.sessions.Press(ctx, args.SessionID, keys...)
	if err != nil {
		return session.View{}, fmt.Errorf("press keys: %w", err)
	}
	return view, nil
}

func (s *Server) handleReset(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.View, error) {
	view, err := s.sessions.Reset(ctx, args.SessionID)
	if err != nil {
		return session.View{}, fmt.Errorf("reset: %w", err)
	}
	return view, nil
}

func (s *Server) handleCurrentValue(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.View, error) {
	view, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return session.View{}, fmt.Errorf("current value: %w", err)
	}
	return view, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Calculator state diagram",
		mcp.WithResourceDescription("Mermaid flowchart of the calculator states"),
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(runtime.Edges(), nil),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(keysURI, "Key reference",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      keysURI,
				MIMEType: "text/markdown",
				Text:     runner.HelpText(),
			},
		}, nil
	})
}
