package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/image-review-mcp/internal/config"
	"github.com/ironsheep/image-review-mcp/internal/imaging"
	"github.com/ironsheep/image-review-mcp/internal/interaction"
	"github.com/ironsheep/image-review-mcp/internal/session"
)

// Server handles MCP protocol communication for a single review session.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	version string

	cache   *imaging.ImageCache
	session *session.Session
	events  []MCPNotification
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Options configure a Server. Nil fields take defaults.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Version string
}

// New creates a server with a fresh session.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		version: version,
		cache:   imaging.NewImageCache(),
	}
	s.session = s.newSession()
	return s
}

// newSession builds a session from the configuration with its events routed
// into the notification queue.
func (s *Server) newSession() *session.Session {
	vp := s.cfg.Viewport
	ic := s.cfg.Interaction
	return session.New(session.Options{
		Container: interaction.Container{Left: vp.Left, Top: vp.Top, Width: vp.Width, Height: vp.Height},
		Interaction: interaction.Options{
			ClickThreshold: ic.ClickThreshold,
			WheelStep:      ic.WheelStep,
			MinZoom:        ic.MinZoom,
			MaxZoom:        ic.MaxZoom,
		},
		AutoApplyRecommendedView: s.cfg.Review.AutoApplyRecommendedView,
		Logger:                   s.logger,
	}, s.sessionEvents())
}

// Run serves MCP over stdin and stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC message per line from r and writes responses to w.
// Session events raised while handling a request are written after its
// response, in the order they occurred.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", "error", err)
			}
		}
		for _, n := range s.drainEvents() {
			if err := encoder.Encode(n); err != nil {
				s.logger.Error("failed to encode notification", "method", n.Method, "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-review-mcp",
				"version": s.version,
			},
		},
	}
}
