package ipc

import (
	"context"

	"github.com/dalfonso89/rolimons-bridge/internal/bridge"
	"github.com/dalfonso89/rolimons-bridge/internal/logger"

	"github.com/viant/jsonrpc/transport"
)

// Server exposes a command registry to the desktop shell over JSON-RPC
type Server struct {
	registry *bridge.Registry
	logger   *logger.Logger
}

// NewServer creates a JSON-RPC server over registry
func NewServer(registry *bridge.Registry, logger *logger.Logger) *Server {
	return &Server{
		registry: registry,
		logger:   logger,
	}
}

// NewHandler creates a handler for one transport connection
func (s *Server) NewHandler(ctx context.Context, transport transport.Transport) transport.Handler {
	return s.newHandler(transport)
}

func (s *Server) newHandler(notifier transport.Notifier) *Handler {
	return &Handler{
		Notifier: notifier,
		registry: s.registry,
		logger:   s.logger,
	}
}

// Stdio returns a server reading requests from stdin and writing responses to stdout
func (s *Server) Stdio(ctx context.Context, options ...StdioOption) *StdioServer {
	return newStdioServer(ctx, s, options...)
}
