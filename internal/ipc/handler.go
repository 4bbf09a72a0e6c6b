package ipc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dalfonso89/rolimons-bridge/internal/bridge"
	"github.com/dalfonso89/rolimons-bridge/internal/logger"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
)

// Handler serves bridge commands for one JSON-RPC connection.
// The request method is the command name and params its arguments.
type Handler struct {
	transport.Notifier
	registry *bridge.Registry
	logger   *logger.Logger
}

// Serve handles incoming JSON-RPC requests
func (h *Handler) Serve(ctx context.Context, request *jsonrpc.Request, response *jsonrpc.Response) {
	if jsonrpc.Version != request.Jsonrpc {
		response.Error = jsonrpc.NewInvalidRequest("invalid JSON-RPC version", nil)
		return
	}

	result, err := h.registry.Invoke(ctx, request.Method, request.Params)
	if err != nil {
		response.Error = asRPCError(err, request)
		return
	}

	response.Result, err = json.Marshal(result)
	if err != nil {
		response.Error = jsonrpc.NewInternalError(err.Error(), nil)
	}
}

// OnNotification handles incoming JSON-RPC notifications.
// Bridge commands always answer, so notifications carry nothing to do.
func (h *Handler) OnNotification(ctx context.Context, notification *jsonrpc.Notification) {
	h.logger.Debugf("Ignoring notification: %s", notification.Method)
}

// asRPCError keeps the command's message intact: the front-end only sees the text
func asRPCError(err error, request *jsonrpc.Request) *jsonrpc.Error {
	switch bridge.Classify(err) {
	case bridge.KindUnknownCommand:
		return jsonrpc.NewMethodNotFound(fmt.Sprintf("method: %v not found", request.Method), request.Params)
	case bridge.KindInvalidArguments:
		return jsonrpc.NewInvalidParamsError(err.Error(), request.Params)
	default:
		return jsonrpc.NewInternalError(err.Error(), nil)
	}
}
