package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/rolimons-bridge/internal/bridge"
	"github.com/dalfonso89/rolimons-bridge/internal/logger"
	"github.com/dalfonso89/rolimons-bridge/internal/middleware"
	"github.com/dalfonso89/rolimons-bridge/internal/models"
)

// Version reported by the health endpoint
const Version = "1.0.0"

// maxArgsBytes bounds an invoke request body
const maxArgsBytes = 1 << 20

// HandlerConfig holds dependencies for creating handlers
type HandlerConfig struct {
	Logger            *logger.Logger
	Registry          *bridge.Registry
	CORSAllowedOrigin string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	logger            *logger.Logger
	registry          *bridge.Registry
	corsAllowedOrigin string
	startTime         time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	allowedOrigin := handlerConfig.CORSAllowedOrigin
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &Handlers{
		logger:            handlerConfig.Logger,
		registry:          handlerConfig.Registry,
		corsAllowedOrigin: allowedOrigin,
		startTime:         time.Now(),
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(handlers.corsAllowedOrigin))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/commands", handlers.ListCommands)
	router.POST("/invoke/:command", handlers.Invoke)

	// dev proxy route the front-end used before the native bridge existed
	router.GET("/rolimon-items", handlers.GetRolimonItems)

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	context.JSON(http.StatusOK, models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(handlers.startTime).String(),
	})
}

// ListCommands returns the names accepted by /invoke
func (handlers *Handlers) ListCommands(context *gin.Context) {
	context.JSON(http.StatusOK, models.CommandList{Commands: handlers.registry.Names()})
}

// Invoke runs a bridge command with the JSON request body as its arguments
func (handlers *Handlers) Invoke(context *gin.Context) {
	commandName := context.Param("command")

	args, readError := io.ReadAll(io.LimitReader(context.Request.Body, maxArgsBytes))
	if readError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, &bridge.ArgumentError{Command: commandName, Err: readError})
		return
	}

	result, invokeError := handlers.registry.Invoke(context.Request.Context(), commandName, json.RawMessage(args))
	if invokeError != nil {
		handlers.writeErrorResponse(context, statusFor(invokeError), invokeError)
		return
	}

	context.JSON(http.StatusOK, result)
}

// GetRolimonItems serves the item catalog body as the upstream sent it
func (handlers *Handlers) GetRolimonItems(context *gin.Context) {
	result, invokeError := handlers.registry.Invoke(context.Request.Context(), bridge.CommandGetRolimonItems, nil)
	if invokeError != nil {
		handlers.writeErrorResponse(context, statusFor(invokeError), invokeError)
		return
	}

	items, _ := result.(string)
	context.Data(http.StatusOK, "application/json; charset=utf-8", []byte(items))
}

// statusFor maps a command failure onto the local HTTP status
func statusFor(err error) int {
	switch bridge.Classify(err) {
	case bridge.KindUnknownCommand:
		return http.StatusNotFound
	case bridge.KindInvalidArguments:
		return http.StatusBadRequest
	case bridge.KindTransport, bridge.KindProtocol, bridge.KindShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, err error) {
	context.JSON(statusCode, models.ErrorResponse{
		Error: err.Error(),
		Kind:  bridge.Classify(err).String(),
		Code:  statusCode,
	})
}
