package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/dalfonso89/rolimons-bridge/internal/api"
	"github.com/dalfonso89/rolimons-bridge/internal/bridge"
	"github.com/dalfonso89/rolimons-bridge/internal/config"
	"github.com/dalfonso89/rolimons-bridge/internal/httpclient"
	"github.com/dalfonso89/rolimons-bridge/internal/ipc"
	"github.com/dalfonso89/rolimons-bridge/internal/logger"
	"github.com/dalfonso89/rolimons-bridge/internal/platform"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize the command bridge
	client := httpclient.New(logger)
	registry := bridge.NewRegistry(bridge.New(client, logger), logger)

	// Create a shutdown context that works across platforms
	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()

	group, groupCtx := errgroup.WithContext(shutdownCtx)

	if cfg.StdioEnabled() {
		stdioServer := ipc.NewServer(registry, logger).Stdio(shutdownCtx)
		// not part of the group: a blocked stdin read must not hold up shutdown
		go func() {
			logger.Info("Serving bridge commands over stdio")
			err := stdioServer.ListenAndServe()
			switch {
			case err == nil:
				logger.Info("Stdin closed")
			case errors.Is(err, context.Canceled):
				logger.Info("Stdio transport stopped")
			default:
				logger.Errorf("Stdio transport stopped: %v", err)
			}
			stop()
		}()
		group.Go(func() error {
			<-groupCtx.Done()
			// Let in-flight invocations write their responses
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return stdioServer.Shutdown(ctx)
		})
	}

	if cfg.HTTPEnabled() {
		gin.SetMode(gin.ReleaseMode)
		handlers := api.NewHandlers(api.HandlerConfig{
			Logger:            logger,
			Registry:          registry,
			CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		})
		server := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handlers.SetupRoutes(),
			ReadHeaderTimeout: 15 * time.Second,
		}

		group.Go(func() error {
			logger.Info("Serving bridge commands on http://" + cfg.Addr())
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			// Give outstanding invocations time to complete
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		})
	}

	<-groupCtx.Done()
	logger.Info("Shutting down bridge...")

	if err := group.Wait(); err != nil {
		logger.Fatalf("Bridge stopped with error: %v", err)
	}

	logger.Info("Bridge exited")
}
