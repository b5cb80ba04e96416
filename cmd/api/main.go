package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tokenforge/forge-backend/internal/api"
	"github.com/tokenforge/forge-backend/internal/config"
	"github.com/tokenforge/forge-backend/internal/launch"
	"github.com/tokenforge/forge-backend/internal/log"
	"github.com/tokenforge/forge-backend/internal/metrics"
	"github.com/tokenforge/forge-backend/internal/onchain"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := log.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting Forge API server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
		"version", "v1.0.0",
	)

	// Setup metrics
	metricsObj, metricsHandler, err := metrics.Setup("forge-api")
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	// Setup chain client and validators
	chainClient := onchain.NewClient(cfg.Sui.RPCURL)
	validator := onchain.NewValidator(chainClient, logger)
	logger.Infow("Chain client configured", "rpc", cfg.Sui.RPCURL)

	// Setup launch pipeline
	uploader, err := launch.NewUploader(cfg.Launch.IPFSAPIURL, cfg.Launch.ProxyURL, logger)
	if err != nil {
		logger.Fatalw("Failed to setup metadata uploader", "error", err)
	}
	tradeClient := launch.NewTradeClient(cfg.Launch.TradeAPIURL)
	launcher := launch.NewLauncher(uploader, tradeClient, logger)

	if cfg.Launch.ProxyURL != "" {
		logger.Infow("Metadata upload proxy enabled", "proxy", cfg.Launch.ProxyURL)
	}

	// Setup API handler and middleware
	handler := api.NewHandler(launcher, validator, cfg, logger, metricsObj)
	middleware := api.NewMiddleware(logger, metricsObj)

	router := handler.Routes(middleware, cfg.Security.CORSAllowedOrigins, cfg.Security.RateLimitRPM)

	logger.Infow("CORS configured", "allowed_origins", cfg.Security.CORSAllowedOrigins)

	// Add metrics endpoint
	router.Handle("/metrics", metricsHandler)

	// Setup HTTP server
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatalw("Server startup failed", "error", err)
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		// Give outstanding requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			server.Close()
		}

		logger.Infow("Server stopped")
	}
}
