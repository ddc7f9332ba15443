// Package main is the entry point for the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/config"
	"github.com/luckylabs-yuno/yuno/internal/embed"
	"github.com/luckylabs-yuno/yuno/internal/handler"
	"github.com/luckylabs-yuno/yuno/internal/lead"
	"github.com/luckylabs-yuno/yuno/internal/llm"
	natsclient "github.com/luckylabs-yuno/yuno/internal/nats"
	"github.com/luckylabs-yuno/yuno/internal/notify"
	"github.com/luckylabs-yuno/yuno/internal/store"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
	"github.com/luckylabs-yuno/yuno/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "yuno-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Lead store
	var leadStore store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		leadStore = pg
	} else {
		log.Warn("DATABASE_URL not set, leads are kept in memory")
		leadStore = store.NewMemoryStore()
	}
	defer leadStore.Close()

	// Team notifications
	var notifier notify.Notifier = notify.Nop{}
	if cfg.ResendAPIKey != "" {
		notifier = notify.NewResend(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyRecipient)
	}

	// Initialize LLM client
	var llmClient llm.Client
	if provider := cfg.LLMProvider(); provider != "" {
		key := cfg.AnthropicAPIKey
		if provider == string(llm.ProviderOpenAI) {
			key = cfg.OpenAIAPIKey
		}
		c, err := llm.NewClient(llm.Provider(provider), key, cfg.LLMBaseURL)
		if err != nil {
			log.Warn("failed to create LLM client, /ask disabled", zap.Error(err))
		} else {
			llmClient = c
			log.Info("inference enabled", zap.String("provider", c.Name()))
		}
	} else {
		log.Warn("no LLM key configured, /ask disabled")
	}

	// Transcripts on NATS
	var (
		natsClient *natsclient.Client
		recorder   handler.TranscriptRecorder
		reader     handler.TranscriptReader
	)
	if cfg.NATSURL != "" {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		rec := natsclient.NewRecorder(natsClient)
		if err := rec.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure transcript stream", zap.Error(err))
		}
		recorder, reader = rec, rec
	}

	// Initialize services
	leadSvc := lead.NewService(leadStore,
		lead.WithNotifier(notifier),
		lead.WithLogger(log),
	)

	router := handler.NewRouter(handler.Routes{
		Health:        handler.NewHealthHandler(leadStore, natsClient),
		Leads:         handler.NewLeadHandler(leadSvc, log),
		Ask:           handler.NewAskHandler(llmClient, cfg.LLMModel, cfg.LLMTimeout, recorder, log),
		Embed:         handler.NewEmbedHandler(cfg.PublicBaseURL+"/"+embed.ScriptName, log),
		Admin:         handler.NewAdminHandler(leadSvc, reader, log),
		JWTSecret:     cfg.JWTSecret,
		AskLimit:      cfg.RateLimitRequests,
		LeadLimit:     cfg.LeadRateLimit,
		LimitWindow:   cfg.RateLimitWindow,
		Logger:        log,
		ExposeMetrics: true,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
