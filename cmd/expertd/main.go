package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flitsinc/go-experts/internal/ai"
	"github.com/flitsinc/go-experts/internal/api"
	"github.com/flitsinc/go-experts/internal/config"
	"github.com/flitsinc/go-experts/internal/form"
	"github.com/flitsinc/go-experts/internal/logging"
	"github.com/flitsinc/go-experts/internal/metrics"
	"github.com/flitsinc/go-experts/internal/web"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = logger.Sync() }()

	if cfg.MissingCredential() {
		logger.Warn("credential missing; requests will fail until it is set",
			zap.String("env", config.CredentialEnv(cfg.LLMProvider)))
	}

	startedAt := time.Now().UTC()
	serverCtx, serverCancel := context.WithCancel(context.Background())

	// Built once and shared by every request.
	llmClient := ai.NewClient(serverCtx, ai.Config{
		Provider:    cfg.LLMProvider,
		Model:       cfg.LLMModel,
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Temperature: cfg.LLMTemperature,
	})
	if err := llmClient.Err(); err != nil {
		logger.Warn("llm client unavailable", zap.Error(err))
	}
	defer func() { _ = llmClient.Close() }()

	m := metrics.New()
	expertForm := &form.Form{
		Asker:   llmClient,
		Warning: cfg.CredentialWarning(),
		Logger:  logger,
		Metrics: m,
	}

	apiServer := &api.Server{
		Form:      expertForm,
		Client:    llmClient,
		Logger:    logger,
		StartedAt: startedAt,
		Info: api.DiagnosticsInfo{
			HTTPAddr:          cfg.HTTPAddr,
			LLMProvider:       cfg.LLMProvider,
			LLMModel:          cfg.LLMModel,
			LLMTemperature:    cfg.LLMTemperature,
			CredentialPresent: !cfg.MissingCredential(),
		},
		OriginPatterns: cfg.WSOrigins,
	}
	webServer := &web.Server{Form: expertForm, Logger: logger}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer.Handler())
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/", webServer.Handler())

	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	httpServer := &http.Server{
		Handler:           loggingMiddleware(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
	}

	go func() {
		logger.Info("expertd listening",
			zap.String("addr", listener.Addr().String()),
			zap.String("provider", cfg.LLMProvider),
			zap.String("model", cfg.LLMModel))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	serverCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	_ = httpServer.Close()
}

func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
