package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/config"
	"github.com/zhouzirui/eureka/backend/internal/handler"
	"github.com/zhouzirui/eureka/backend/internal/metrics"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
	"github.com/zhouzirui/eureka/backend/internal/service/ai"
	"github.com/zhouzirui/eureka/backend/internal/service/chat"
	"github.com/zhouzirui/eureka/backend/internal/service/events"
	"github.com/zhouzirui/eureka/backend/internal/service/extraction"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, using system environment only", zap.Error(envErr))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNew("eureka", registry)

	personas := persona.NewDefaultStore()

	// Inference is optional: without credentials every turn gets the apology reply.
	aiSvc := ai.NewServiceWithModel(nil, ai.WithLogger(logger), ai.WithMetrics(m))
	if cfg.AI.Enabled() {
		svc, err := ai.NewService(ctx, cfg.AI, ai.WithLogger(logger), ai.WithMetrics(m))
		if err != nil {
			logger.Warn("AI service unavailable, continuing without inference", zap.Error(err))
		} else {
			aiSvc = svc
			logger.Info("AI service initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		logger.Warn("Ark credentials not configured, skipping AI initialization")
	}

	extractor, err := extraction.NewService(ctx, aiSvc.ChatModel(), extraction.Config{
		Enabled: cfg.AI.ExtractionEnabled,
		Timeout: cfg.AI.Timeout,
	}, logger.Named("extraction"), m)
	if err != nil {
		logger.Fatal("failed to initialize extraction", zap.Error(err))
	}
	if !extractor.Enabled() {
		logger.Info("field extraction disabled")
	}

	opts := []chat.Option{
		chat.WithCompleter(aiSvc),
		chat.WithExtractor(extractor),
		chat.WithMetrics(m),
		chat.WithLogger(logger.Named("chat")),
		chat.WithWindow(cfg.AI.ExtractionWindow),
		chat.WithTemperature(cfg.AI.ChatTemperature),
	}

	if cfg.Session.MaxSessions > 0 {
		store, err := chat.NewLRUStore(cfg.Session.MaxSessions, func(id string) {
			m.SessionRemoved("capacity")
			logger.Info("session evicted", zap.String("session_id", id))
		})
		if err != nil {
			logger.Fatal("failed to create session store", zap.Error(err))
		}
		opts = append(opts, chat.WithStore(store))
		logger.Info("bounded session store", zap.Int("max_sessions", cfg.Session.MaxSessions))
	}

	if cfg.Events.Enabled() {
		client, err := events.NewClient(ctx, cfg.Events.URL, cfg.Events.Token, logger.Named("events"))
		if err != nil {
			logger.Warn("NATS unavailable, session events disabled", zap.Error(err))
		} else {
			defer client.Close()
			opts = append(opts, chat.WithNotifier(events.NewEmitter(client, logger.Named("events"))))
		}
	}

	engine := chat.NewService(personas, opts...)

	if cfg.Session.IdleTTL > 0 {
		sweeper := chat.NewSweeper(engine, cfg.Session.IdleTTL, cfg.Session.SweepInterval, logger)
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	router := handler.NewRouter(handler.Deps{
		Personas:       personas,
		Engine:         engine,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Gatherer:       registry,
		Logger:         logger,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("EUREKA backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv, serverCfg.ShutdownTimeout); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
