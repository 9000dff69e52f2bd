package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/DanielPopoola/x402-gateway/internal/infrastructure/events"
	"github.com/DanielPopoola/x402-gateway/internal/infrastructure/facilitator"
	"github.com/DanielPopoola/x402-gateway/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/x402-gateway/internal/infrastructure/replay"
	"github.com/DanielPopoola/x402-gateway/internal/infrastructure/retry"
	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/x402-gateway/internal/metrics"
	"github.com/DanielPopoola/x402-gateway/internal/telemetry"
	"github.com/DanielPopoola/x402-gateway/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting x402 gateway",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"network", cfg.Payment.Network,
		"price", cfg.Payment.Price,
		"replay_backend", cfg.Replay.Backend,
	)
	if cfg.Facilitator.SimulateSettlement {
		logger.Warn("simulated settlement enabled, unreachable facilitator will be treated as paid")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	price, err := cfg.Payment.PriceValue()
	if err != nil {
		logger.Error("invalid payment price", "error", err)
		os.Exit(1)
	}

	executorURL, err := url.Parse(cfg.Backend.ExecutorURL)
	if err != nil {
		logger.Error("invalid executor url", "error", err)
		os.Exit(1)
	}

	promMetrics := metrics.New(prometheus.DefaultRegisterer)

	store, checks, closeStore, err := buildNonceStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise nonce store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	opts := []application.VerifierOption{application.WithMetrics(promMetrics)}
	if store != nil {
		opts = append(opts, application.WithNonceStore(store))
	}

	if cfg.Events.Enabled() {
		publisher := events.NewKafkaPublisher(cfg.Events)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("failed to close kafka publisher", "error", err)
			}
		}()
		opts = append(opts, application.WithSettlementPublisher(publisher))
		logger.Info("publishing settlement events", "brokers", cfg.Events.KafkaBrokers, "topic", cfg.Events.Topic)
	}

	verifier := application.NewVerifier(
		application.NewVerifierConfig(cfg.Payment, cfg.Facilitator),
		facilitator.NewFacilitatorClient(cfg.Facilitator),
		logger,
		opts...,
	)

	builder := application.NewRequirementBuilder(cfg.Payment)
	paywall := middleware.NewPaywall(builder, verifier, middleware.FixedPrice(price), cfg.Payment.Network, logger).
		WithRecorder(promMetrics)

	h := handlers.NewHandlers(
		builder,
		price,
		handlers.NewExecutorProxy(executorURL, logger),
		checks,
		logger,
	)

	mux := http.NewServeMux()
	h.Register(mux, paywall)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.RequestTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	// Redis expires keys on its own.
	if store != nil && cfg.Replay.Backend != "redis" {
		sweeper := worker.NewNonceSweeper(store, cfg.Replay.SweepInterval, logger)
		go sweeper.Start(workerCtx)
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server exited")
}

// buildNonceStore returns a nil store when replay protection is disabled.
func buildNonceStore(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (domain.NonceStore, map[string]handlers.HealthCheck, func(), error) {
	retrier := retry.New(cfg.Retry, logger)

	switch cfg.Replay.Backend {
	case "redis":
		client := replay.NewRedisClient(cfg.Redis)
		_, err := retry.Do(ctx, retrier, "redis", func(ctx context.Context) (string, error) {
			return client.Ping(ctx).Result()
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		checks := map[string]handlers.HealthCheck{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}
		return replay.NewRedisNonceStore(client), checks, func() { _ = client.Close() }, nil

	case "postgres":
		db, err := retry.Do(ctx, retrier, "postgres", func(ctx context.Context) (*postgres.DB, error) {
			return postgres.Connect(ctx, &cfg.Database, logger)
		})
		if err != nil {
			return nil, nil, nil, err
		}
		checks := map[string]handlers.HealthCheck{
			"postgres": db.Pool.Ping,
		}
		return postgres.NewNonceRepository(db), checks, db.Close, nil

	case "none", "":
		logger.Warn("replay protection disabled")
		return nil, nil, func() {}, nil

	default:
		return replay.NewMemoryNonceStore(), nil, func() {}, nil
	}
}
