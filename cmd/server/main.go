package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arjun-iyer/corpusengine/internal/analytics"
	"github.com/arjun-iyer/corpusengine/internal/auth/apikey"
	"github.com/arjun-iyer/corpusengine/internal/auth/ratelimit"
	"github.com/arjun-iyer/corpusengine/internal/engine"
	"github.com/arjun-iyer/corpusengine/internal/searchcache"
	"github.com/arjun-iyer/corpusengine/internal/server"
	"github.com/arjun-iyer/corpusengine/pkg/config"
	"github.com/arjun-iyer/corpusengine/pkg/health"
	"github.com/arjun-iyer/corpusengine/pkg/kafka"
	"github.com/arjun-iyer/corpusengine/pkg/logger"
	"github.com/arjun-iyer/corpusengine/pkg/metrics"
	"github.com/arjun-iyer/corpusengine/pkg/middleware"
	"github.com/arjun-iyer/corpusengine/pkg/postgres"
	pkgredis "github.com/arjun-iyer/corpusengine/pkg/redis"
	"github.com/arjun-iyer/corpusengine/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting corpusengine server", "port", cfg.Server.Port)

	eng, err := engine.New(cfg.Engine.StopWords)
	if err != nil {
		slog.Error("failed to construct engine", "error", err)
		os.Exit(1)
	}
	slog.Info("engine initialized", "stop_words", eng.StopWordCount())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var cache *searchcache.Cache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cache = searchcache.New(redisClient, eng, cfg.Redis.CacheTTL, m.CacheHitsTotal.Inc, m.CacheMissesTotal.Inc)
		slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	kafkaBreaker := resilience.NewCircuitBreaker("kafka-publish", resilience.CircuitBreakerConfig{})
	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.AnalyticsEvents)
	defer producer.Close()
	publish := func(ctx context.Context, event kafka.Event) error {
		return kafkaBreaker.Execute(func() error {
			return producer.Publish(ctx, event)
		})
	}
	collector := analytics.NewCollector(publish, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.AnalyticsEvents)

	aggregator := analytics.NewAggregator()
	analyticsConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.AnalyticsEvents, analytics.HandleEvent(aggregator))
	analyticsHandler := analytics.NewHandler(aggregator)
	go func() {
		if err := aggregator.Start(ctx, analyticsConsumer); err != nil {
			slog.Error("analytics aggregator error", "error", err)
		}
	}()
	slog.Info("analytics aggregator started")

	var pg *postgres.Client
	var validator *apikey.Validator
	pg, err = postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, api key auth disabled", "error", err)
	} else {
		defer pg.Close()
		validator = apikey.NewValidator(pg)
		slog.Info("api key validator enabled")
	}
	limiter := ratelimit.New(time.Minute)

	go pollBreakerStates(ctx, m, kafkaBreaker, validator)

	checker := health.NewChecker()
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d documents", eng.DocumentCount())}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if pg == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := pg.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := server.New(eng, cache, collector, m, cfg.Engine.QueryTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/documents", h.AddDocument)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", h.RemoveDocument)
	mux.HandleFunc("GET /api/v1/documents/{id}/frequencies", h.WordFrequencies)
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/match", h.Match)
	mux.HandleFunc("GET /api/v1/analytics", analyticsHandler.Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	if cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	if validator != nil {
		chain = middleware.RateLimit(limiter)(chain)
		chain = middleware.Auth(validator)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("corpusengine server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("corpusengine server stopped")
}

// pollBreakerStates exports the kafka-publish and apikey-postgres circuit
// breakers' states into the circuit_breaker_state gauge. The breakers
// don't push state changes, so this polls rather than hooking every
// transition.
func pollBreakerStates(ctx context.Context, m *metrics.Metrics, kafkaBreaker *resilience.CircuitBreaker, validator *apikey.Validator) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CircuitBreakerState.WithLabelValues("kafka-publish").Set(float64(kafkaBreaker.GetState()))
			if validator != nil {
				m.CircuitBreakerState.WithLabelValues("apikey-postgres").Set(float64(validator.BreakerState()))
			}
		}
	}
}
