package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	appservice "github.com/turtacn/credscore/internal/application/service"
	"github.com/turtacn/credscore/internal/config"
	domainservice "github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/internal/infrastructure/audit"
	"github.com/turtacn/credscore/internal/infrastructure/cache"
	"github.com/turtacn/credscore/internal/infrastructure/monitoring"
	"github.com/turtacn/credscore/internal/infrastructure/persistence"
	"github.com/turtacn/credscore/internal/infrastructure/persistence/redis"
	"github.com/turtacn/credscore/internal/infrastructure/ratelimit"
	"github.com/turtacn/credscore/internal/infrastructure/scorecard"
	grpciface "github.com/turtacn/credscore/internal/interfaces/grpc"
	httpiface "github.com/turtacn/credscore/internal/interfaces/http"
	"github.com/turtacn/credscore/internal/interfaces/http/handlers"
	"github.com/turtacn/credscore/pkg/logger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const limiterIdleTTL = 10 * time.Minute

func main() {
	// Logger for startup
	startupLogger, _ := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})

	// Load config
	cfg, err := config.LoadConfig(startupLogger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.SetGlobalLogger(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(context.Background(), "Server exited with error", err)
		os.Exit(1)
	}
	appLogger.Info(context.Background(), "Server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger logger.Logger) error {
	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	// Scorecard: a failed initial load leaves the service up but degraded
	models := scorecard.NewRegistry(cfg.Model.ArtifactPath, appLogger)
	models.OnReload(func(_ string, loaded bool, err error) {
		metrics.RecordModelReload(loaded, err)
	})
	if err := models.Load(ctx); err != nil {
		appLogger.Warn(ctx, "Starting without a scoring model", logger.Err(err))
	}

	// Decision store
	store, err := persistence.OpenStore(ctx, &cfg.Database, cfg.Audit.HMACSecret, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open decision store: %w", err)
	}
	defer store.Close()

	deps := map[string]handlers.Pinger{"database": store.Repository}

	// Redis (optional)
	var redisConn *redis.RedisConnection
	if cfg.Redis.Enabled {
		redisConn, err = redis.NewRedisConnection(ctx, &cfg.Redis, appLogger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisConn.Close()
		deps["redis"] = redisConn
	}

	statsCache := newStatsCache(cfg, redisConn, metrics)

	limiter, err := newLimiter(cfg, redisConn, appLogger)
	if err != nil {
		return err
	}

	// Audit sinks
	var sinks []domainservice.DecisionPublisher
	if cfg.Audit.LogPredictions {
		sinks = append(sinks, audit.NewLogPublisher(appLogger))
	}
	if cfg.Kafka.Enabled {
		kafkaPublisher := audit.NewKafkaPublisher(cfg.Kafka, appLogger)
		defer kafkaPublisher.Close()
		sinks = append(sinks, kafkaPublisher)
	}
	var publisher domainservice.DecisionPublisher
	if mp := audit.NewMultiPublisher(sinks...); mp.Len() > 0 {
		publisher = mp
	}

	// Application services
	scoringSvc := appservice.NewScoringAppService(models, store.Repository, publisher, monitoring.NewMetricsAdapter(metrics), appLogger)
	statsSvc := appservice.NewStatsAppService(store.Repository, statsCache, models, appLogger)

	router := httpiface.NewRouter(cfg, appLogger, httpiface.Dependencies{
		Credit:   handlers.NewCreditHandler(scoringSvc, appLogger),
		Health:   handlers.NewHealthHandler(models, deps, appLogger),
		Stats:    handlers.NewStatsHandler(statsSvc, appLogger),
		Limiter:  limiter,
		Metrics:  metrics,
		Gatherer: registry,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)

	if cfg.Model.Watch {
		g.Go(func() error { return models.Watch(gctx) })
	}

	if local, ok := limiter.(*ratelimit.LocalLimiter); ok {
		g.Go(func() error {
			local.RunCleanup(gctx, time.Minute, limiterIdleTTL)
			return nil
		})
	}

	var grpcServer *grpciface.Server
	if cfg.Server.GRPCEnabled {
		grpcServer = grpciface.NewServer(
			grpciface.NewCreditScoringService(scoringSvc, statsSvc, appLogger),
			grpciface.NewInterceptorChain(appLogger, limiter, metrics),
			!cfg.Server.IsProduction(),
			appLogger,
		)
		grpcServer.SetServing(models.Loaded())
		models.OnReload(func(_ string, loaded bool, _ error) { grpcServer.SetServing(loaded) })

		g.Go(func() error {
			if err := grpcServer.Start(cfg.Server.GRPCAddress()); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if grpcServer != nil {
			grpcServer.Stop(shutdownCtx)
		}
		return router.Stop(shutdownCtx)
	})

	return g.Wait()
}

func newStatsCache(cfg *config.Config, redisConn *redis.RedisConnection, metrics *monitoring.Metrics) domainservice.StatsCache {
	if cfg.Cache.StatsTTL <= 0 {
		return nil
	}
	if redisConn != nil {
		return monitoring.NewInstrumentedStatsCache(redis.NewStatsCache(redisConn.GetClient(), cfg.Cache.StatsTTL), "redis", metrics)
	}
	return monitoring.NewInstrumentedStatsCache(cache.NewLocalStatsCache(cfg.Cache.StatsTTL, cfg.Cache.CleanupInterval), "local", metrics)
}

func newLimiter(cfg *config.Config, redisConn *redis.RedisConnection, log logger.Logger) (ratelimit.Limiter, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}
	if cfg.RateLimit.Distributed && redisConn != nil {
		l, err := ratelimit.NewRedisRateLimiter(redisConn.GetClient(), cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		return l, nil
	}
	return ratelimit.NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst), nil
}

//Personal.AI order the ending
