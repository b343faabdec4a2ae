// Package http wires the gin engine, middleware chain and routes of the credit scoring API.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/internal/infrastructure/monitoring"
	"github.com/turtacn/credscore/internal/infrastructure/ratelimit"
	"github.com/turtacn/credscore/internal/interfaces/http/handlers"
	"github.com/turtacn/credscore/internal/interfaces/http/middleware"
	"github.com/turtacn/credscore/pkg/constants"
	svcerrors "github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/turtacn/credscore/http"

// Dependencies are the collaborators the router mounts. Limiter, Metrics and Gatherer may be nil.
type Dependencies struct {
	Credit   *handlers.CreditHandler
	Health   *handlers.HealthHandler
	Stats    *handlers.StatsHandler
	Limiter  ratelimit.Limiter
	Metrics  *monitoring.Metrics
	Gatherer prometheus.Gatherer
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	config *config.Config
	logger logger.Logger
	deps   Dependencies
	server *http.Server
}

// NewRouter 创建路由器并注册所有路由
func NewRouter(cfg *config.Config, log logger.Logger, deps Dependencies) *Router {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	r := &Router{
		engine: gin.New(),
		config: cfg,
		logger: log,
		deps:   deps,
	}
	r.setupRoutes()
	return r
}

// Handler exposes the engine for tests and custom servers.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	e := r.engine
	e.HandleMethodNotAllowed = true

	// 全局中间件
	e.Use(middleware.Recovery(r.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.ObservabilityMiddleware(otel.Tracer(tracerName), r.deps.Metrics))
	e.Use(middleware.Logging(r.logger))

	// CORS 配置
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID, constants.HeaderRateLimitLimit, constants.HeaderRateLimitRemaining},
		MaxAge:        12 * time.Hour,
	}
	if origins := r.config.Server.AllowedOrigins; len(origins) == 0 || containsWildcard(origins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	e.Use(cors.New(corsConfig))

	// 健康检查路由（不需要认证）
	e.GET("/", r.deps.Health.Root)
	e.GET("/health", r.deps.Health.HealthCheck)
	e.GET("/ready", r.deps.Health.ReadinessCheck)
	e.GET("/live", r.deps.Health.LivenessCheck)

	// Prometheus metrics
	gatherer := r.deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if !r.config.Server.IsProduction() {
		pprof.Register(e)
	}

	var statsChain []gin.HandlerFunc
	if secret := r.config.Auth.StatsJWTSecret; secret != "" {
		statsChain = append(statsChain, middleware.RequireStatsToken(secret, r.config.Auth.Issuer, r.logger))
	}
	statsChain = append(statsChain, r.deps.Stats.GetStats)
	e.GET("/stats", statsChain...)

	var scoreChain []gin.HandlerFunc
	if r.config.RateLimit.Enabled && r.deps.Limiter != nil {
		scoreChain = append(scoreChain, middleware.RateLimitMiddleware(r.deps.Limiter, r.deps.Metrics, r.logger))
	}
	scoreChain = append(scoreChain, r.deps.Credit.Score)

	e.POST("/credit/score", scoreChain...)
	v1 := e.Group("/api/" + constants.APIVersion)
	{
		v1.POST("/credit/score", scoreChain...)
		v1.GET("/stats", statsChain...)
	}

	// 404 / 405 处理
	e.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, svcerrors.ToErrorResponse(svcerrors.ErrNotFound(c.Request.URL.Path)))
	})
	e.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":             "method_not_allowed",
			"error_description": "Method Not Allowed",
		})
	})
}

// Start 启动 HTTP 服务器，阻塞直到服务器关闭
func (r *Router) Start() error {
	r.server = &http.Server{
		Addr:              r.config.Server.HTTPAddress(),
		Handler:           r.engine,
		ReadTimeout:       time.Duration(r.config.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(r.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(r.config.Server.IdleTimeout) * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))

	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
