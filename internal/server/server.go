package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bigidrise/mealguard/config"
	"github.com/bigidrise/mealguard/internal/api"
	"github.com/bigidrise/mealguard/internal/middleware"
	"github.com/bigidrise/mealguard/internal/service"
	"github.com/bigidrise/mealguard/internal/store"
)

// Options carries the externally-constructed dependencies. Redis and
// the health check are optional; the generator and DB are not.
type Options struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Generator service.MealGenerator
	// HealthCheck probes the backing database for the /health
	// endpoint. Nil means the endpoint only reports process liveness.
	HealthCheck func(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
	cfg    *config.Config

	memStores []*store.MemoryStore
}

// New wires the gate services onto a router.
func New(cfg *config.Config, logger *zap.Logger, opts Options) *Server {
	s := &Server{logger: logger, cfg: cfg}

	profileService := service.NewProfileService(opts.DB)
	auditService := service.NewAuditService(opts.DB)

	var auditSink service.AuditSink = auditService
	if cfg.AuditS3Bucket != "" {
		if s3cfg, err := config.NewS3Config(context.Background(), cfg.AuditS3Bucket); err != nil {
			logger.Warn("audit archive disabled", zap.Error(err))
		} else {
			archiver := service.NewS3AuditArchiver(s3cfg.Client, s3cfg.BucketName, cfg.AuditS3Prefix)
			auditSink = service.NewTeeAuditSink(logger, auditService, archiver)
		}
	}

	tokens, rateLimits := s.buildStores(opts.Redis)

	overrideService := service.NewOverrideService(profileService, tokens, rateLimits, auditSink, logger, service.OverrideConfig{
		TokenTTL:        cfg.OverrideTokenTTL,
		MaxPinAttempts:  cfg.MaxPinAttempts,
		LockoutDuration: cfg.PinLockoutDuration,
	})

	gateService := service.NewGateService(profileService, opts.Generator, overrideService, auditSink, logger, service.GateConfig{
		FailOpenMissingProfile: cfg.FailOpenMissingProfile,
	})

	tokenService := service.NewTokenService(cfg.JWTSecret, 24*time.Hour)

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(nil))

	router.GET("/health", s.health(opts.HealthCheck))

	var rateLimit gin.HandlerFunc
	if opts.Redis != nil {
		limiter := middleware.NewRateLimiter(opts.Redis, logger, middleware.RateLimitConfig{
			KeyPrefix: "generate",
		})
		rateLimit = limiter.RateLimitMiddleware()
	}

	api.SetupAPI(router, api.Deps{
		Gate:      gateService,
		Overrides: overrideService,
		Audit:     auditService,
		Tokens:    tokenService,
		RateLimit: rateLimit,
	})

	s.router = router
	return s
}

// buildStores prefers Redis so tokens and lockouts survive restarts and
// are shared between instances. Without Redis it falls back to
// in-process stores, which is fine for a single node.
func (s *Server) buildStores(client *redis.Client) (store.TTLStore, store.TTLStore) {
	if client != nil {
		return store.NewRedisStore(client, "override:token"),
			store.NewRedisStore(client, "override:ratelimit")
	}

	s.logger.Warn("redis unavailable, override state is in-process only")
	tokens := store.NewMemoryStore(s.cfg.StoreSweepInterval)
	rateLimits := store.NewMemoryStore(s.cfg.StoreSweepInterval)
	s.memStores = append(s.memStores, tokens, rateLimits)
	return tokens, rateLimits
}

func (s *Server) health(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.router,
	}

	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	for _, m := range s.memStores {
		m.Close()
	}
	if s.http == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
