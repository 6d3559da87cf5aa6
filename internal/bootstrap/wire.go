package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/contacthub/contacthub/internal/application/auth"
	"github.com/contacthub/contacthub/internal/application/contacts"
	"github.com/contacthub/contacthub/internal/audit"
	"github.com/contacthub/contacthub/internal/config"
	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/infrastructure/db/postgres"
	"github.com/contacthub/contacthub/internal/infrastructure/imagehost"
	"github.com/contacthub/contacthub/internal/infrastructure/memory"
	rabbitmq_pub "github.com/contacthub/contacthub/internal/infrastructure/messaging/rabbitmq"
	"github.com/contacthub/contacthub/internal/infrastructure/redis"
	"github.com/contacthub/contacthub/internal/infrastructure/security"
	"github.com/contacthub/contacthub/internal/logger"
	"github.com/contacthub/contacthub/internal/metrics"
	http_handlers "github.com/contacthub/contacthub/internal/transport/http/handlers"
	"github.com/contacthub/contacthub/internal/transport/http/middleware"
	"github.com/contacthub/contacthub/internal/transport/http/response"
	"github.com/contacthub/contacthub/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (*sql.DB, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string) (auth.EventPublisher, error)

	NewImageHost func(ctx context.Context, opts imagehost.Options) (auth.ImageHost, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) postgres
	sqlDB, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = sqlDB.Close() },
	}

	userRepo := postgres.NewUserRepo(sqlDB)
	contactRepo := postgres.NewContactRepo(sqlDB)

	// 2) redis (best-effort: cache and rate limits degrade, never block boot)
	var redisCli *redis.Client
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; cache and rate limits disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var identityCache auth.IdentityCache
	if redisCli != nil {
		identityCache = redis.NewIdentityCache(redisCli)
	}

	// 3) publisher
	var pub auth.EventPublisher
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		pub, err = deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
				pub = memory.NewNoopPublisher()
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		} else if c, ok := pub.(interface{ Close() error }); ok {
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	} else {
		pub = memory.NewNoopPublisher()
	}

	// 4) image host (optional; avatar uploads 503 without it)
	var images auth.ImageHost
	if deps.NewImageHost != nil && cfg.S3Endpoint != "" {
		images, err = deps.NewImageHost(context.Background(), imagehost.Options{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  true,
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("image host unavailable; avatar uploads disabled")
			images = nil
		}
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt codec")
	hasher := security.NewBcryptHasher(12)
	codec := security.NewJWTCodec(cfg.JWTSecret, cfg.JWTIssuer)

	// 6) services
	auditLog := audit.New(logger.Logger)

	authSvc := auth.NewService(
		userRepo,
		hasher,
		codec,
		identityCache,
		pub,
		images,
		auth.Config{
			AccessTokenTTL:      cfg.AccessTokenTTL,
			RefreshTokenTTL:     cfg.RefreshTokenTTL,
			VerifyEmailTokenTTL: cfg.VerifyEmailTokenTTL,
			IdentityCacheTTL:    cfg.IdentityCacheTTL,
			VerifyEmailBaseURL:  cfg.VerifyEmailBaseURL,
		},
	).WithAudit(auditLog.Record)

	contactSvc := contacts.NewService(contactRepo)

	// 7) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	userH := http_handlers.NewUserHandler(authSvc)
	contactH := http_handlers.NewContactHandler(contactSvc)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(authSvc, response.WriteError)
	modMW := middleware.RequireRole(response.WriteError, domain.RoleAdmin, domain.RoleModerator)

	var limiter *redis.FixedWindowLimiter
	if redisCli != nil {
		limiter = redis.NewFixedWindowLimiter(redisCli)
	}
	rl := func(key string) func(http.Handler) http.Handler {
		if limiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			limiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    cfg.RateLimitTimes,
				Window:   cfg.RateLimitWindow,
			},
			response.WriteError,
		)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:  healthH,
		Auth:    authH,
		User:    userH,
		Contact: contactH,
		Metrics: metrics.Handler(),

		Global: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.Metrics(),
			middleware.Ban(cfg.BannedIPs, cfg.BannedUserAgents, response.WriteError),
			middleware.CORS(cfg.CORSOrigins),
		},

		AuthMW:      authMW,
		ModeratorMW: modMW,

		LoginRL:    rl("auth.login"),
		SignupRL:   rl("auth.signup"),
		UsersRL:    rl("users"),
		ContactsRL: rl("contacts"),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (auth.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewImageHost: func(ctx context.Context, opts imagehost.Options) (auth.ImageHost, error) {
			store, err := imagehost.NewS3Store(ctx, opts)
			if err != nil {
				return nil, err
			}
			if err := store.EnsureBucket(ctx); err != nil {
				return nil, err
			}
			return store, nil
		},
		NewRouter: router.New,
	}
}
