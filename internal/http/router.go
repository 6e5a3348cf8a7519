package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/open-gym/backend/internal/auth"
	"github.com/open-gym/backend/internal/cache"
	"github.com/open-gym/backend/internal/config"
	"github.com/open-gym/backend/internal/http/handlers"
	"github.com/open-gym/backend/internal/http/middlewares"
	"github.com/open-gym/backend/internal/observability"
	"github.com/open-gym/backend/internal/repo/postgres"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, prom *observability.Prom, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(middlewares.Recover(log, cfg.Debug))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("opengym-api"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping, cfg)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.POST("/info", h.Info)

	// wire up storage, auth service and the lookup cache

	usersRepo := postgres.NewUsersRepo(pool, prom)

	lookupCache := cache.New(5 * time.Second)
	cachedUsers := auth.NewCachedLookup(usersRepo, lookupCache)

	codec := auth.NewCodec(cfg.SecretKey, cfg.TokenTTL())
	authSvc := auth.NewService(cachedUsers, codec, cfg.SecretKey)

	authHandler := handlers.NewAuthHandler(authSvc, prom)
	usersHandler := handlers.NewUsersHandler(usersRepo, cachedUsers, cfg)

	authMw := middlewares.NewAuthMiddleware(authSvc)

	// the token endpoint is the brute-force surface; throttle it per client IP
	tokenLimiter := middlewares.NewRateLimiter(cfg.TokenRateLimit, cfg.TokenRateWindow, rdb)

	r.POST("/auth/token", tokenLimiter.Middleware(middlewares.KeyByIP), authHandler.GetToken)

	users := r.Group("/user", authMw.RequireAuth())
	{
		users.GET("/me", usersHandler.Me)
		users.GET("", usersHandler.List)
		users.POST("", usersHandler.Create)
		users.GET("/:id", usersHandler.GetByID)
		users.PUT("/:id", usersHandler.Update)
		users.DELETE("/:id", usersHandler.Delete)
	}

	return r
}
