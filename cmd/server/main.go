package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/blogd/internal/auth"
	"github.com/Varun5711/blogd/internal/cache"
	"github.com/Varun5711/blogd/internal/config"
	"github.com/Varun5711/blogd/internal/database"
	"github.com/Varun5711/blogd/internal/events"
	"github.com/Varun5711/blogd/internal/handlers"
	"github.com/Varun5711/blogd/internal/idgen"
	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/middleware"
	"github.com/Varun5711/blogd/internal/redis"
	"github.com/Varun5711/blogd/internal/service"
	"github.com/Varun5711/blogd/internal/session"
	"github.com/Varun5711/blogd/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	log := logger.New("blogd")
	defer log.Sync()
	log.SetStdLog()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	if cfg.UsesInsecureDefaults() {
		log.Warn("SESSION_SECRET or JWT_SECRET not set, using insecure development defaults")
		cfg.ApplyInsecureDefaults()
	}

	sessionCfg := session.DefaultConfig(cfg.Auth.SessionSecrets, cfg.Auth.CookieSecure)
	sessionCfg.MaxAge = cfg.Auth.SessionMaxAge
	sessions, err := session.NewStore(sessionCfg)
	if err != nil {
		log.Fatal("Failed to create session store: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	idGen, err := idgen.NewGenerator(cfg.Snowflake.NodeID)
	if err != nil {
		log.Fatal("Failed to create ID generator: %v", err)
	}

	healthDeps := map[string]handlers.Pinger{}

	var (
		postStore storage.PostStorage
		userStore storage.UserStorage
	)
	if cfg.Database.DSN != "" {
		dbManager, err := database.NewDBManager(ctx, database.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer dbManager.Close()

		postStore = storage.NewPostgresStorage(dbManager.SQL())
		userStore = storage.NewPostgresUserStorage(dbManager.SQL())
		healthDeps["postgres"] = dbManager
		log.Info("Using Postgres storage")
	} else {
		mem := storage.NewMemoryStorage()
		postStore, userStore = mem, mem
		log.Warn("DATABASE_URL not set, posts and accounts are kept in memory")
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		rc, err := redis.NewRedisClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer rc.Close()

		redisClient = rc.GetClient()
		healthDeps["redis"] = rc
		log.Info("Redis connected at %s", cfg.Redis.Addr)
	} else {
		log.Info("REDIS_ADDR not set, login throttling disabled and cache is in-process only")
	}

	postCache := cache.NewMultiTierCache(cfg.Cache.L1Capacity, redisClient, cfg.Cache.L2TTL)

	users := service.NewUserService(userStore, service.DemoAccount{
		Email:    cfg.Auth.DemoEmail,
		Password: cfg.Auth.DemoPassword,
		UserID:   cfg.Auth.DemoUserID,
	})
	posts := service.NewPostService(postStore, postCache, idGen, logger.New("posts"))
	audit := events.NewAuthProducer(redisClient, events.DefaultAuthStream, cfg.Redis.AuditStreamMaxLen)

	router := &handlers.Router{
		Auth:        handlers.NewAuthHandler(sessions, users, audit, logger.New("auth")),
		Posts:       handlers.NewPostHandler(posts, logger.New("posts")),
		API:         handlers.NewAPIHandler(sessions, jwtManager, logger.New("api")),
		Health:      handlers.NewHealthHandler(healthDeps),
		Guard:       middleware.NewAuthMiddleware(sessions, jwtManager, logger.New("auth-middleware")),
		LoginLimits: middleware.NewRateLimiter(redisClient, cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window, logger.New("ratelimit")),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Listening on :%s (%s)", cfg.App.Port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
