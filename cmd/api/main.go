// @title           Storefront API
// @version         1.0
// @description     Accounts, staff administration and shopping carts for the storefront.
// @BasePath        /
// @securityDefinitions.apikey AdminCookie
// @in              cookie
// @name            adminToken
// @securityDefinitions.apikey UserCookie
// @in              cookie
// @name            userToken
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/techzone/storefront-api/internal/api"
	"github.com/techzone/storefront-api/internal/api/handler"
	"github.com/techzone/storefront-api/internal/core/service"
	"github.com/techzone/storefront-api/internal/infrastructure/db/mongo"
	"github.com/techzone/storefront-api/internal/infrastructure/db/redis"
	"github.com/techzone/storefront-api/internal/infrastructure/http/handlers"
	"github.com/techzone/storefront-api/internal/infrastructure/queue"
	"github.com/techzone/storefront-api/internal/pkg/config"
	"github.com/techzone/storefront-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	users := mongo.NewUserRepository(db)
	carts := mongo.NewCartRepository(db)
	catalog := mongo.NewProductCatalog(db)
	if err := mongo.EnsureIndexes(ctx, users, carts); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// Workers outlive the signal context so in-flight cart writes drain
	// during shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	serializer := queue.NewSerializer(cfg.Cart.Workers, log)
	serializer.Start(workerCtx)

	tokens := service.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(users, tokens, log)
	cartService := service.NewCartService(carts, catalog, serializer, log,
		service.WithIdempotency(redis.NewIdempotencyStore(rdb, cfg.Cart.IdempotencyTTL)),
		service.WithMaxAttempts(cfg.Cart.MaxAttempts),
	)

	e := api.NewRouter(api.Dependencies{
		Log:    log,
		Auth:   authService,
		Cart:   cartService,
		Tokens: tokens,
		Users:  users,
		Cookies: handler.CookieConfig{
			Secure: cfg.Auth.CookieSecure || cfg.IsProduction(),
			Domain: cfg.Auth.CookieDomain,
		},
		AllowOrigins: cfg.AllowedOrigins(),
		Health: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(mongoClient),
			"redis":   handlers.RedisCheck(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
