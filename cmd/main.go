// @title createANDshare Backend API
// @version 1.0
// @description createANDshare social backend: accounts, sessions, follow graph and posts
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "CREATESHARE_BACK-END/docs" // This is required for swagger
	"CREATESHARE_BACK-END/internal/auth"
	"CREATESHARE_BACK-END/internal/config"
	"CREATESHARE_BACK-END/internal/handlers"
	"CREATESHARE_BACK-END/internal/logging"
	"CREATESHARE_BACK-END/internal/middleware"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/repository"
	"CREATESHARE_BACK-END/internal/routes"
	"CREATESHARE_BACK-END/internal/services"
	"CREATESHARE_BACK-END/internal/utils"
)

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// pgxpool + simple protocol (required behind PgBouncer)
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		logger.Fatal("parse dsn", zap.Error(err))
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "createshare-backend"
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = "30000" // 30s
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("connect", zap.Error(err))
	}
	defer pool.Close()

	// ping on boot
	{
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("ping", zap.Error(err))
		}
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	store := repository.NewStore(db, cfg.Database.QueryTimeout)
	{
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := store.RunMigrations(ctx); err != nil {
			logger.Fatal("migrations", zap.Error(err))
		}
	}

	// Redis is optional; without it the rate limiter lets everything through
	var (
		redisClient *redis.Client
		cachePinger handlers.Pinger
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		cachePinger = redisPinger{client: redisClient}
	}

	// --- Services ---

	var mailer utils.Mailer = utils.NewLogMailer(logger)
	if cfg.IsEmailConfigured() {
		mailer = utils.NewEmailService(&cfg.Email)
	}

	hasher := auth.NewHasher(cfg.Security.BcryptCost, cfg.Security.HashWorkers)
	tokens := auth.NewSessionTokens(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.App.Issuer)
	limits := query.Options{DefaultLimit: cfg.Query.DefaultLimit, MaxLimit: cfg.Query.MaxLimit}

	authService := services.NewAuthService(store.Users, hasher, tokens, mailer, cfg.JWT.ResetTokenTTL, logger)
	userService := services.NewUserService(store.Users, limits)
	followService := services.NewFollowService(store.Follows, store.Users, limits)
	postService := services.NewPostService(store.Posts, limits)

	// --- HTTP Handlers ---

	validate := handlers.NewValidator()
	cookie := handlers.CookieConfig{TTL: tokens.TTL(), Secure: cfg.Security.CookieSecure}

	h := routes.Handlers{
		Auth:           handlers.NewAuthHandler(authService, cookie, validate, logger),
		ForgotPassword: handlers.NewForgotPasswordHandler(authService, cookie, cfg.App.PublicURL, validate, logger),
		Google:         handlers.NewGoogleAuthHandler(authService, cfg.GoogleOAuth, cookie, logger),
		Users:          handlers.NewUserHandler(userService, validate, logger),
		Follows:        handlers.NewFollowHandler(followService, validate, logger),
		Posts:          handlers.NewPostHandler(postService, validate, logger),
		Health:         handlers.NewHealthHandler(pool, cachePinger),
	}
	gate := middleware.NewGate(authService)
	limiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window, "auth", logger)

	router := routes.SetupRoutes(h, gate, limiter, logger)

	// --- HTTP Server + Graceful Shutdown ---

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// wait for SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
