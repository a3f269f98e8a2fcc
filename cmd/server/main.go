// Command server starts the Obsi喵 HTTP backend.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/obsicat/obsicat-api/internal/config"
	"github.com/obsicat/obsicat-api/internal/database"
	"github.com/obsicat/obsicat-api/internal/handler"
	"github.com/obsicat/obsicat-api/internal/middleware"
	"github.com/obsicat/obsicat-api/internal/queue"
	"github.com/obsicat/obsicat-api/internal/repository"
	"github.com/obsicat/obsicat-api/internal/router"
	"github.com/obsicat/obsicat-api/internal/service"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	logger.Info("starting", zap.String("env", cfg.Env), zap.String("port", cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// User store: MySQL when configured, in-memory otherwise.
	var users repository.UserStore
	if cfg.DBHost != "" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
		users = database.NewUserStore(db)
		logger.Info("user store: mysql", zap.String("host", cfg.DBHost))
	} else {
		users = repository.NewMemoryUserStore()
		logger.Info("user store: in-memory")
	}
	payments := repository.NewMemoryPaymentStore(cfg.PurchaseTTL)
	uploads := repository.NewMemoryUploadStore()

	publisher := service.NewPublisher(logger)
	go queue.StartUploadConsumer(ctx, uploads, logger)

	h := router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users),
		Admin:  handler.NewAdminHandler(users, payments, uploads),
		Pay:    handler.NewPayHandler(cfg, payments),
		Chat:   handler.NewChatHandler(users),
		Upload: handler.NewUploadHandler(cfg, users, uploads, publisher, logger),
	}

	e := echo.New()
	e.HideBanner = true

	// Rate limiting degrades to a no-op when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	jwtAuth := middleware.JWTAuthorizer{Secret: cfg.JWTSecret}
	purchaseAuth := middleware.PurchaseAuthorizer{Payments: payments}
	router.Register(e, h, jwtAuth, purchaseAuth)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			logger.Info("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	if err := e.Shutdown(context.Background()); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
