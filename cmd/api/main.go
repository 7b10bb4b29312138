package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/forkful/recipebox/config"
	"github.com/forkful/recipebox/internal/api"
	"github.com/forkful/recipebox/internal/database"
	"github.com/forkful/recipebox/internal/logger"
	"github.com/forkful/recipebox/internal/middleware"
	"github.com/forkful/recipebox/internal/router"
	"github.com/forkful/recipebox/internal/server"
	"github.com/forkful/recipebox/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Open(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// Counter store: Redis when configured, process-local otherwise.
	var store middleware.CounterStore = middleware.NewMemoryCounterStore()
	redisClient, err := database.NewRedisClient(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		store = middleware.NewRedisCounterStore(redisClient)
	}

	authService := service.NewAuthService(db, cfg.Session.Secret, cfg.Session.Lifetime, cfg.Session.RememberLifetime)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)

	if err := tagService.Seed(context.Background()); err != nil {
		zlog.Fatal("failed to seed tags", zap.Error(err))
	}

	api.RegisterValidators()

	engine := router.New(router.Deps{
		Config: cfg,
		Log:    zlog,
		AuthHandler: api.NewAuthHandler(
			authService, zlog,
			int(cfg.Session.RememberLifetime.Seconds()),
			cfg.Session.CookieSecure,
		),
		RecipeHandler: api.NewRecipeHandler(recipeService, tagService, zlog),
		Validator:     authService,
		CounterStore:  store,
	})

	srv := server.New(cfg, engine, zlog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
