package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/srkbolt25-collab/srkfence-backend/internal/api/http"
	"github.com/srkbolt25-collab/srkfence-backend/internal/api/http/handlers"
	"github.com/srkbolt25-collab/srkfence-backend/internal/auth"
	"github.com/srkbolt25-collab/srkfence-backend/internal/cache"
	"github.com/srkbolt25-collab/srkfence-backend/internal/config"
	"github.com/srkbolt25-collab/srkfence-backend/internal/events"
	"github.com/srkbolt25-collab/srkfence-backend/internal/media"
	"github.com/srkbolt25-collab/srkfence-backend/internal/observability"
	"github.com/srkbolt25-collab/srkfence-backend/internal/persistence"
	"github.com/srkbolt25-collab/srkfence-backend/internal/repository"
	"github.com/srkbolt25-collab/srkfence-backend/internal/resource"
	"github.com/srkbolt25-collab/srkfence-backend/internal/service"
	"github.com/srkbolt25-collab/srkfence-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	docRepo := repository.NewDocumentRepository(pool)

	listCache := cache.NewListCache(redis.Client, cfg.Cache.TTL(), logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(*cfg, userRepo, logger)
	resourceService := service.NewResourceService(docRepo, listCache, logger)
	enquiryService := service.NewEnquiryService(docRepo, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	if err := authService.EnsureAdmin(ctx); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)
	gateway := media.NewGateway(cfg.Media, logger)
	registry := resource.Builtin()
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Resources:      handlers.NewResourcesHandler(resourceService, registry),
		Enquiries:      handlers.NewEnquiriesHandler(enquiryService),
		Uploads:        handlers.NewUploadsHandler(gateway, cfg.Media),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
