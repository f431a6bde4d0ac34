package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/car-marketplace-client/internal/api/http"
	"github.com/spec-kit/car-marketplace-client/internal/api/http/handlers"
	"github.com/spec-kit/car-marketplace-client/internal/config"
	"github.com/spec-kit/car-marketplace-client/internal/credential"
	"github.com/spec-kit/car-marketplace-client/internal/events"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
	"github.com/spec-kit/car-marketplace-client/internal/persistence"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	"github.com/spec-kit/car-marketplace-client/internal/session"
	"github.com/spec-kit/car-marketplace-client/internal/theme"
	"github.com/spec-kit/car-marketplace-client/internal/worker"
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

	metrics := observability.NewMetrics()

	var redis *persistence.Redis
	var store credential.Store
	credentialLocation := "memory"
	switch cfg.Credential.Driver {
	case config.CredentialDriverRedis:
		redis, err = persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		redisStore := credential.NewRedisStore(redis.Client, cfg.Redis.KeyPrefix)
		credentialLocation = redisStore.Key()
		store = redisStore
	case config.CredentialDriverMemory:
		store = credential.NewMemoryStore()
	default:
		fileStore, err := credential.NewFileStore(cfg.Credential.File,
			credential.WithSecret(cfg.Credential.Secret),
			credential.WithFileLogger(logger))
		if err != nil {
			logger.Fatal("failed to open credential file", zap.Error(err))
		}
		credentialLocation = fileStore.Path()
		store = fileStore
	}

	gw := gateway.New(cfg.Backend.BaseURL, store,
		gateway.WithTimeout(cfg.Backend.Timeout()),
		gateway.WithLogger(logger),
		gateway.WithMetrics(metrics))

	authRepo := repository.NewAuthRepository(gw)
	listingRepo := repository.NewListingRepository(gw)
	favoriteRepo := repository.NewFavoriteRepository(gw)
	reviewRepo := repository.NewReviewRepository(gw)
	purchaseRepo := repository.NewPurchaseRepository(gw)
	reportRepo := repository.NewReportRepository(gw)
	inventoryRepo := repository.NewInventoryRepository(gw)
	agencyRepo := repository.NewAgencyRepository(gw)
	adminRepo := repository.NewAdminRepository(gw)

	provider := session.NewProvider(ctx, store, authRepo,
		session.WithLogger(logger),
		session.WithMetrics(metrics))
	gw.OnInvalidated(func(ctx context.Context) {
		if err := provider.Invalidate(ctx); err != nil {
			logger.Warn("invalidate session", zap.Error(err))
		}
	})

	dispatcher := events.NewInMemoryDispatcher(events.WithLogger(logger), events.WithMetrics(metrics))
	catalogService := service.NewCatalogService(listingRepo, reviewRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, dispatcher)
	reviewService := service.NewReviewService(reviewRepo, dispatcher)
	purchaseService := service.NewPurchaseService(purchaseRepo)
	reportService := service.NewReportService(reportRepo)
	agencyService := service.NewAgencyService(listingRepo, inventoryRepo, agencyRepo)
	adminService := service.NewAdminService(adminRepo, agencyRepo)
	activityService := service.NewActivityService(dispatcher, logger, 0)

	worker.StartActivityWorker(activityService)
	unsubscribe := provider.Subscribe(func(m session.Model) {
		if !m.IsAuthenticated() {
			activityService.Clear()
		}
	})
	defer unsubscribe()

	mode, err := theme.ParseMode(cfg.Theme.Mode)
	if err != nil {
		logger.Fatal("invalid theme mode", zap.Error(err))
	}
	views := handlers.NewViews(cfg.App.Name, theme.NewSwitch(mode))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Views:        handlers.NewViewEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	table := guard.NewTable()
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Views:   views,
		Table:   table,
		Session: provider,
		Logger:  logger,
		Metrics: metrics,
		Timeout: cfg.App.RequestTimeout(),
	})

	deps := map[string]handlers.Pinger{"backend": gw}
	if redis != nil {
		deps["redis"] = redis
	}
	favoritesHandler := handlers.NewFavoritesHandler(views, favoriteService, provider, dispatcher)
	defer favoritesHandler.Close()
	reviewsHandler := handlers.NewReviewsHandler(views, reviewService, provider, dispatcher)
	defer reviewsHandler.Close()
	purchasesHandler := handlers.NewPurchasesHandler(views, purchaseService, provider)
	defer purchasesHandler.Close()

	httptransport.RegisterRoutes(app, table, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:      handlers.NewAuthHandler(views, provider, authRepo, logger),
		Pages:     handlers.NewPagesHandler(views, activityService, views.Theme()),
		Listings:  handlers.NewListingsHandler(views, catalogService, logger),
		Favorites: favoritesHandler,
		Reviews:   reviewsHandler,
		Purchases: purchasesHandler,
		Agency:    handlers.NewAgencyHandler(views, agencyService),
		Admin:     handlers.NewAdminHandler(views, reportService, favoriteService, reviewService, adminService),
		Metrics:   metrics,
	})

	current := provider.Current()
	logger.Info("client starting",
		zap.String("addr", cfg.App.Addr()),
		zap.String("backend", gw.BaseURL()),
		zap.String("credential_driver", cfg.Credential.Driver),
		zap.String("credential_location", credentialLocation),
		zap.Int("routes", len(table.Routes())),
		zap.Bool("signed_in", current.IsAuthenticated()))

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.ShutdownWithTimeout(5 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
