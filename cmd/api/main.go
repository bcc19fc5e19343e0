package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fleetrelay/support-service/internal/api/http"
	"github.com/fleetrelay/support-service/internal/api/http/handlers"
	"github.com/fleetrelay/support-service/internal/auth"
	"github.com/fleetrelay/support-service/internal/config"
	"github.com/fleetrelay/support-service/internal/events"
	"github.com/fleetrelay/support-service/internal/lifecycle"
	"github.com/fleetrelay/support-service/internal/observability"
	"github.com/fleetrelay/support-service/internal/persistence"
	"github.com/fleetrelay/support-service/internal/realtime"
	"github.com/fleetrelay/support-service/internal/repository"
	"github.com/fleetrelay/support-service/internal/service"
	"github.com/fleetrelay/support-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.Pool(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.Pool()
	userRepo := repository.NewUserRepository(pool)
	driverRepo := repository.NewDriverRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)
	categoryRepo := repository.NewScoreCategoryRepository(pool)
	scoreRepo := repository.NewScoreEntryRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notifier := realtime.NewRedisNotifier(redis.Client, cfg.Redis.ChannelPrefix)
	bridge := service.NewRealtimeBridge(dispatcher, notifier, logger)
	worker.StartRealtimeWorker(bridge)
	worker.StartChangeFeedMonitor(ctx, notifier, logger)

	engine := lifecycle.NewEngine(nil)
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	settingsService := service.NewSettingsService(settingRepo, dispatcher)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		DriverRepo:   driverRepo,
		CategoryRepo: categoryRepo,
		ScoreRepo:    scoreRepo,
		UserRepo:     userRepo,
		Engine:       engine,
		Dispatcher:   dispatcher,
	})
	reportingService := service.NewReportingService(ticketRepo, scoreRepo, settingsService, nil)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, settingsService),
		Drivers:        handlers.NewDriversHandler(driverRepo),
		Reports:        handlers.NewReportsHandler(reportingService),
		Settings:       handlers.NewSettingsHandler(settingsService, categoryRepo),
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
