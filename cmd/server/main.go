package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"parkingspots/internal/api"
	"parkingspots/internal/config"
	"parkingspots/internal/logging"
	"parkingspots/internal/repository"
	"parkingspots/internal/service"
	"parkingspots/internal/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	repo := repository.NewParkingRepository(store, cfg.Store.LocationsTable, cfg.Store.AvailabilityTable)
	aggregator := service.NewLocationAggregator(service.LoadDisplayLocation(cfg.Display.TimeZone))
	parkingSvc := service.NewParkingService(repo, aggregator, service.NewUpdateValidator(), logger.Named("parking"))

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	deps := api.RouterDeps{
		Views:       api.NewViewHandler(parkingSvc, renderer, logger),
		Update:      api.NewUpdateHandler(parkingSvc, logger),
		Health:      api.NewHealthHandler(parkingSvc, logger),
		StaticDir:   cfg.HTTP.StaticDir,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      logger.Named("http"),
	}
	if cfg.Admin.JWTSecret != "" {
		authSvc := service.NewAdminAuthService(
			repository.NewStaticAdminRepository(cfg.Admin.Email, cfg.Admin.PasswordHash),
			cfg.Admin.JWTSecret,
			cfg.JWTExpiration(),
		)
		deps.AdminAuth = api.NewAdminAuthHandler(authSvc, logger)
		deps.Verifier = authSvc
		logger.Info("admin token required for updates")
	}
	if cfg.Feed.URL != "" {
		feed := service.NewOccupancyFeedService(service.FeedOptions{
			URL:        cfg.Feed.URL,
			LocationID: cfg.Feed.LocationID,
			TotalSpots: int64(cfg.Feed.TotalSpots),
			Schedule:   cfg.Feed.Schedule,
			MaxRetries: cfg.Feed.MaxRetries,
			RetryDelay: cfg.FeedRetryDelay(),
		}, parkingSvc, nil, logger.Named("feed"))
		if err := feed.Start(ctx); err != nil {
			return err
		}
		defer feed.Stop()
	}

	server := api.NewServer(cfg.HTTPAddress(), api.NewRouter(deps), logger)
	logger.Info("local access", zap.String("url", fmt.Sprintf("http://localhost%s/home.html", cfg.HTTPAddress())))
	return server.Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.CellStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open DB: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		store := repository.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("store configured", zap.String("backend", config.BackendPostgres))
		return store, func() { db.Close() }, nil
	default:
		endpoint, err := cfg.HBaseEndpoint()
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store configured",
			zap.String("backend", config.BackendHBase),
			zap.String("protocol", endpoint.Scheme),
			zap.String("host", endpoint.Hostname()),
			zap.String("port", endpoint.Port()),
			zap.String("path", endpoint.Path))
		return repository.NewHBaseStore(endpoint, nil, logger.Named("hbase")), func() {}, nil
	}
}
