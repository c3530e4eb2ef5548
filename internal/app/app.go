// Package app wires each process role's dependencies and runs it. A
// single binary (cmd/comops) dispatches to one of these roles by
// config.Config.Mode, the way the teacher's single binary dispatches
// between its api and worker modes.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/config"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/delivery"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/eventbus"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/idempotency"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/orders"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/platform"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/realtime"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/routeopt"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/sellers/salesplan"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/sellers/visit"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

const (
	consumerVisibilityTTL = 30 * time.Second
)

// Run reads infrastructure connections appropriate to cfg.Mode and
// starts the selected role. It blocks until ctx is cancelled or the
// role exits with an error.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := telemetry.NewLogger(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting comops", "mode", cfg.Mode, "listen", cfg.ListenAddr())

	switch cfg.Mode {
	case "migrate":
		return runMigrate(cfg, logger)
	case "bff":
		return runBFF(ctx, cfg, logger)
	case "orders":
		return runOrders(ctx, cfg, logger)
	case "sellers":
		return runSellers(ctx, cfg, logger)
	case "delivery":
		return runDelivery(ctx, cfg, logger)
	default:
		return fmt.Errorf("unknown mode: %s", cfg.Mode)
	}
}

func runMigrate(cfg *config.Config, logger *slog.Logger) error {
	for _, role := range []string{"orders", "sellers", "delivery"} {
		dir := fmt.Sprintf("%s/%s", cfg.MigrationsDir, role)
		if err := platform.RunMigrations(cfg.DatabaseURL, dir); err != nil {
			return fmt.Errorf("migrating %s: %w", role, err)
		}
		logger.Info("migrations applied", "role", role, "dir", dir)
	}
	return nil
}

func runBFF(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	rdb, err := platform.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer closeRedis(rdb, logger)

	metricsReg := telemetry.NewMetricsRegistry(telemetry.All()...)

	srv := httpserver.NewServer(cfg, logger, nil, rdb, metricsReg)

	bff.MountRoutes(srv, cfg)

	notifier := realtime.NewNotifier(rdb, cfg.RealtimeEnvPrefix)
	hub := realtime.NewHub(notifier, logger)
	bff.MountWebSocketRoutes(srv, hub, notifier, logger)

	return serveHTTP(ctx, cfg, srv, logger)
}

func runOrders(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, rdb, err := connectStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer closeRedis(rdb, logger)

	if err := migrateRole(cfg, "orders", logger); err != nil {
		return err
	}

	metricsReg := telemetry.NewMetricsRegistry(telemetry.All()...)
	srv := httpserver.NewServer(cfg, logger, db, rdb, metricsReg)

	customerClient := downstream.NewCustomerClient(serviceclient.New("customer", cfg.CustomerURL, msToDuration(cfg.CustomerTimeoutMs)))
	inventoryClient := downstream.NewInventoryClient(serviceclient.New("inventory", cfg.InventoryURL, msToDuration(cfg.InventoryTimeoutMs)))

	store := orders.NewPostgresStore(db)
	bus := eventbus.New(rdb, logger)
	events := orders.NewStreamPublisher(bus, ordersStreamKey(cfg))
	opsNotifier := realtime.NewOpsNotifier(cfg.SlackBotToken, cfg.SlackOpsChannel, logger)
	opsAlerter := orders.NewSlackOpsAlerter(opsNotifier)

	pipeline := orders.NewPipeline(customerClient, inventoryClient, store, events, opsAlerter, logger)
	handler := orders.NewHandler(logger, pipeline)
	srv.APIRouter.Mount("/orders", handler.Routes())

	return serveHTTP(ctx, cfg, srv, logger)
}

func runSellers(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, rdb, err := connectStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer closeRedis(rdb, logger)

	if err := migrateRole(cfg, "sellers", logger); err != nil {
		return err
	}

	metricsReg := telemetry.NewMetricsRegistry(telemetry.All()...)
	srv := httpserver.NewServer(cfg, logger, db, rdb, metricsReg)

	clientSvc := downstream.NewClientServiceClient(serviceclient.New("client", cfg.ClientURL, msToDuration(cfg.ClientTimeoutMs)))
	visitRepo := visit.NewPostgresRepository(db)
	bus := eventbus.New(rdb, logger)
	visitEvents := visit.NewStreamPublisher(bus, visitsStreamKey(cfg))
	saga := visit.NewSaga(clientSvc, visitRepo, visitEvents, logger)
	visitHandler := visit.NewHandler(logger, saga)
	srv.APIRouter.Mount("/visits", visitHandler.Routes())

	planStore := salesplan.NewPostgresStore(db)
	planService := salesplan.NewService(planStore, logger)
	planHandler := salesplan.NewHandler(logger, planService)
	srv.APIRouter.Mount("/sales-plans", planHandler.Routes())

	ledger := idempotency.New(rdb, logger)
	opsNotifier := realtime.NewOpsNotifier(cfg.SlackBotToken, cfg.SlackOpsChannel, logger)
	planOpsAlerter := salesplan.NewSlackOpsAlerter(opsNotifier)
	projector := salesplan.NewProjector(planStore, ledger, planOpsAlerter)

	go runConsumer(ctx, bus, ordersStreamKey(cfg), "salesplan", cfg, logger, projector.Handle)

	return serveHTTP(ctx, cfg, srv, logger)
}

func runDelivery(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, rdb, err := connectStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer closeRedis(rdb, logger)

	if err := migrateRole(cfg, "delivery", logger); err != nil {
		return err
	}

	metricsReg := telemetry.NewMetricsRegistry(telemetry.All()...)
	srv := httpserver.NewServer(cfg, logger, db, rdb, metricsReg)

	shipmentStore := delivery.NewPostgresShipmentStore(db)
	vehicleStore := delivery.NewPostgresVehicleStore(db)
	routeStore := delivery.NewPostgresRouteStore(db)

	vehicleService := delivery.NewVehicleService(vehicleStore)
	shipmentService := delivery.NewShipmentService(shipmentStore)
	routeService := delivery.NewRouteService(routeStore)

	bus := eventbus.New(rdb, logger)
	routeEvents := delivery.NewStreamPublisher(bus, routesStreamKey(cfg))
	notifier := realtime.NewNotifier(rdb, cfg.RealtimeEnvPrefix)
	broadcaster := delivery.NewNotifierBroadcaster(notifier, fmt.Sprintf("%s:ops:routes", cfg.RealtimeEnvPrefix))
	routeCfg := routeoptConfig(cfg)
	scheduler := delivery.NewScheduler(shipmentStore, vehicleStore, routeEvents, broadcaster, logger, routeCfg)

	handler := delivery.NewHandler(logger, vehicleService, shipmentService, scheduler, routeService)
	srv.APIRouter.Mount("/", handler.Routes())

	geocoder := downstream.NewGeocoderClient(serviceclient.New("geocoding", cfg.GeocodingURL, msToDuration(cfg.GeocodingTimeoutMs)))
	ledger := idempotency.New(rdb, logger)
	consumer := delivery.NewOrderConsumer(shipmentStore, ledger, geocoder, logger)

	go runConsumer(ctx, bus, ordersStreamKey(cfg), "delivery", cfg, logger, consumer.Handle)

	return serveHTTP(ctx, cfg, srv, logger)
}

func connectStorage(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *redis.Client, error) {
	db, err := platform.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	rdb, err := platform.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return db, rdb, nil
}

func migrateRole(cfg *config.Config, role string, logger *slog.Logger) error {
	dir := fmt.Sprintf("%s/%s", cfg.MigrationsDir, role)
	if err := platform.RunMigrations(cfg.DatabaseURL, dir); err != nil {
		return fmt.Errorf("running %s migrations: %w", role, err)
	}
	logger.Info("migrations applied", "role", role, "dir", dir)
	return nil
}

func runConsumer(ctx context.Context, bus *eventbus.Bus, streamKey, group string, cfg *config.Config, logger *slog.Logger, handle eventbus.Handler) {
	opts := eventbus.ConsumeOptions{
		StreamKey:     streamKey,
		Group:         group,
		Consumer:      group + "-1",
		PollMax:       cfg.QueuePollMax,
		PollWait:      time.Duration(cfg.QueuePollWaitSeconds) * time.Second,
		VisibilityTTL: consumerVisibilityTTL,
	}
	if err := bus.Run(ctx, opts, handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("event consumer stopped", "group", group, "error", err)
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, srv *httpserver.Server, logger *slog.Logger) error {
	httpSrv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr(), "mode", cfg.Mode)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down", "mode", cfg.Mode)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func ordersStreamKey(cfg *config.Config) string {
	return cfg.QueueStreamPrefix + ":orders"
}

func visitsStreamKey(cfg *config.Config) string {
	return cfg.QueueStreamPrefix + ":visits"
}

func routesStreamKey(cfg *config.Config) string {
	return cfg.QueueStreamPrefix + ":delivery-routes"
}

func routeoptConfig(cfg *config.Config) routeopt.Config {
	return routeopt.Config{AvgSpeedKph: cfg.RouteAvgSpeedKph, StopMinutes: cfg.RouteStopMinutes}
}

func closeRedis(rdb *redis.Client, logger *slog.Logger) {
	if err := rdb.Close(); err != nil {
		logger.Error("closing redis", "error", err)
	}
}
