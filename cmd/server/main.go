package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tawseel/internal/app"
	"tawseel/internal/auth"
	"tawseel/internal/config"
	"tawseel/internal/events"
	"tawseel/internal/handler"
	"tawseel/internal/logger"
	internalRedis "tawseel/internal/redis"
	"tawseel/internal/repository"
	"tawseel/internal/repository/memory"
	"tawseel/internal/repository/postgres"
	"tawseel/internal/service"
)

const serviceName = "tawseel-trip-service"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(serviceName, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// New Relic first so the database and Redis clients get instrumented.
	nrApp := app.NewNewRelic(cfg.NewRelic, log)
	if nrApp != nil {
		defer nrApp.Shutdown(5 * time.Second)
	}

	var trips repository.TripRepository
	var users repository.UserRepository
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp, log)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info("connected to PostgreSQL", zap.String("host", cfg.Database.Host))
		trips = postgres.NewTripRepository(db)
		users = postgres.NewUserRepository(db)
	case config.StoreBackendMemory:
		log.Warn("using in-memory store; trips are lost on restart")
		trips = memory.NewTripRepository()
		users = memory.NewUserRepository()
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
		users = internalRedis.NewUserCache(redisClient, users, cfg.Redis.UserCacheTTL, log)
	}

	bus, err := app.NewEventBus(cfg.Events, redisClient, log)
	if err != nil {
		return err
	}
	defer bus.Close()

	notifyCtx, stopNotifier := context.WithCancel(context.Background())
	defer stopNotifier()
	go func() {
		if err := events.NewNotifier(bus.Subscriber, log).Run(notifyCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("notifier stopped", zap.Error(err))
		}
	}()

	tripService := service.NewTripService(trips, users, events.NewPublisher(bus.Publisher), log)

	deps := app.RouterDeps{
		TripHandler:   handler.NewTripHandler(tripService, log),
		RatingHandler: handler.NewRatingHandler(tripService, log),
		Verifier:      auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		NewRelicApp:   nrApp,
		Logger:        log,
	}
	if redisClient != nil {
		deps.IdempotencyStore = internalRedis.NewIdempotencyStore(redisClient)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	stopNotifier()

	log.Info("server exited")
	return nil
}
