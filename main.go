package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"toilet-finder/config"
	"toilet-finder/handlers"
	"toilet-finder/logger"
	"toilet-finder/models"
	"toilet-finder/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Environment variables may come from the container instead.
		logger.L().Debug("dotenv_not_loaded", "err", err)
	}
	l := logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		l.Error("config_invalid", "err", err)
		os.Exit(1)
	}

	router, closeRouter, err := buildRouter(cfg)
	if err != nil {
		l.Error("router_init_failed", "err", err)
		os.Exit(1)
	}
	defer closeRouter()

	generator := services.NewMockGenerator()
	registry := services.NewRegistry(services.ViewOptions{
		Generator: generator,
		Router:    router,
		Tiles: models.TileLayer{
			URLTemplate: cfg.Map.TileURL,
			Attribution: cfg.Map.TileAttribution,
		},
		Center:            models.Coordinate{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng},
		Zoom:              cfg.Map.DefaultZoom,
		DirectionsBaseURL: cfg.Map.DirectionsBaseURL,
		RouteTimeout:      cfg.Routing.Timeout,
	}, cfg.View.IdleTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go registry.Run(ctx, cfg.View.SweepInterval)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.NewRouter(registry, generator, cfg.Server.CorsOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info("server_starting", "addr", cfg.Server.Addr, "routing_provider", cfg.Routing.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("server_failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("server_shutting_down")

	registry.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server_shutdown_failed", "err", err)
	}
	l.Info("server_stopped")
}

// buildRouter selects the routing provider and, when REDIS_ADDR is set,
// wraps it with the Redis route cache.
func buildRouter(cfg config.Config) (services.Router, func(), error) {
	var (
		router services.Router
		err    error
	)
	switch cfg.Routing.Provider {
	case config.ProviderORS:
		router, err = services.NewORSRouter(cfg.Routing.ORSAPIKey, cfg.Routing.ORSBaseURL, cfg.Routing.Profile, cfg.Routing.Timeout)
	default:
		router, err = services.NewOSRMRouter(cfg.Routing.OSRMBaseURL, cfg.Routing.Profile, cfg.Routing.Timeout)
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.Redis.Addr == "" {
		return router, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.L().Warn("route_cache_unavailable", "addr", cfg.Redis.Addr, "err", err)
		rdb.Close()
		return router, func() {}, nil
	}

	logger.L().Info("route_cache_enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Routing.CacheTTL)
	return services.NewCachedRouter(router, rdb, cfg.Routing.CacheTTL), func() { rdb.Close() }, nil
}
