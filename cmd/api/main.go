package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/db"
	httpx "github.com/geocoder89/userhub/internal/http"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo/metered"
	"github.com/geocoder89/userhub/internal/repo/postgres"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing
	shutdownTracer, err := observability.InitTracer(context.Background(), "userhub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// database
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	migrateCtx, cancelMigrate := config.WithTimeout(10 * time.Second)

	err = db.Migrate(migrateCtx, pool)

	cancelMigrate()

	if err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// metrics
	prom := observability.NewProm(prometheus.DefaultRegisterer)

	var store handlers.UsersStore = metered.Wrap(postgres.NewUsersRepo(pool), prom)

	// list cache; redis is optional
	var listCache handlers.ListCache

	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cache.ClientConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
		err = cache.Ping(pingCtx, rdb)
		cancelPing()

		if err != nil {
			log.Warn("redis unavailable, list cache disabled", "err", err)
		} else {
			listCache = cache.NewUsersCache(rdb, cfg.CacheTTL)
		}
	}

	var jwtManager middlewares.TokenVerifier

	if cfg.JWTSecret != "" {
		jwtManager = auth.NewManager(cfg.JWTSecret, 15*time.Minute)
	}

	ping := func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	router := httpx.NewRouter(httpx.RouterDeps{
		Log:     log,
		Cfg:     cfg,
		Store:   store,
		Cache:   listCache,
		JWT:     jwtManager,
		Metrics: prom,
		Ping:    ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		_ = shutdownTracer(ctx)
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
