package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "nomad_hotel/internal/adapters/http_server"
	"nomad_hotel/internal/adapters/observability"
	redisad "nomad_hotel/internal/adapters/redis"
	"nomad_hotel/internal/app"
	"nomad_hotel/internal/domain"
	"nomad_hotel/internal/shared"
	"nomad_hotel/internal/storage/memory"
	mysqlrepo "nomad_hotel/internal/storage/mysql"
)

type repository interface {
	domain.CatalogRepository
	domain.HotelRepository
	domain.BookingRepository
}

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// console in dev, JSON otherwise
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// storage
	var (
		repo  repository
		ready func(*http.Request) error
	)
	switch cfg.Storage {
	case shared.StorageMemory:
		log.Warn().Msg("using in-memory storage, data is lost on exit")
		repo = memory.New()
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
		ready = func(r *http.Request) error { return db.PingContext(r.Context()) }
	}

	// cache; the API keeps serving from storage when redis is down
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, continuing; cache errors will be logged")
		}
		cancel()
		cache = rc
	}

	catalog := app.NewCatalogService(repo)
	hotels := app.NewHotelService(repo, repo, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(repo, repo, repo)

	// http
	srv := server.New(cfg.HTTPTimeout, log.Logger)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:  catalog,
		Hotels:   hotels,
		Bookings: bookings,
		Ready:    ready,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.Storage).Msg("API listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
