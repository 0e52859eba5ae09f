package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"nomad_hotel/internal/adapters/feed"
	"nomad_hotel/internal/adapters/observability"
	redisad "nomad_hotel/internal/adapters/redis"
	"nomad_hotel/internal/app"
	"nomad_hotel/internal/domain"
	"nomad_hotel/internal/shared"
	mysqlrepo "nomad_hotel/internal/storage/mysql"
)

// Usage: importer [feed-hotel-id ...]
// With no ids, every hotel the feed lists is imported.
func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "importer").
		With().Str("run_id", uuid.NewString()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Storage != shared.StorageMySQL {
		log.Fatal().Str("storage", cfg.Storage).Msg("importer needs STORAGE=mysql")
	}

	log.Info().
		Str("base", cfg.FeedBase).
		Int("workers", cfg.Workers).
		Int("rps", cfg.FeedRPS).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := feed.New(cfg.FeedBase, cfg.FeedKey, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}

	// imported hotels land in the featured list, so the API cache has to hear about them
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	catalog := app.NewCatalogService(repo)
	hotels := app.NewHotelService(repo, repo, cache, cfg.CacheTTL)
	imp := app.NewImportService(client, catalog, hotels)

	ids, err := hotelIDs(ctx, imp, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("could not determine hotels to import")
	}

	var (
		wg                       sync.WaitGroup
		created, skipped, failed atomic.Int64
		sem                      = semaphore.NewWeighted(int64(cfg.Workers))
		start                    = time.Now()
	)
	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}

		wg.Add(1)
		go func(feedID int64) {
			defer wg.Done()
			defer sem.Release(1)

			ok, err := imp.ImportHotel(ctx, feedID)
			switch {
			case err != nil:
				failed.Add(1)
				observability.ObserveImport("failed")
				log.Warn().Int64("feed_id", feedID).Err(err).Msg("import failed")
			case ok:
				created.Add(1)
				observability.ObserveImport("created")
				log.Info().Int64("feed_id", feedID).Msg("import ok")
			default:
				skipped.Add(1)
				observability.ObserveImport("skipped")
			}
		}(id)
	}

	wg.Wait()
	log.Info().
		Int("total", len(ids)).
		Int64("created", created.Load()).
		Int64("skipped", skipped.Load()).
		Int64("failed", failed.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("import completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func hotelIDs(ctx context.Context, imp *app.ImportService, args []string) ([]int64, error) {
	if len(args) == 0 {
		return imp.ListFeedIDs(ctx)
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
