package main

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotelops/internal/adapters/observability"
	redisad "hotelops/internal/adapters/redis"
	"hotelops/internal/app"
	"hotelops/internal/domain"
	"hotelops/internal/shared"
	mysqlrepo "hotelops/internal/storage/mysql"
)

// systemActor attributes night-audit mutations; there is no human behind them.
var systemActor = domain.Principal{ID: 1, Role: "SYSTEM"}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.AuditWorkers).
		Msg("night audit starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	reservations := app.NewReservationService(repo, repo, repo, cache, cfg.CacheTTL)
	invoices := app.NewInvoiceService(repo, repo)

	today := domain.TruncateToDay(time.Now())

	candidates, err := repo.ListNoShowCandidates(ctx, today)
	if err != nil {
		log.Fatal().Err(err).Msg("no-show candidate query failed")
	}
	log.Info().Int("count", len(candidates)).Msg("no-show candidates")

	sem := semaphore.NewWeighted(int64(cfg.AuditWorkers))
	var wg sync.WaitGroup

	for _, rv := range candidates {
		rv := rv

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if _, err := reservations.Transition(ctx, systemActor, id, domain.ReservationNoShow); err != nil {
				log.Warn().Int64("id", id).Err(err).Msg("no-show transition failed")
				return
			}
			log.Info().Int64("id", id).Msg("marked NO_SHOW")
		}(rv.ID)
	}

	wg.Wait()

	overdue, err := invoices.MarkOverdue(ctx, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("overdue invoice sweep failed")
	}
	log.Info().Int64("invoices", overdue).Msg("overdue sweep done")

	log.Info().Msg("night audit completed")
}
