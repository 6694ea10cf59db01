package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotelops/internal/adapters/http_server"
	"hotelops/internal/adapters/observability"
	redisad "hotelops/internal/adapters/redis"
	"hotelops/internal/app"
	"hotelops/internal/shared"
	mysqlrepo "hotelops/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	reservations := app.NewReservationService(repo, repo, repo, cache, cfg.CacheTTL)
	rooms := app.NewRoomService(repo, cache, cfg.CacheTTL)
	payments := app.NewPaymentService(repo, repo, cache, cfg.CacheTTL)
	invoices := app.NewInvoiceService(repo, repo)
	guests := app.NewGuestService(repo, repo)

	// http
	srv := server.New(cfg.RateRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Reservations: reservations,
		Rooms:        rooms,
		Payments:     payments,
		Invoices:     invoices,
		Guests:       guests,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
