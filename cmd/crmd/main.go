package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/graphql-go/handler"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"graphql-crm/internal/config"
	"graphql-crm/internal/db"
	"graphql-crm/internal/gql"
	"graphql-crm/internal/jobs"
	"graphql-crm/internal/service"
	"graphql-crm/internal/store"
)

func main() {
	var (
		addr   = flag.String("addr", "", "listen address (overrides CRM_HTTP_ADDR)")
		seed   = flag.Bool("seed", false, "insert a demo dataset into an empty database")
		noJobs = flag.Bool("no-jobs", false, "disable the scheduled maintenance jobs")
	)
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	gdb, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MySQL")
	}
	if err := db.EnsureSchema(gdb); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	if *seed {
		if err := db.SeedDemo(context.Background(), gdb); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo dataset")
		}
		log.Info().Msg("demo dataset ready")
	}

	st := store.NewGormStore(gdb)
	svc := service.New(st, service.Config{
		LowStockThreshold: cfg.LowStockThreshold,
		RestockAmount:     cfg.RestockAmount,
	})
	schema, err := gql.NewSchema(svc, st)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build schema")
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	}))

	var sched *cron.Cron
	if !*noJobs {
		sched = cron.New()
		runner := jobs.NewRunner(schema, st, log, cfg.JobLogDir, cfg.InactiveCustomerDays)
		if err := runner.Register(sched); err != nil {
			log.Fatal().Err(err).Msg("failed to register jobs")
		}
		sched.Start()
		log.Info().Str("dir", cfg.JobLogDir).Msg("maintenance jobs scheduled")
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("addr", cfg.HTTPAddr).Msg("graphql endpoint listening on /graphql")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if sched != nil {
		<-sched.Stop().Done()
	}
	log.Info().Msg("server stopped")
}
