package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/crypto"
	"github.com/MKhiriev/go-blog-auth/internal/handler"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/server"
	"github.com/MKhiriev/go-blog-auth/internal/service"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("blog-auth-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, cfg.App.SessionTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	var snapshotWorker workers.Worker
	if !storages.Durable && cfg.Storage.Snapshot.Path != "" {
		users, sessions := storages.Volatile()
		restored, err := store.RestoreSnapshot(ctx, cfg.Storage.Snapshot.Path, users, sessions)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.Snapshot.Path).Msg("error restoring snapshot")
		}
		log.Info().Bool("restored", restored).Str("path", cfg.Storage.Snapshot.Path).Msg("snapshot checked")

		snapshotWorker = workers.NewSnapshotWorker(cfg.Storage.Snapshot.Path, cfg.Storage.Snapshot.Interval,
			users, sessions, log)
	}

	hasher, err := crypto.NewPasswordHasher(cfg.App.HashAlgorithm, cfg.App.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating password hasher")
	}

	cascader, err := workers.NewCascader(cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating cascader")
	}
	defer func() {
		if err := cascader.Close(); err != nil {
			log.Err(err).Msg("error closing cascader")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := service.Dependencies{
		Users:       store.NewRootGuard(storages.Users, cfg.App.RootAdminID),
		Sessions:    storages.Sessions,
		Hasher:      hasher,
		Validator:   validators.NewUserValidator(),
		Cascader:    cascader,
		Metrics:     service.NewMetrics(registry),
		RootAdminID: cfg.App.RootAdminID,
	}

	if _, err = service.BootstrapRootAdmin(ctx, deps, cfg.Admin, log); err != nil {
		log.Fatal().Err(err).Msg("error bootstrapping root admin")
	}

	services := service.NewServices(deps, log)

	handlers, err := handler.NewHandlers(services, cfg, registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(snapshotWorker), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
