package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/driftarr/driftarr/internal/blocklist"
	"github.com/driftarr/driftarr/internal/config"
	"github.com/driftarr/driftarr/internal/database"
	"github.com/driftarr/driftarr/internal/decision"
	"github.com/driftarr/driftarr/internal/downloader"
	"github.com/driftarr/driftarr/internal/downloader/transmission"
	"github.com/driftarr/driftarr/internal/grab"
	"github.com/driftarr/driftarr/internal/logger"
	"github.com/driftarr/driftarr/internal/media"
	"github.com/driftarr/driftarr/internal/scheduler"
	"github.com/driftarr/driftarr/internal/scoring"
)

// app holds the wired services. Everything is built once at startup and
// passed by reference; nothing here is a singleton.
type app struct {
	db        *database.DB
	store     *media.Store
	blocklist *blocklist.Service
	engine    *decision.Engine
	grabs     *grab.Service
	scheduler *scheduler.Scheduler
}

func main() {
	_ = godotenv.Load(".env")

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("db", cfg.Database.Path).
		Msg("Starting driftarr")

	a, err := build(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Startup failed")
	}
	defer a.db.Close()

	a.scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down")
	if err := a.scheduler.Stop(); err != nil {
		log.Warn().Err(err).Msg("Scheduler shutdown failed")
	}
}

func build(cfg *config.Config, log *logger.Logger) (*app, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store := media.NewStore(db.Conn(), log.Logger)

	scorerCfg := scoring.DefaultConfig()
	scorerCfg.CacheSize = cfg.Scoring.CacheSize
	scorer := scoring.NewScorer(scorerCfg)

	blocklistSvc := blocklist.NewService(db.Conn(), log.Logger)
	engine := decision.NewEngine(scorer, blocklistSvc, store, log.Logger)

	registry := downloader.NewRegistry(log.Logger)
	for i, dl := range cfg.Downloaders {
		client, err := buildClient(dl)
		if err != nil {
			log.Warn().Err(err).Str("name", dl.Name).Msg("Skipping download client")
			continue
		}
		registry.Register(&downloader.DownloadClient{
			ID:       int64(i + 1),
			Name:     dl.Name,
			Type:     downloader.ClientType(dl.Type),
			Enabled:  dl.Enabled,
			Priority: dl.Priority,
			Client:   client,
		})
	}
	grabSvc := grab.NewService(db.Conn(), registry, log.Logger)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if err := sched.RegisterTask(scheduler.TaskConfig{
		ID:       "blocklist-prune",
		Name:     "Prune expired blocklist entries",
		Interval: cfg.Blocklist.PruneInterval,
		Func: func(ctx context.Context) error {
			_, err := blocklistSvc.Prune(ctx)
			return err
		},
		RunOnStart: true,
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("register blocklist prune task: %w", err)
	}

	return &app{
		db:        db,
		store:     store,
		blocklist: blocklistSvc,
		engine:    engine,
		grabs:     grabSvc,
		scheduler: sched,
	}, nil
}

func buildClient(dl config.DownloaderConfig) (downloader.Client, error) {
	switch downloader.ClientType(dl.Type) {
	case downloader.ClientTypeTransmission:
		return transmission.New(transmission.Config{
			Host:     dl.Host,
			Port:     dl.Port,
			Username: dl.Username,
			Password: dl.Password,
			UseSSL:   dl.UseSSL,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported download client type %q", dl.Type)
	}
}
