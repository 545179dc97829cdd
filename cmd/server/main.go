// Package main is the entry point for the TraderLens trading-performance
// analytics server. It loads the trade ledger from SQLite, keeps an in-memory
// metrics snapshot up to date, and serves reports, ratings, and filters over
// HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/config"
	"github.com/aristath/traderlens/internal/database"
	"github.com/aristath/traderlens/internal/events"
	"github.com/aristath/traderlens/internal/modules/ledger"
	"github.com/aristath/traderlens/internal/modules/metrics"
	"github.com/aristath/traderlens/internal/reliability"
	"github.com/aristath/traderlens/internal/scheduler"
	"github.com/aristath/traderlens/internal/server"
	"github.com/aristath/traderlens/pkg/logger"
)

// snapshotKeep is how many archived snapshots the cache retains
const snapshotKeep = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting TraderLens")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Fatal error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	// Databases: the ledger is the durable audit trail, the cache holds
	// archived snapshots and can be rebuilt from the ledger.
	ledgerDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "ledger.db"),
		Profile: database.ProfileLedger,
		Name:    "ledger",
	})
	if err != nil {
		return err
	}
	defer ledgerDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		return err
	}
	defer cacheDB.Close()

	repo := ledger.NewTradeRepository(ledgerDB.Conn(), log)
	if err := repo.Migrate(); err != nil {
		return err
	}

	archive := metrics.NewSnapshotArchive(cacheDB.Conn(), snapshotKeep, log)
	if err := archive.Migrate(); err != nil {
		return err
	}

	bus := events.NewBus(log)

	engine := metrics.NewEngine(cfg.RiskFreeRate, log)
	engine.OnRecompute(func(snap *metrics.Snapshot) {
		if err := archive.Record(snap); err != nil {
			log.Warn().Err(err).Msg("Failed to archive snapshot")
		}
		bus.Emit(events.SnapshotComputed, "metrics", map[string]interface{}{
			"ledger_id":     snap.LedgerID.String(),
			"filtered_rows": len(snap.Filtered),
			"market":        snap.Market,
		})
	})

	// Warm the engine from the stored ledger so reports are available
	// immediately after a restart.
	records, err := repo.GetAll()
	if err != nil {
		return err
	}
	if len(records) > 0 {
		engine.Load(records)
		log.Info().Int("rows", len(records)).Msg("Ledger loaded from store")
	} else {
		log.Info().Msg("Trade store is empty, waiting for upload")
	}

	sched := scheduler.New(log)

	if err := sched.Register(cfg.ReloadSchedule, scheduler.NewReloadLedgerJob(repo, engine, bus, log)); err != nil {
		return err
	}
	if err := sched.Register(cfg.CheckpointSchedule, scheduler.NewWALCheckpointJob([]*database.DB{ledgerDB, cacheDB}, log)); err != nil {
		return err
	}
	maintenance := reliability.NewMaintenance(ledgerDB, cacheDB, log)
	if err := sched.Register(cfg.MaintenanceSchedule, scheduler.NewDBMaintenanceJob(maintenance, log)); err != nil {
		return err
	}

	if cfg.BackupEnabled() {
		r2Client, err := reliability.NewR2Client(context.Background(), reliability.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		}, log)
		if err != nil {
			return err
		}

		backupService := reliability.NewBackupService(map[string]*database.DB{
			"ledger": ledgerDB,
			"cache":  cacheDB,
		}, log)
		r2Backup := reliability.NewR2BackupService(r2Client, backupService, cfg.DataDir, log)

		const retentionDays = 30
		if err := sched.Register(cfg.BackupSchedule, scheduler.NewCloudBackupJob(r2Backup, bus, retentionDays, log)); err != nil {
			return err
		}
	} else {
		log.Info().Msg("Cloud backup disabled, R2 credentials not configured")
	}

	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:      log,
		Config:   cfg,
		LedgerDB: ledgerDB,
		CacheDB:  cacheDB,
		Repo:     repo,
		Engine:   engine,
		Archive:  archive,
		Bus:      bus,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	// Checkpoint so the next start replays as little WAL as possible
	for _, db := range []*database.DB{ledgerDB, cacheDB} {
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			log.Warn().Err(err).Str("database", db.Name()).Msg("Final WAL checkpoint failed")
		}
	}

	log.Info().Msg("Shutdown complete")
	return nil
}
