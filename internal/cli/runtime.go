package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/terraincognita07/registro/internal/archive"
	"github.com/terraincognita07/registro/internal/cloudstore"
	"github.com/terraincognita07/registro/internal/config"
	"github.com/terraincognita07/registro/internal/db"
	"github.com/terraincognita07/registro/internal/realtime"
	"github.com/terraincognita07/registro/internal/realtime/bus"
	"github.com/terraincognita07/registro/internal/services"
	"gorm.io/gorm"
)

// Runtime is the wired service graph shared by the server and the
// maintenance subcommands.
type Runtime struct {
	Config     *config.Config
	Log        *slog.Logger
	Dispatcher *realtime.Dispatcher
	Database   *gorm.DB
	Store      services.RecordStore
	Days       *services.DayService
	Exports    *services.ExportService
	Samples    *services.SampleDataService
	Auth       *services.AuthService

	closers []func() error
}

func OpenRuntime(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Runtime, error) {
	runtime := &Runtime{Config: cfg, Log: log}

	var eventBus realtime.Bus
	if cfg.RedisAddr != "" {
		redisBus, err := bus.NewRedisBus(ctx, cfg.RedisAddr, cfg.RedisChannel, log)
		if err != nil {
			return nil, fmt.Errorf("realtime bus init failed: %w", err)
		}
		eventBus = redisBus
	}
	runtime.Dispatcher = realtime.NewDispatcher(realtime.NewHub(log), eventBus, log)
	runtime.closers = append(runtime.closers, runtime.Dispatcher.Close)

	store, err := runtime.openStore(ctx)
	if err != nil {
		_ = runtime.Close()
		return nil, err
	}
	runtime.Store = store

	runtime.Days = services.NewDayService(store, services.SystemClock, cfg.Location, log)

	var archiver services.ExportArchiver
	if cfg.ArchiveEnabled() {
		s3Archive, err := archive.NewS3Archive(ctx, archive.S3Config{
			Region:    cfg.ArchiveRegion,
			Bucket:    cfg.ArchiveBucket,
			AccessKey: cfg.ArchiveAccessKey,
			SecretKey: cfg.ArchiveSecretKey,
			Endpoint:  cfg.ArchiveEndpoint,
		}, log)
		if err != nil {
			_ = runtime.Close()
			return nil, fmt.Errorf("export archive init failed: %w", err)
		}
		archiver = s3Archive
	}
	runtime.Exports = services.NewExportService(runtime.Days, archiver, services.SystemClock, log)

	seed := uint64(time.Now().UnixNano())
	runtime.Samples = services.NewSampleDataService(runtime.Days, rand.New(rand.NewPCG(seed, seed>>1)), log)

	auth, err := services.NewAuthService(cfg.SecretKey, cfg.InitialAuthToken, services.SystemClock, log)
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("auth init failed: %w", err)
	}
	runtime.Auth = auth

	return runtime, nil
}

func (runtime *Runtime) openStore(ctx context.Context) (services.RecordStore, error) {
	switch runtime.Config.StoreDriver {
	case config.StoreDriverFirestore:
		client, err := cloudstore.Open(ctx, runtime.Config.FirestoreProjectID, runtime.Config.FirestoreCredsFile)
		if err != nil {
			return nil, fmt.Errorf("firestore init failed: %w", err)
		}
		runtime.closers = append(runtime.closers, client.Close)
		return cloudstore.NewFirestoreStore(client, runtime.Config.AppID, runtime.Log), nil
	default:
		database, err := db.OpenSQLite(runtime.Config.DBPath, runtime.Log)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		sqlDB, err := database.DB()
		if err != nil {
			return nil, fmt.Errorf("database handle failed: %w", err)
		}
		runtime.Database = database
		runtime.closers = append(runtime.closers, sqlDB.Close)
		return db.NewRepositories(database, runtime.Dispatcher).Records, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (runtime *Runtime) Close() error {
	var errs []error
	for i := len(runtime.closers) - 1; i >= 0; i-- {
		if err := runtime.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	runtime.closers = nil
	return errors.Join(errs...)
}
