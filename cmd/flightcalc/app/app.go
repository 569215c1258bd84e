package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/storage"
)

const (
	storageDir = "data"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger, stdout io.Writer) error {
	seq, err := flight.NewSequence(config.Parameters, flight.WithWorkers(config.Settings.Workers))
	if err != nil {
		return err
	}

	provider, err := config.Provider()
	if err != nil {
		return fmt.Errorf("creating telemetry provider: %w", err)
	}

	options := []func(*Orchestrator){WithPasses(config.Settings.Passes)}
	if !config.Settings.Quiet {
		options = append(options, WithOutput(stdout))
	}

	if config.Storage.Enabled {
		store, err := createStorage(&config.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		defer func() {
			if cErr := store.Close(); cErr != nil {
				logger.Error(fmt.Sprintf("closing storage: %s", cErr.Error()))
			}
		}()

		options = append(options, WithStore(store, filepath.Base(store.Path()), config.Parameters))
		logger.Info("storing reports", slog.String("path", store.Path()))
	}

	logger.Info("computing reports", slog.Int("scenarios", provider.Len()), slog.Int("passes", max(config.Settings.Passes, 1)))

	results, err := NewOrchestrator(seq, logger, options...).Run(ctx, provider)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.RecordID > 0 {
			logger.Info("report stored", slog.String("scenario", r.Telemetry.Scenario), slog.Int64("recordID", r.RecordID))
		}
	}

	return nil
}

type pathStore struct {
	*storage.SqliteStore
	path string
}

func (s *pathStore) Path() string {
	return s.path
}

func createStorage(config *StorageConfig) (*pathStore, error) {
	if config.DBPath != "" {
		return &pathStore{SqliteStore: storage.NewSqliteStore(config.DBPath), path: config.DBPath}, nil
	}

	dir := config.DataDirectory
	if dir == "" {
		dir = storageDir
	}
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	stat, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage directory '%s' does not exist: %w", dir, err)
		}
		return nil, fmt.Errorf("checking storage directory '%s': %w", dir, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dir)
	}

	dbPath := filepath.Join(dir, fmt.Sprintf("flight_session_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return &pathStore{SqliteStore: storage.NewSqliteStore(dbPath), path: dbPath}, nil
}
