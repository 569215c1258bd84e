package app

import (
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/roman-kulish/flight-telemetry/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	return renderRecord(ctx, store, config, logger)
}

func renderRecord(ctx context.Context, store storage.Store, config *Config, logger *slog.Logger) error {
	rec, err := store.Record(ctx, config.RecordID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("record %d does not exist", config.RecordID)
		}
		return err
	}

	logger.Debug("record loaded",
		slog.Int64("recordID", rec.ID),
		slog.Int64("sessionID", rec.SessionID),
		slog.String("scenario", rec.Telemetry.Scenario))

	renderer, err := NewCardRenderer(RenderConfig{Location: config.TimeZone})
	if err != nil {
		return fmt.Errorf("creating card renderer: %w", err)
	}

	logger.Info("rendering telemetry card",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", renderer.config.Width),
			slog.Int("height", renderer.config.Height),
		))

	img, err := renderer.Render(rec)
	if err != nil {
		return fmt.Errorf("rendering card: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return errors.Join(err, out.Close())
}
