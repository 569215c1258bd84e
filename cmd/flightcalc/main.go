package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/flight-telemetry/cmd/flightcalc/app"
	"github.com/roman-kulish/flight-telemetry/internal/logging"
)

func main() {
	logger := logging.Default()

	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to the configuration file (built-in scenario when omitted)")
	flag.Parse()

	config, err := app.LoadConfig(configPath)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
		os.Exit(1)
	}

	if logger, err = logging.New(os.Stderr, config.Settings.Logging); err != nil {
		logging.Default().Error(err.Error())
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	if err = app.Run(ctx, config, logger.Logger, os.Stdout); err != nil {
		logger.Error(err.Error())

		cancel()
		_ = logger.Close()
		os.Exit(1)
	}

	cancel()
	_ = logger.Close()
}
