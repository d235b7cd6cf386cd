// Command marvelx browses Marvel characters and keeps a local list of favorites.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/catalog"
	"github.com/desertthunder/marvelx/internal/services"
	"github.com/desertthunder/marvelx/internal/shared"
)

// EnvConfigPath names the config file; defaults to config.toml in the working directory.
const EnvConfigPath = "MARVELX_CONFIG"

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code.
func run() int {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	var remote catalog.RemoteDataSource
	if config.Credentials.Marvel.HasKeys() {
		if svc, err := services.NewMarvelService(config.Credentials.Marvel, services.WithLogger(logger)); err == nil {
			remote = svc
		} else {
			logger.Warn("Marvel API unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Remote:     remote,
		Logger:     logger,
	})
	defer runner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return exitCode(logger, newApp(runner).Run(ctx, os.Args))
}

func exitCode(logger *log.Logger, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrNotImplemented):
		logger.Warn("not implemented")
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		logger.Error("application error", "kind", shared.ErrorKind(err), "error", err)
		return 1
	}
}
