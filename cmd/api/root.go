package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vortrixs/user-api/internal/config"
	"github.com/vortrixs/user-api/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "user-api",
		Short:         "HTTP API for managing users",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newEmailCmd(),
	)

	return root
}

// bootstrap loads the config and builds the logger every command shares.
// The caller must Shutdown the returned LoggerService.
func bootstrap() (*config.Config, zerolog.Logger, *logger.LoggerService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, log, loggerService, nil
}
