package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/app"
	"github.com/abhisek/h5play/internal/config"
	"github.com/abhisek/h5play/internal/logging"
)

// runApp opens the store, starts the player server, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	if cfg.Log.File == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
		cfg.Log.File = p
	}
	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	defer logger.Sync()

	act, err := activity.Lookup(cfg.Activity)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ps, err := startPlayer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	runErr := app.Run(ctx, app.Options{
		Runtime:  ps.runtime,
		Activity: act,
		Host:     cfg.Host(),
		Repo:     st.CompletionRepo(),
		Logger:   logger,
		Titles:   manifestTitles(cfg.Content.Dir, logger),
	})

	cancel()
	if err := ps.Wait(); err != nil {
		logger.Warn("player server shutdown", zap.Error(err))
	}
	return runErr
}
