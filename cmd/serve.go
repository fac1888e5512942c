package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/host"
	"github.com/abhisek/h5play/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one activity without the terminal UI",
	Long:  "Serve mounts the selected activity, logs every state change and result, and runs until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
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

		h := host.New(ps.runtime, act,
			host.WithConfig(cfg.Host()),
			host.WithLogger(logger.Named("host")),
			host.WithRecorder(st.CompletionRepo()),
		)
		if err := h.Mount(ctx); err != nil {
			return fmt.Errorf("mount %s: %w", act.ID, err)
		}

		logSnapshots(ctx, h, logger)

		if err := h.Close(); err != nil {
			logger.Warn("host teardown", zap.Error(err))
		}
		cancel()
		if err := ps.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// logSnapshots logs every host update until ctx is done.
func logSnapshots(ctx context.Context, h *host.Host, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-h.Updates():
			if !ok {
				return
			}
			fields := []zap.Field{
				zap.String("activity", snap.Activity.ID),
				zap.String("mount", snap.MountID),
				zap.Stringer("state", snap.State),
			}
			if snap.HasElapsedTime() {
				fields = append(fields, zap.String("elapsed", snap.ElapsedTime))
			}
			if snap.ShowCorrectAnswers {
				fields = append(fields, zap.Int("correct_answers", snap.CorrectAnswers))
			}
			logger.Info("player state", fields...)
		}
	}
}
