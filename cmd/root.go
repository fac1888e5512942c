package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/config"
	"github.com/abhisek/h5play/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "h5play",
	Short: "Play H5P activities and track their results",
	Long:  "h5play serves bundled H5P activities to the browser and shows elapsed time and correct answers in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (overrides H5PLAY_CONFIG env var)")
	pf.String("db", "", "Path to SQLite database file (overrides H5PLAY_DB env var)")
	pf.String("addr", "", "Listen address of the player server")
	pf.String("content-dir", "", "Directory holding the H5P content packages")
	pf.String("assets-dir", "", "Directory holding the h5p-standalone bundle")
	pf.String("activity", "", "Activity selected at startup (memory-game, vocabulary)")
	pf.Bool("no-browser", false, "Do not open the player page in a browser")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.Bool("dev-log", false, "Write human-readable development logs instead of JSON")
	pf.Duration("load-timeout", 0, "Give up waiting for the player after this long")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration from the config file, the environment
// and finally command-line flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v, _ := flags.GetString("content-dir"); v != "" {
		cfg.Content.Dir = v
	}
	if v, _ := flags.GetString("assets-dir"); v != "" {
		cfg.Content.AssetsDir = v
	}
	if v, _ := flags.GetString("activity"); v != "" {
		cfg.Activity = v
	}
	if v, _ := flags.GetBool("no-browser"); v {
		cfg.Server.OpenBrowser = false
	}
	if v, _ := flags.GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetBool("dev-log"); v {
		cfg.Log.Development = true
	}
	if v, _ := flags.GetDuration("load-timeout"); v > 0 {
		cfg.LoadTimeout = v
	}
	if v, _ := flags.GetString("db"); v != "" {
		cfg.Store.DBPath = v
	}

	if _, err := activity.Lookup(cfg.Activity); err != nil {
		return config.Config{}, err
	}
	if cfg.LoadTimeout < 0 {
		return config.Config{}, fmt.Errorf("load timeout must not be negative, got %s", cfg.LoadTimeout)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using the configured path (flag or
// H5PLAY_DB), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if p := cfg.Store.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the completion history, logging nothing on success.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
