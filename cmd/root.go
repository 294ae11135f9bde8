package cmd

import (
	"log/slog"
	"os"

	"github.com/inovacc/worklog/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "An offline-tolerant work hours tracker",
	Long: `Worklog records work hours against clients, projects and work
stations, synchronizing with a remote collection service. When the
service is unreachable it keeps working on a local cache and reconciles
once the connection returns; the server is always the source of truth.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		setupLogging(cfg.LogLevel)

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Path to the configuration file")
}
