package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"munifund/internal/app"
	"munifund/internal/client"
	"munifund/internal/config"
)

var (
	verbose  bool
	userFlag string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "munifund",
	Short: "munifund - terminal client for the municipal project-funding platform",
	Long: `munifund is a terminal front-end for the municipal project-funding API.

Municipalities publish infrastructure project listings; lenders browse,
filter, favorite and commit funding, and exchange documents, questions and
meetings with the issuing municipality.

Run 'munifund browse' for the interactive listing screen, or use the
subcommands for scripted access.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if userFlag != "" {
			cfg.UserID = userFlag
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// watchCmd runs the daemon: scheduled portfolio polls, funding alerts over
// Telegram, and the local dashboard facade.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch favorited projects and alert on funding movement",
	Long: `Runs the watch daemon: favorited projects are re-fetched on a cron
schedule, funding snapshots are diffed against the previous poll, and
movements are delivered to Telegram. A local HTTP facade serves cached
listing and portfolio reads while the daemon runs.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateWatch(); err != nil {
		return err
	}

	ctx := context.Background()
	builder := app.NewBuilder(&cfg, app.WithLogger(logger))
	application, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("app build error: %w", err)
	}

	if err := application.Start(); err != nil {
		return fmt.Errorf("app start error: %w", err)
	}

	waitForShutdown(application)
	return nil
}

func waitForShutdown(application *app.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newAPI() *client.Client {
	return client.New(cfg.APIBaseURL, cfg.APIToken, client.WithLogger(logger))
}

func requireUser() (string, error) {
	if cfg.UserID == "" {
		return "", fmt.Errorf("no user configured: set MUNIFUND_USER_ID or pass --user")
	}
	return cfg.UserID, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Acting user ID (default: MUNIFUND_USER_ID)")

	rootCmd.AddCommand(
		browseCmd,
		projectsCmd,
		projectCmd,
		portfolioCmd,
		favoriteCmd,
		unfavoriteCmd,
		commitCmd,
		questionsCmd,
		askCmd,
		notesCmd,
		noteCmd,
		docsCmd,
		meetingsCmd,
		draftCmd,
		downloadCmd,
		watchCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
