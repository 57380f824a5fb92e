package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"werkstatt-bot/bot"
	"werkstatt-bot/config"
	"werkstatt-bot/handlers"
	"werkstatt-bot/model"
	"werkstatt-bot/utils"
	"werkstatt-bot/utils/database"
	"werkstatt-bot/utils/metrics"
)

var envFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration and builds the logger.
// The caller must sync the logger.
func loadConfig() (*model.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(cfg.Log, cfg.Production)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

var rootCmd = &cobra.Command{
	Use:          "werkstatt-bot",
	Short:        "Discord bot for workshop absences, sanctions and tuning documentation",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and serve interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		lock, err := utils.AcquireLock(cfg.LockFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("error releasing lock file", zap.Error(err))
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := database.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		m := metrics.New()
		if cfg.MetricsAddr != "" {
			go func() {
				if err := metrics.Serve(ctx, cfg.MetricsAddr, metrics.NewRouter(m, store), logger); err != nil {
					logger.Error("ops server stopped", zap.Error(err))
				}
			}()
		}

		b, err := bot.New(cfg, store, logger, m)
		if err != nil {
			return fmt.Errorf("creating bot: %w", err)
		}
		handlers.Register(b)
		defer b.Close()

		return b.Run(ctx)
	},
}

var deployCmd = &cobra.Command{
	Use:   "deploy-commands",
	Short: "Register the slash commands with Discord",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		b, err := bot.New(cfg, nil, logger, nil)
		if err != nil {
			return fmt.Errorf("creating bot: %w", err)
		}
		if err := b.DeployCommands(); err != nil {
			return err
		}
		fmt.Printf("Registered %d commands\n", len(b.RegisteredCommands))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path of the .env file")
	rootCmd.AddCommand(serveCmd, deployCmd)
}
