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

	"github.com/winnyineza/RindwaApp-sub000/internal/config"
	"github.com/winnyineza/RindwaApp-sub000/internal/logger"
)

type serveFlags struct {
	envFile       string
	addr          string
	logLevel      string
	logFormat     string
	workers       int
	sendTimeout   time.Duration
	retention     time.Duration
	sweepInterval time.Duration
	redisAddr     string
}

func serveCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notification HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "notifyd")
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log)
		},
	}

	f.register(cmd)
	return cmd
}

func (f *serveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.envFile, "env-file", ".env", "Optional dotenv file loaded before the environment")
	fs.StringVar(&f.addr, "addr", "", "HTTP listen address (RINDWA_HTTP_ADDR)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (RINDWA_LOG_LEVEL)")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: json or console (RINDWA_LOG_FORMAT)")
	fs.IntVar(&f.workers, "workers", 0, "Concurrent sends per dispatch round (RINDWA_WORKERS)")
	fs.DurationVar(&f.sendTimeout, "send-timeout", 0, "Per-send provider deadline (RINDWA_SEND_TIMEOUT)")
	fs.DurationVar(&f.retention, "retention", 0, "How long inactive subscriptions and delivery records are kept (RINDWA_RETENTION)")
	fs.DurationVar(&f.sweepInterval, "sweep-interval", 0, "Interval between retention sweeps, 0 disables (RINDWA_SWEEP_INTERVAL)")
	fs.StringVar(&f.redisAddr, "redis-addr", "", "Redis address for the delivery ledger; empty keeps it in memory (RINDWA_REDIS_ADDR)")
}

// loadConfig reads the environment and applies every flag the user set.
func loadConfig(cmd *cobra.Command, f serveFlags) (*config.Config, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return nil, err
	}
	fs := cmd.Flags()
	if fs.Changed("addr") {
		cfg.HTTPAddr = f.addr
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("send-timeout") {
		cfg.SendTimeout = f.sendTimeout
	}
	if fs.Changed("retention") {
		cfg.Retention = f.retention
	}
	if fs.Changed("sweep-interval") {
		cfg.SweepInterval = f.sweepInterval
	}
	if fs.Changed("redis-addr") {
		cfg.RedisAddr = f.redisAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run contains the service lifecycle, separated from the command for testability.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting notifyd",
		zap.String("version", version),
		zap.String("addr", cfg.HTTPAddr),
		zap.Int("workers", cfg.Workers),
		zap.Bool("redis_ledger", cfg.RedisAddr != ""),
	)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	go a.sweeper.Run(ctx, cfg.SweepInterval)

	if err := NewServer(cfg.HTTPAddr, a.router, logger).Start(ctx); err != nil {
		return err
	}
	logger.Info("notifyd stopped")
	return nil
}
