package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Vivekgpta/Tracker/internal/amqp"
	"github.com/Vivekgpta/Tracker/internal/config"
	applog "github.com/Vivekgpta/Tracker/internal/log"
)

// The alert worker drains the limit-alert queue and "delivers" each alert
// as a log line. No mail is ever sent.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.LevelFromEnv(),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting alert worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeAlerts(ctx, func(msg *amqp.AlertMessage) error {
			logger.Info("[EMAIL ALERT] To: user@example.com",
				"subject", "Spending Limit Alert for "+msg.WalletName,
				"body", "You have exceeded your limit of "+msg.Limit.String()+".",
				"ai_insights", msg.Insight,
				applog.FieldWalletName, msg.WalletName,
				applog.FieldLimitCents, msg.Limit.Cents,
				"queued_at", msg.Timestamp)
			return nil
		})
	})

	// Heartbeat so a silent queue is distinguishable from a wedged worker.
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				logger.Debug("Alert worker alive", "queue", cfg.AMQPQueue)
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Alert worker failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Alert worker stopped gracefully")
}
