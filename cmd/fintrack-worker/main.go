package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/worker"
)

func main() {
	logger, cfg := cli.Setup("fintrack-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo := cli.OpenRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := amqp.NewClientWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer client.Close()

	auditor := worker.NewAuditWorker(repo)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting audit worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		return client.ConsumeTransactionEvents(gctx, func(msg *amqp.TransactionEventMessage) error {
			return auditor.HandleEvent(gctx, msg)
		})
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
