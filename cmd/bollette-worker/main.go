package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"bollette/internal/cli"
	"bollette/internal/transport"
	"bollette/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting bollette-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	outboxWorker := worker.NewOutboxWorker(cfg.OutboxDir, cfg.ImagesDir)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return transport.ConsumeDraftsWithReconnect(
			gctx,
			cfg.AMQPURL,
			cfg.AMQPExchange,
			cfg.AMQPQueue,
			func(msg *transport.DraftMessage) error {
				return outboxWorker.HandleDraftMessage(gctx, msg)
			},
		)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("bollette-worker stopped")
}
