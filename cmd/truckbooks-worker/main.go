package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"truckbooks/internal/cli"
	"truckbooks/internal/events"
	"truckbooks/internal/ledger"
	applog "truckbooks/internal/log"
	"truckbooks/internal/sheets"
	"truckbooks/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp).WithComponent(applog.ComponentWorker)

	logger.Info("Starting truckbooks-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The worker reads records straight from the same store the server
	// writes; events only tell it which record to export next.
	st, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()
	repo := ledger.New(st)

	exporter, err := sheets.NewExporterFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", "error", err)
		os.Exit(1)
	}

	amqpClient, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, exporter)

	// On startup, optionally push the full current state so a fresh sheet
	// catches up with whatever was written while no worker was running.
	if ok, _ := strconv.ParseBool(os.Getenv("EXPORT_SNAPSHOT_ON_START")); ok {
		logger.Info("Exporting startup snapshot")
		if err := syncWorker.ExportSnapshot(ctx); err != nil {
			logger.Error("Startup snapshot export failed", "error", err)
			// Don't exit - continue with normal event consumption
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeRecordEvents(gctx, syncWorker.HandleRecordEvent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
