package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"truckbooks/internal/cli"
	"truckbooks/internal/events"
	apphttp "truckbooks/internal/http"
	"truckbooks/internal/ledger"
	applog "truckbooks/internal/log"
	"truckbooks/internal/notify"
	"truckbooks/internal/ocr"
	"truckbooks/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	st, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	repo := ledger.New(st)

	// Cloud sync is optional; without an AMQP URL writes stay local-only.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpClient, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Cloud sync enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Cloud sync disabled - no AMQP_URL provided")
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.EmailEndpoint != "" {
		notifier = notify.NewEmailClient(cfg.EmailEndpoint, cfg.EmailServiceID, cfg.EmailTemplateID, cfg.EmailUserID)
		logger.Info("Invoice notifications enabled")
	}

	var extractor ocr.Extractor = ocr.Disabled{}
	if cfg.OCREnabled {
		extractor = ocr.NewClient(cfg.OCREndpoint, cfg.OCRAPIKey)
		logger.Info("Receipt scanning enabled")
	}

	service := services.NewRecordService(repo, publisher)
	srv := apphttp.NewServer(":"+cfg.Port, service, repo, notifier, extractor)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting truckbooks server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
