package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/blogd/internal/config"
	"github.com/alfredjeanlab/blogd/internal/events"
	"github.com/alfredjeanlab/blogd/internal/export"
	"github.com/alfredjeanlab/blogd/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blog HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		st, err := openStore(cfg.Database)
		if err != nil {
			return err
		}
		logger.Info("store opened", "driver", cfg.Database.Driver)

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (BLOG_NATS_URL not set)")
		}

		blogServer := server.NewBlogServer(st, publisher, cfg.Greeting())

		lis, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			publisher.Close()
			st.Close()
			return err
		}

		httpServer := &http.Server{
			Handler:           blogServer.NewHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", lis.Addr().String())
			if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
				serveErr <- err
			}
		}()

		var scheduler *export.Scheduler
		if cfg.Export.Interval > 0 {
			dests := exportDestinations(cmd.Context(), cfg.Export, logger)
			if len(dests) > 0 {
				scheduler = export.NewScheduler(st, dests, cfg.Export.Interval, logger)
				scheduler.Start()
				logger.Info("export scheduler started", "interval", cfg.Export.Interval)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		runErr := waitForShutdown(sigCh, serveErr, logger)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("export scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return runErr
	},
}

// waitForShutdown blocks until a signal arrives or the HTTP server fails.
// A server failure is returned so serve exits non-zero.
func waitForShutdown(sigCh <-chan os.Signal, serveErr <-chan error, logger *slog.Logger) error {
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
		return nil
	case err := <-serveErr:
		logger.Error("HTTP server stopped unexpectedly, shutting down", "err", err)
		return fmt.Errorf("http server: %w", err)
	}
}

// exportDestinations builds the destinations enabled in cfg. A destination
// that fails to initialize is logged and skipped.
func exportDestinations(ctx context.Context, cfg config.ExportConfig, logger *slog.Logger) []export.Destination {
	if ctx == nil {
		ctx = context.Background()
	}

	var dests []export.Destination
	if cfg.S3Bucket != "" {
		s3Dest, err := export.NewS3Destination(ctx, cfg.S3Bucket, cfg.S3Key, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			logger.Error("failed to create S3 export destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("S3 export destination enabled", "bucket", cfg.S3Bucket, "key", cfg.S3Key)
		}
	}
	if cfg.File != "" {
		dests = append(dests, export.NewFileDestination(cfg.File))
		logger.Info("file export destination enabled", "path", cfg.File)
	}
	return dests
}
