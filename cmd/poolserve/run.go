package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/poolserve/internal/config"
	"github.com/kubev2v/poolserve/internal/handlers"
	"github.com/kubev2v/poolserve/internal/metrics"
	"github.com/kubev2v/poolserve/internal/server"
	"github.com/kubev2v/poolserve/internal/services"
	"github.com/kubev2v/poolserve/pkg/scheduler"
)

const adminShutdownTimeout = 5 * time.Second

func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the listener and the worker pool",
		Args:  cobra.NoArgs,
		PreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
		),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	registerFlags(cmd.Flags(), config.NewConfigurationWithDefaults())
	return cmd
}

func run(ctx context.Context, cfg *config.Configuration) error {
	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	printBanner(os.Stderr, cfg)
	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(cfg.Pool.NumWorkers)
	defer sched.Close()

	listener := server.NewListener(cfg.Server.ListenAddress, sched, services.NewPagesService(cfg.Server.StaticsFolder))
	if err := listener.Listen(); err != nil {
		return err
	}

	errCh := make(chan error, 2)

	var admin *server.Server
	if cfg.Server.AdminAddress != "" {
		reg := metrics.NewRegistry(sched)
		admin, err = server.NewServer(cfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), func(router *gin.RouterGroup) {
			handlers.RegisterHandlers(router, handlers.New(sched))
		})
		if err != nil {
			_ = listener.Stop()
			return err
		}
		go func() {
			if err := admin.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("admin server failed: %w", err)
			}
		}()
	}

	go func() {
		errCh <- listener.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		zap.S().Info("shutdown signal received")
	case err = <-errCh:
	}

	_ = listener.Stop()
	if admin != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), adminShutdownTimeout)
		if err := admin.Stop(shutdownCtx); err != nil {
			zap.S().Named("http").Warnw("failed to stop admin server", "error", err)
		}
		cancel()
	}
	sched.Close()

	return err
}
