package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/poolserve/internal/config"
)

func newLogger(format, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	switch format {
	case config.LogFormatJSON:
		zcfg = zap.NewProductionConfig()
	default:
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func printBanner(w io.Writer, cfg *config.Configuration) {
	title := color.New(color.FgCyan, color.Bold)
	_, _ = title.Fprintf(w, "poolserve %s\n", version)
	fmt.Fprintf(w, "  pages   %s\n", color.GreenString("http://%s/", cfg.Server.ListenAddress))
	if cfg.Server.AdminAddress != "" {
		fmt.Fprintf(w, "  admin   %s\n", color.GreenString("http://%s/api/v1/pool", cfg.Server.AdminAddress))
	}
	fmt.Fprintf(w, "  workers %s\n", color.YellowString("%d", cfg.Pool.NumWorkers))
}
