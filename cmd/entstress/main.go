// Command entstress drives the entity allocator through alternating shared
// and exclusive phases and verifies every id it hands out.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/errs/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", os.Getenv("ENTSTRESS_CONFIG"), "path to a .toml or .yaml config file")
	rounds := flag.Int("rounds", -1, "override the number of rounds")
	workers := flag.Int("workers", -1, "override the number of workers")
	flag.Parse()

	cfg := Defaults()
	if *cfgPath != "" {
		var err error
		if cfg, err = Load(*cfgPath); err != nil {
			return errs.Errorf("load config: %v", err)
		}
	}
	if *rounds >= 0 {
		cfg.Rounds = *rounds
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return errs.Errorf("init logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	log = log.With(zap.String("run", uuid.NewString()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	st, err := stress(ctx, cfg, log)
	if err != nil {
		log.Error("stress failed", zap.Error(err))
		return err
	}

	log.Info("stress complete",
		zap.Int("rounds", st.Rounds),
		zap.Int("reserved", st.Reserved),
		zap.Int("recycled", st.Recycled),
		zap.Int("flushed", st.Flushed),
		zap.Int("freed", st.Freed),
		zap.Int("live", st.Live),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func newLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
