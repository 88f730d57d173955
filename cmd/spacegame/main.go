package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kodebolds/engine/internal/app"
	"github.com/kodebolds/engine/internal/config"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/engine.toml"
	if p := os.Getenv("KODEBOLDS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
		log.Info("profiling", zap.String("mode", cfg.Profile.Mode), zap.String("path", cfg.Profile.Path))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfg, log, app.Backends{})
	if err != nil {
		return err
	}

	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	err = a.Init(initCtx)
	initCancel()
	if err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("init: %w", err)
	}

	log.Info("running",
		zap.String("title", cfg.Window.Title),
		zap.String("render", cfg.Render.Backend),
		zap.String("audio", cfg.Audio.Backend),
		zap.Int("frame_rate", cfg.Render.FrameRate))

	runErr := a.Run(ctx)
	if err := a.Shutdown(); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	return runErr
}

// startProfile starts the configured profiler and returns its stop function,
// or nil when profiling is off.
func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "allocs":
		mode = profile.MemProfileAllocs
	case "trace":
		mode = profile.TraceProfile
	default:
		return nil
	}
	path := cfg.Path
	if path == "" {
		path = "."
	}
	return profile.Start(mode, profile.ProfilePath(path), profile.NoShutdownHook, profile.Quiet).Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
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
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// the terminal renderer owns the screen
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
