package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fullyhacks/internal/config"
	"fullyhacks/internal/observ"
	"fullyhacks/internal/prof"
	"fullyhacks/internal/style"
)

// session is the per-invocation state prepared before any subcommand runs.
type session struct {
	cfg    config.Config
	color  style.Mode
	logger *zap.Logger
	timer  *observ.Timer
	prof   *prof.Session
}

var current *session

// setupCommand loads config, applies explicitly set persistent flags on top
// and builds the logger.
func setupCommand(cmd *cobra.Command, _ []string) error {
	root := cmd.Root()

	configPath, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := overrideString(root, "color", &cfg.Color); err != nil {
		return err
	}
	if err := overrideString(root, "log-level", &cfg.LogLevel); err != nil {
		return err
	}

	mode, err := style.ParseMode(cfg.Color)
	if err != nil {
		return fmt.Errorf("--color: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	timings, err := root.PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}

	profile, err := setupProfiling(root)
	if err != nil {
		return err
	}

	current = &session{cfg: cfg, color: mode, logger: logger, timer: timer, prof: profile}
	return nil
}

// setupProfiling reads the persistent profiling flags and starts the
// requested profilers.
func setupProfiling(root *cobra.Command) (*prof.Session, error) {
	var paths prof.Paths
	for name, dst := range map[string]*string{
		"cpu-profile":   &paths.CPU,
		"mem-profile":   &paths.Mem,
		"runtime-trace": &paths.Trace,
	} {
		v, err := root.PersistentFlags().GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	return prof.Start(paths)
}

func teardownCommand(cmd *cobra.Command, _ []string) {
	if current == nil {
		return
	}
	if err := current.prof.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
	}
	if err := current.timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "timings: %v\n", err)
	}
	_ = current.logger.Sync()
}

// overrideString copies a flag value into dst only when the user set it, so
// config file and environment keep priority over flag defaults.
func overrideString(cmd *cobra.Command, name string, dst *string) error {
	flags := cmd.Flags()
	if cmd.PersistentFlags().Lookup(name) != nil {
		flags = cmd.PersistentFlags()
	}
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

// newLogger builds a production zap logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}
