package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/config"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/observability"
	"github.com/aretw0/findsimulator/pkg/selector"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	finder  *findsimulator.Finder
	cleanup func() error
}

// Close releases the inventory source.
func (a *app) Close() error {
	return a.cleanup()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts RunOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Inventory, opts.Inventory)
	override(&cfg.LogLevel, opts.LogLevel)
	override(&cfg.Color, opts.Color)
	override(&cfg.Platform, opts.Platform)
	override(&cfg.Major, opts.Major)
	override(&cfg.Minor, opts.Minor)
	override(&cfg.Regex, opts.Regex)
	cfg.StrictSelectors = cfg.StrictSelectors || opts.Strict
	cfg.LenientRegex = cfg.LenientRegex || opts.LenientRegex

	return cfg, cfg.Validate()
}

// createApp builds the Finder described by the config and flags.
// Extra hooks are attached after the logging hooks.
func createApp(opts RunOptions, hooks *domain.LifecycleHooks) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	source, cleanup, err := cfg.BuildSource(logger)
	if err != nil {
		return nil, err
	}

	policy := selector.PolicyLenient
	if cfg.StrictSelectors {
		policy = selector.PolicyStrict
	}

	finderOpts := []findsimulator.Option{
		findsimulator.WithLogger(logger),
		findsimulator.WithSelectorPolicy(policy),
		findsimulator.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	if hooks != nil {
		finderOpts = append(finderOpts, findsimulator.WithLifecycleHooks(*hooks))
	}

	logger.Debug("Inventory source ready", "inventory", cfg.Inventory, "cache", cfg.Cache.Backend)
	return &app{
		cfg:     cfg,
		logger:  logger,
		finder:  findsimulator.New(source, finderOpts...),
		cleanup: cleanup,
	}, nil
}
