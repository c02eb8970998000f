// Package simctl reads the simulator inventory from `xcrun simctl`.
package simctl

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/inventory"
)

// DefaultXcrun is where Xcode installs xcrun.
const DefaultXcrun = "/usr/bin/xcrun"

// Client implements inventory.Source by invoking simctl.
type Client struct {
	xcrun    string
	executor Executor
	decoder  *inventory.Decoder
	logger   *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithXcrun overrides the xcrun binary.
func WithXcrun(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.xcrun = path
		}
	}
}

// WithExecutor replaces the process runner, mainly for tests.
func WithExecutor(e Executor) Option {
	return func(c *Client) {
		c.executor = e
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a simctl client.
func New(opts ...Option) *Client {
	c := &Client{
		xcrun:  DefaultXcrun,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.executor == nil {
		c.executor = NewProcessRunner()
	}
	c.decoder = inventory.NewDecoder(c.logger)
	return c
}

// Devices runs `simctl list devices -j`.
func (c *Client) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	out, err := c.list(ctx, inventory.CatalogDevices)
	if err != nil {
		return domain.DeviceCatalog{}, err
	}
	return c.decoder.Devices(out, inventory.FormatJSON)
}

// Pairs runs `simctl list pairs -j`.
func (c *Client) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	out, err := c.list(ctx, inventory.CatalogPairs)
	if err != nil {
		return domain.PairCatalog{}, err
	}
	return c.decoder.Pairs(out, inventory.FormatJSON)
}

func (c *Client) list(ctx context.Context, what string) ([]byte, error) {
	args := []string{"simctl", "list", what, "-j"}
	c.logger.Debug("Running simctl", "program", c.xcrun, "args", args)

	out, err := c.executor.Run(ctx, c.xcrun, args...)
	if err != nil {
		return nil, fmt.Errorf("simctl list %s: %w", what, err)
	}
	return out, nil
}
