package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/presentation/tui"
	httpAdapter "github.com/aretw0/findsimulator/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/findsimulator/pkg/adapters/mcp"
	"github.com/aretw0/findsimulator/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP API on addr until ctx is cancelled.
// When ready is not nil it receives the bound address once listening.
func Serve(ctx context.Context, opts RunOptions, addr string, ready chan<- string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	hooks := metrics.Hooks()
	a, err := createApp(opts, &hooks)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, err := httpAdapter.NewHandler(a.finder,
		httpAdapter.WithLogger(a.logger),
		httpAdapter.WithMetrics(reg),
		httpAdapter.WithLenientPatterns(a.cfg.LenientRegex),
	)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tui.PrintBanner(os.Stderr, findsimulator.Version, tui.UseColor(a.cfg.Color, os.Stderr))
	a.logger.Info("Starting findsimulator server", "address", listener.Addr().String())
	if ready != nil {
		ready <- listener.Addr().String()
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve(listener)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("Shutting down server", "reason", shutdownReason(ctx))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		a.logger.Info("Server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over stdio, or over SSE on port.
func ServeMCP(ctx context.Context, opts RunOptions, transport string, port int) error {
	a, err := createApp(opts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := mcpAdapter.NewServer(a.finder, a.cfg.LenientRegex, mcpAdapter.WithLogger(a.logger))
	switch transport {
	case "stdio":
		a.logger.Info("Starting findsimulator MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		a.logger.Info("Starting findsimulator MCP Server (SSE)", "port", port)
		err := srv.ServeSSE(ctx, port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}
