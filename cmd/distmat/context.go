package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/distmat"
	promobs "github.com/hupe1980/distmat/metrics/prometheus"
)

const envWorkers = "DISTMAT_WORKERS"

// cliContext holds the global flag values and what is built from them
// before a subcommand runs.
type cliContext struct {
	workers   int
	logLevel  string
	logFormat string
	metrics   bool

	logger   *distmat.Logger
	registry *prometheus.Registry
	observer distmat.MetricsObserver
}

func (c *cliContext) init(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("workers") {
		if v := os.Getenv(envWorkers); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("%s=%q: want a non-negative integer", envWorkers, v)
			}
			c.workers = n
		}
	}
	if c.workers < 0 {
		return fmt.Errorf("--workers is %d, want >= 0", c.workers)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), c.logLevel, c.logFormat)
	if err != nil {
		return err
	}
	c.logger = logger

	c.observer = distmat.NoopMetricsObserver{}
	if c.metrics {
		c.registry = prometheus.NewRegistry()
		c.observer = promobs.NewObserver(c.registry)
	}
	return nil
}

func (c *cliContext) finish(cmd *cobra.Command) error {
	if c.registry == nil {
		return nil
	}
	return promobs.WriteText(cmd.ErrOrStderr(), c.registry)
}

// options returns the library options every compute call shares.
func (c *cliContext) options() []distmat.Option {
	return []distmat.Option{
		distmat.WithWorkers(c.workers),
		distmat.WithLogger(c.logger),
		distmat.WithMetricsObserver(c.observer),
	}
}

func newLogger(w io.Writer, level, format string) (*distmat.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return distmat.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return distmat.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("--log-format is %q, want text or json", format)
	}
}
