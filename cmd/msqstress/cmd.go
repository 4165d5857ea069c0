// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"code.hybscloud.com/msq"
	"code.hybscloud.com/msq/internal/metrics"
	"code.hybscloud.com/msq/internal/stress"
)

type options struct {
	producers   int
	consumers   int
	items       int
	rounds      int
	timeout     time.Duration
	logFormat   string
	logLevel    string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "msqstress",
		Short: "Stress the lock-free queue with concurrent producers and consumers",
		Long: `msqstress runs rounds of concurrent producers offering disjoint integer
ranges against concurrent consumers, and verifies that every value is
delivered exactly once and in per-producer order.

Defaults come from MSQ_* environment variables (MSQ_PRODUCERS,
MSQ_CONSUMERS, MSQ_ITEMS_PER_PRODUCER, MSQ_ROUNDS, MSQ_TIMEOUT); flags
override them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.producers, "producers", "p", 0, "number of producer goroutines")
	f.IntVarP(&opts.consumers, "consumers", "c", 0, "number of consumer goroutines")
	f.IntVarP(&opts.items, "items", "n", 0, "values offered by each producer per round")
	f.IntVarP(&opts.rounds, "rounds", "r", 0, "number of rounds")
	f.DurationVar(&opts.timeout, "timeout", 0, "time limit per round")
	f.StringVar(&opts.logFormat, "log-format", "json", "log format: json or text")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	return cmd
}

// loadConfig merges MSQ_* environment values with explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *options) (stress.Config, error) {
	cfg, err := stress.LoadConfig(stress.EnvPrefix)
	if err != nil {
		return stress.Config{}, err
	}
	f := cmd.Flags()
	if f.Changed("producers") {
		cfg.Producers = opts.producers
	}
	if f.Changed("consumers") {
		cfg.Consumers = opts.consumers
	}
	if f.Changed("items") {
		cfg.ItemsPerProducer = opts.items
	}
	if f.Changed("rounds") {
		cfg.Rounds = opts.rounds
	}
	if f.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case "text", "console":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// metricsHandler serves the queue counters plus Go runtime metrics.
func metricsHandler(q *msq.Queue[int]) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector("stress", q)); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), nil
}

func run(cmd *cobra.Command, opts *options) error {
	logger, err := newLogger(cmd.OutOrStdout(), opts.logFormat, opts.logLevel)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	runner, err := stress.NewRunner(cfg, logger)
	if err != nil {
		return err
	}

	if opts.metricsAddr != "" {
		h, err := metricsHandler(runner.Queue())
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", h)
		srv := &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("starting metrics server", "address", opts.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	logger.Info("stress starting",
		"producers", cfg.Producers,
		"consumers", cfg.Consumers,
		"items_per_producer", cfg.ItemsPerProducer,
		"rounds", cfg.Rounds,
		"timeout", cfg.Timeout,
	)

	reports, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	var failed int
	for _, rep := range reports {
		if !rep.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rounds failed verification", failed, len(reports))
	}
	logger.Info("stress passed", "rounds", len(reports))
	return nil
}
