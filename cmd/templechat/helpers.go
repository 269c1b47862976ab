package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"

	"TempleChat/internal/config"
	"TempleChat/internal/feed"
	"TempleChat/internal/telemetry"
)

// runtime is the shared setup every subcommand needs.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	meter   metric.Meter
	client  *feed.Client
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// bootstrap loads configuration, starts logging and telemetry, and builds
// the feed client when a feed base is configured.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if feedBase != "" {
		cfg.FeedBase = feedBase
	}
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger}
	rt.closers = append(rt.closers, func() { closeLog() })

	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	rt.meter = meter
	rt.closers = append(rt.closers, cleanup)

	if cfg.Enabled() {
		client, err := feed.NewClient(cfg.FeedBase, &http.Client{Timeout: cfg.RequestTimeout}, logger, tracer, meter)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to create feed client: %w", err)
		}
		rt.client = client
	}

	return rt, nil
}

// requireClient fails subcommands that cannot work without an endpoint.
func (r *runtime) requireClient() error {
	if r.client == nil {
		r.logger.Warn(feed.ErrNotConfigured.Error())
		return fmt.Errorf("%w: set feed_base in the config or TEMPLECHAT_FEED_BASE", feed.ErrNotConfigured)
	}
	return nil
}
