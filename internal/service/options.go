package service

import (
	"log/slog"
	"time"

	"steamsync-api/internal/metrics"
)

type options struct {
	logger        *slog.Logger
	metrics       *metrics.Metrics
	enrichTimeout time.Duration
}

// Option configures a service.
type Option func(*options)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records service outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithEnrichTimeout bounds background game enrichment.
func WithEnrichTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.enrichTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:        slog.Default(),
		enrichTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
