package handler

import (
	"log/slog"

	"github.com/isometry/guardduty-proxy-app/internal/metrics"
)

// WithLogger sets the logger instance for the handler. Each invocation derives a child logger from it.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithClientFactory sets the factory the handler obtains GuardDuty clients from.
func WithClientFactory(factory ClientFactory) Option {
	return func(h *Handler) {
		h.clients = factory
	}
}

// WithArchiver enables archiving of successful get-findings payloads.
func WithArchiver(archiver Archiver) Option {
	return func(h *Handler) {
		h.archiver = archiver
	}
}

// WithMetrics sets the collectors updated on every invocation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}
