// Package slog provides logging decorators for docbridge services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbridge"
)

// Ensure LoggingAdapter implements docbridge.SourceAdapter.
var _ docbridge.SourceAdapter = (*LoggingAdapter)(nil)

// LoggingAdapter wraps a SourceAdapter with extraction logging.
type LoggingAdapter struct {
	next   docbridge.SourceAdapter
	logger *slog.Logger
}

// NewLoggingAdapter creates a new LoggingAdapter.
func NewLoggingAdapter(next docbridge.SourceAdapter, logger *slog.Logger) *LoggingAdapter {
	return &LoggingAdapter{next: next, logger: logger}
}

// Extract delegates to the wrapped adapter and logs the operation.
func (a *LoggingAdapter) Extract(ctx context.Context, src *docbridge.Source) (units []*docbridge.RawUnit, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		a.logger.Log(ctx, level, "extract",
			"source", src.Name,
			"origin", src.Origin,
			"units", len(units),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Extract(ctx, src)
}
