package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbridge"
)

// Ensure LoggingStore implements docbridge.Store.
var _ docbridge.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store with debug logging of every call.
type LoggingStore struct {
	next   docbridge.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next docbridge.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

func (s *LoggingStore) EnsureCollection(ctx context.Context, name string) (coll *docbridge.Collection, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("ensure collection",
			"collection", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.EnsureCollection(ctx, name)
}

func (s *LoggingStore) Upsert(ctx context.Context, collection string, records []*docbridge.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert",
			"collection", collection,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upsert(ctx, collection, records)
}

func (s *LoggingStore) Query(ctx context.Context, collection string, q docbridge.Query) (records []*docbridge.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("query",
			"collection", collection,
			"text", q.Text,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Query(ctx, collection, q)
}

func (s *LoggingStore) FetchAll(ctx context.Context, collection string, fn func(*docbridge.Record) error) (err error) {
	var n int
	defer func(begin time.Time) {
		s.logger.Debug("fetch all",
			"collection", collection,
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchAll(ctx, collection, func(r *docbridge.Record) error {
		n++
		return fn(r)
	})
}
