package mock

import (
	"context"

	"github.com/fwojciec/docbridge"
)

var _ docbridge.Store = (*Store)(nil)

// Store is a mock implementation of docbridge.Store.
type Store struct {
	EnsureCollectionFn func(ctx context.Context, name string) (*docbridge.Collection, error)
	UpsertFn           func(ctx context.Context, collection string, records []*docbridge.Record) error
	QueryFn            func(ctx context.Context, collection string, q docbridge.Query) ([]*docbridge.Record, error)
	FetchAllFn         func(ctx context.Context, collection string, fn func(*docbridge.Record) error) error
}

func (s *Store) EnsureCollection(ctx context.Context, name string) (*docbridge.Collection, error) {
	return s.EnsureCollectionFn(ctx, name)
}

func (s *Store) Upsert(ctx context.Context, collection string, records []*docbridge.Record) error {
	return s.UpsertFn(ctx, collection, records)
}

func (s *Store) Query(ctx context.Context, collection string, q docbridge.Query) ([]*docbridge.Record, error) {
	return s.QueryFn(ctx, collection, q)
}

func (s *Store) FetchAll(ctx context.Context, collection string, fn func(*docbridge.Record) error) error {
	return s.FetchAllFn(ctx, collection, fn)
}
