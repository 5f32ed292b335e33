package db

import "context"

// Store is an open handle to the course store. It is opened once at startup,
// injected into the repositories and closed on shutdown.
type Store interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store = (*PostgresDB)(nil)
	_ Store = (*MongoDB)(nil)
	_ Store = NopStore{}
)

// NopStore backs the in-memory driver, which holds no external connection
type NopStore struct{}

// Ping always succeeds
func (NopStore) Ping(context.Context) error { return nil }

// Close always succeeds
func (NopStore) Close(context.Context) error { return nil }
