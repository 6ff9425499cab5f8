package domain

import "context"

// KeyValueStore is the durable string-keyed, string-valued substrate.
// Get returns ErrNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Substrate hands out key-value stores partitioned by scope. Keys in one
// scope never collide with keys in another.
type Substrate interface {
	Scope(name string) KeyValueStore
}
