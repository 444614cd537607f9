// Package storage is the persisted session store: a small local key/value
// mirror of the in-memory session (auth token, user identity, cart
// snapshot). It has no authority of its own — whatever the state container
// holds after the last successful gateway sync is what gets persisted.
package storage

import "context"

// Well-known keys. The cart entry is removed whenever the in-memory cart
// becomes empty, so a stale non-empty snapshot can never outlive an
// intentional clear.
const (
	KeyAuthToken = "authToken"
	KeyUser      = "user"
	KeyCart      = "cart"
)

// Repository is the persistence surface used by the state container.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
