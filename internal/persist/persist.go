// Package persist is the key-value persistence adapter the stores write
// their state through. It stores whatever blob it is given and returns it
// unchanged; callers own serialization and schema concerns.
package persist

import (
	"context"
	"errors"
)

// Store is the persistence contract. Consumers define this interface, not
// the Redis implementation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
