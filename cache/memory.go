package cache

import (
	"context"
	"errors"

	"github.com/puzpuzpuz/xsync/v3"
)

var ErrEntryNotFound = errors.New("cache entry not found")

type inMemoryStore struct {
	entries *xsync.MapOf[string, []byte]
}

// NewInMemory builds the default process-local store used when no
// external backend is configured.
func NewInMemory() External {
	return &inMemoryStore{entries: xsync.NewMapOf[string, []byte]()}
}

func (i *inMemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if payload, ok := i.entries.Load(key); ok {
		return payload, nil
	}
	return nil, ErrEntryNotFound
}

func (i *inMemoryStore) Set(_ context.Context, key string, value []byte) error {
	i.entries.Store(key, value)
	return nil
}

func (i *inMemoryStore) Shutdown() {}
