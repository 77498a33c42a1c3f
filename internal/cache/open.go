package cache

import (
	"fmt"
	"io"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for the named backend. Stores holding resources
// also implement io.Closer; see Close.
func Open(backend string, path string, metadataSink metadata.MetadataSink) (Store, error) {
	switch backend {
	case BackendJSON:
		return LoadFileStore(path, metadataSink), nil
	case BackendSQLite:
		s, err := OpenSQLiteStore(path, metadataSink)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, &StoreError{
			Message: fmt.Sprintf("unknown backend %q", backend),
			Cause:   ErrCauseOpenFailure,
			Path:    path,
		}
	}
}

// Close releases the store if it holds resources.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
