package cache

// Store is the response cache: request key to raw response body.
//
// Keys are compared byte for byte. Two request keys that differ only in
// parameter order or letter case are distinct entries.
type Store interface {
	// Get looks up a stored body. It never touches the network or the disk.
	Get(key string) (string, bool)

	// Put inserts or overwrites an entry and persists the whole store before
	// returning. A persist failure is returned as a fatal *StoreError; the
	// entry stays visible to Get for the rest of the session.
	Put(key string, body string) error

	// Len reports the number of stored entries.
	Len() int

	// Keys returns every stored key in ascending order.
	Keys() []string
}
