package cache

import (
	"sort"
	"sync"
)

// MemoryStore keeps entries in a map for the lifetime of the process.
// Nothing is persisted, so Put never fails.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// NewMemoryStoreFrom returns a store pre-filled with a copy of entries.
func NewMemoryStoreFrom(entries map[string]string) *MemoryStore {
	s := NewMemoryStore()
	for k, v := range entries {
		s.data[k] = v
	}
	return s
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, exists := s.data[key]
	return body, exists
}

func (s *MemoryStore) Put(key string, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = body
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.data)
}

func sortedKeys(data map[string]string) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
