package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/fileutil"
)

// FileStore is the default backend: the whole cache lives in one JSON file
// holding a single object of request key to body.
//
// Every Put rewrites the entire file. The rewrite is not atomic; a file torn
// by a crash fails to decode on the next load and the session starts cold.
type FileStore struct {
	mu           sync.RWMutex
	path         string
	data         map[string]string
	metadataSink metadata.MetadataSink
}

// LoadFileStore reads the cache file at path. A missing file, an unreadable
// file or content that is not a JSON object of strings all yield an empty
// store; the last two are reported to the sink. It never fails.
func LoadFileStore(path string, metadataSink metadata.MetadataSink) *FileStore {
	s := &FileStore{
		path:         path,
		data:         make(map[string]string),
		metadataSink: metadataSink,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.recordCorrupt("read", err)
		}
		return s
	}

	var entries map[string]string
	if err := json.Unmarshal(content, &entries); err != nil {
		s.recordCorrupt("decode", err)
		return s
	}
	for k, v := range entries {
		s.data[k] = v
	}
	return s
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, exists := s.data[key]
	return body, exists
}

func (s *FileStore) Put(key string, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = body
	return s.persist()
}

// Save rewrites the backing file with the current contents.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persist()
}

func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.data)
}

// persist must be called with mu held.
func (s *FileStore) persist() error {
	content, err := json.Marshal(s.data)
	if err != nil {
		return s.fail(err.Error())
	}
	if writeErr := fileutil.WriteFile(s.path, content); writeErr != nil {
		return s.fail(writeErr.Error())
	}

	s.metadataSink.RecordArtifact(
		metadata.ArtifactCacheFile,
		s.path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrEntries, strconv.Itoa(len(s.data))),
			metadata.NewAttr(metadata.AttrBackend, "json"),
		},
	)
	return nil
}

func (s *FileStore) fail(message string) error {
	storeErr := &StoreError{
		Message:   message,
		Retryable: false,
		Cause:     ErrCausePersistFailure,
		Path:      s.path,
	}
	s.metadataSink.RecordError(
		time.Now(),
		"cache",
		"FileStore.Put",
		mapStoreErrorToMetadataCause(storeErr),
		storeErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrPath, s.path),
		},
	)
	return storeErr
}

func (s *FileStore) recordCorrupt(stage string, err error) {
	s.metadataSink.RecordError(
		time.Now(),
		"cache",
		"LoadFileStore",
		metadata.CauseCacheCorrupt,
		stage+": "+err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrPath, s.path),
		},
	)
}
