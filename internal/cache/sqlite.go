package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/fileutil"
)

const createResponsesTable = `
CREATE TABLE IF NOT EXISTS responses (
	request_key TEXT NOT NULL PRIMARY KEY,
	body TEXT NOT NULL,
	stored_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore keeps one row per request key, so each Put is durable on its
// own instead of rewriting the whole cache.
type SQLiteStore struct {
	db           *sql.DB
	path         string
	metadataSink metadata.MetadataSink
}

// OpenSQLiteStore opens (or creates) the database at path and makes sure the
// responses table exists.
func OpenSQLiteStore(path string, metadataSink metadata.MetadataSink) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fileutil.EnsureDir(dir); err != nil {
			return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure, Path: path}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Message: fmt.Sprintf("open cache db: %v", err), Cause: ErrCauseOpenFailure, Path: path}
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createResponsesTable); err != nil {
		db.Close()
		return nil, &StoreError{Message: fmt.Sprintf("migrate cache db: %v", err), Cause: ErrCauseOpenFailure, Path: path}
	}

	return &SQLiteStore{db: db, path: path, metadataSink: metadataSink}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM responses WHERE request_key = ?`, key).Scan(&body)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.record("SQLiteStore.Get", &StoreError{Message: err.Error(), Cause: ErrCauseQueryFailure, Path: s.path})
		}
		return "", false
	}
	return body, true
}

func (s *SQLiteStore) Put(key string, body string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO responses (request_key, body, stored_at) VALUES (?, ?, ?)`,
		key, body, time.Now().UTC(),
	)
	if err != nil {
		storeErr := &StoreError{Message: err.Error(), Cause: ErrCausePersistFailure, Path: s.path}
		s.record("SQLiteStore.Put", storeErr)
		return storeErr
	}
	return nil
}

func (s *SQLiteStore) Len() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		s.record("SQLiteStore.Len", &StoreError{Message: err.Error(), Cause: ErrCauseQueryFailure, Path: s.path})
		return 0
	}
	return n
}

func (s *SQLiteStore) Keys() []string {
	rows, err := s.db.Query(`SELECT request_key FROM responses ORDER BY request_key`)
	if err != nil {
		s.record("SQLiteStore.Keys", &StoreError{Message: err.Error(), Cause: ErrCauseQueryFailure, Path: s.path})
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			s.record("SQLiteStore.Keys", &StoreError{Message: err.Error(), Cause: ErrCauseQueryFailure, Path: s.path})
			return keys
		}
		keys = append(keys, k)
	}
	return keys
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) record(action string, storeErr *StoreError) {
	s.metadataSink.RecordError(
		time.Now(),
		"cache",
		action,
		mapStoreErrorToMetadataCause(storeErr),
		storeErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrPath, s.path),
			metadata.NewAttr(metadata.AttrBackend, "sqlite"),
		},
	)
}
