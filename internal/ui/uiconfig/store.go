package uiconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	updatedAtKey   = "__updated_at"
	reservedPrefix = "__"
)

var (
	ErrStoreClosed       = errors.New("settings store is closed")
	ErrEmptyUpdates      = errors.New("updates or removes required")
	ErrInvalidSectionKey = errors.New("invalid section key")
)

// Snapshot is the full set of stored sections.
type Snapshot struct {
	Version   int
	UpdatedAt string
	Sections  map[string]json.RawMessage
}

// Store persists client-side state (settings sections, the session cookie
// jar and the contact outbox) in a bbolt file.
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

func OpenStore(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("settings path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure settings dir: %w", err)
	}
	options := &bolt.Options{Timeout: time.Second}
	base, err := bolt.Open(trimmed, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if err := ensureSchema(base); err != nil {
		_ = base.Close()
		return nil, err
	}
	return &Store{db: base, path: trimmed}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) Get() (Snapshot, error) {
	var snapshot Snapshot
	err := s.view(func(tx *bolt.Tx) error {
		version, err := readVersion(tx)
		if err != nil {
			return err
		}
		snapshot = Snapshot{
			Version:  version,
			Sections: map[string]json.RawMessage{},
		}
		bucket, err := childBucket(tx, sectionsBucketName)
		if err != nil {
			return err
		}
		snapshot.UpdatedAt = readUpdatedAt(bucket)
		return bucket.ForEach(func(key, value []byte) error {
			if value == nil || isReservedKey(key) {
				return nil
			}
			snapshot.Sections[string(key)] = append([]byte(nil), value...)
			return nil
		})
	})
	return snapshot, err
}

// Section returns one stored section.
func (s *Store) Section(key string) (json.RawMessage, bool, error) {
	if err := validateSectionKey(key); err != nil {
		return nil, false, err
	}
	var value json.RawMessage
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, sectionsBucketName)
		if err != nil {
			return err
		}
		if raw := bucket.Get([]byte(key)); raw != nil {
			value = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

func (s *Store) Update(updates map[string]json.RawMessage, removes []string) (Snapshot, error) {
	if len(updates) == 0 && len(removes) == 0 {
		return Snapshot{}, ErrEmptyUpdates
	}
	for key := range updates {
		if err := validateSectionKey(key); err != nil {
			return Snapshot{}, err
		}
	}
	for _, key := range removes {
		if err := validateSectionKey(key); err != nil {
			return Snapshot{}, err
		}
	}
	if err := s.update(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, sectionsBucketName)
		if err != nil {
			return err
		}
		for key, value := range updates {
			if value == nil {
				return fmt.Errorf("section value is nil for %s", key)
			}
			if err := bucket.Put([]byte(key), value); err != nil {
				return fmt.Errorf("write section %s: %w", key, err)
			}
		}
		for _, key := range removes {
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("delete section %s: %w", key, err)
			}
		}
		return writeUpdatedAt(bucket)
	}); err != nil {
		return Snapshot{}, err
	}
	return s.Get()
}

// Reset removes every section; cookies and the outbox are kept.
func (s *Store) Reset() (Snapshot, error) {
	if err := s.update(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, sectionsBucketName)
		if err != nil {
			return err
		}
		return clearBucket(bucket)
	}); err != nil {
		return Snapshot{}, err
	}
	return s.Get()
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(fn)
}

func validateSectionKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.HasPrefix(trimmed, reservedPrefix) {
		return ErrInvalidSectionKey
	}
	return nil
}

func readVersion(tx *bolt.Tx) (int, error) {
	meta, err := childBucket(tx, metaBucketName)
	if err != nil {
		return 0, err
	}
	version := readSchemaVersion(meta)
	if version == 0 {
		return 0, fmt.Errorf("schema version not set")
	}
	return version, nil
}

func childBucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(rootBucketName))
	if root == nil {
		return nil, fmt.Errorf("missing root bucket")
	}
	bucket := root.Bucket([]byte(name))
	if bucket == nil {
		return nil, fmt.Errorf("missing %s bucket", name)
	}
	return bucket, nil
}

func readUpdatedAt(bucket *bolt.Bucket) string {
	if bucket == nil {
		return ""
	}
	value := bucket.Get([]byte(updatedAtKey))
	if len(value) == 0 {
		return ""
	}
	return string(value)
}

func writeUpdatedAt(bucket *bolt.Bucket) error {
	if bucket == nil {
		return nil
	}
	value := time.Now().UTC().Format(time.RFC3339Nano)
	return bucket.Put([]byte(updatedAtKey), []byte(value))
}

func isReservedKey(key []byte) bool {
	return strings.HasPrefix(string(key), reservedPrefix)
}

func clearBucket(bucket *bolt.Bucket) error {
	var keys [][]byte
	if err := bucket.ForEach(func(key, _ []byte) error {
		keys = append(keys, append([]byte(nil), key...))
		return nil
	}); err != nil {
		return err
	}
	for _, key := range keys {
		if err := bucket.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
