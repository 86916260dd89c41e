// Package storage provides a persistent cache for entity-detection provider
// responses, backed by BoltDB. Detection results are content-addressed by a
// hash of the request, so repeated texts skip the provider round trip.
// Computed fairness metrics are never persisted here.
package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const detectionsBucket = "detections"

// Store is a thread-safe BoltDB-backed detection cache.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the cache database under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "faircheck-cache.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(detectionsBucket)); err != nil {
			return fmt.Errorf("create detections bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetDetection returns the cached detection payload for key, if present.
func (s *Store) GetDetection(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(detectionsBucket)).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

// PutDetection stores a detection payload under key, overwriting any previous
// entry.
func (s *Store) PutDetection(key string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(detectionsBucket)).Put([]byte(key), data)
	})
}
