package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketBudget = "budget"

// Bolt is a KV backed by a single bbolt bucket.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens or creates the bolt file at path.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketBudget)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketBudget, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Get returns a copy of the value stored under key.
func (b *Bolt) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketBudget)).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// bolt memory is only valid for the life of the transaction.
		out = append([]byte(nil), data...)
		return nil
	})
	return out, err
}

// Put replaces the value stored under key.
func (b *Bolt) Put(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBudget)).Put([]byte(key), value)
	})
}
