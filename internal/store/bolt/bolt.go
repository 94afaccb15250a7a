package bolt

import (
	"bytes"
	"context"
	"fmt"
	"github.com/cirruslabs/hashmap/internal/store"
	bolt "go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"time"
)

var bucketName = []byte("hashmap")

type Bolt struct {
	db *bolt.DB
}

func New(path string, timeout time.Duration) (*Bolt, error) {
	// Pre-create the database's directory if not created yet
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)

		return err
	}); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to create bucket %q: %w", bucketName, err)
	}

	return &Bolt{
		db: db,
	}, nil
}

func (b *Bolt) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(tx *bolt.Tx) error {
		// Use a cursor instead of Bucket.Get() so that
		// empty values can be told apart from absent keys
		k, v := tx.Bucket(bucketName).Cursor().Seek([]byte(key))
		if k == nil || !bytes.Equal(k, []byte(key)) {
			return store.ErrNotFound
		}

		// Values are only valid for the life of the transaction
		value = append([]byte{}, v...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (b *Bolt) Set(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketName).Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to put key %q: %w", key, err)
		}

		return nil
	})
}

func (b *Bolt) Update(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)

		// Only overwrite existing keys, similarly to an SQL UPDATE
		if k, _ := bucket.Cursor().Seek([]byte(key)); k == nil || !bytes.Equal(k, []byte(key)) {
			return nil
		}

		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to update key %q: %w", key, err)
		}

		return nil
	})
}

func (b *Bolt) Delete(_ context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketName).Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key %q: %w", key, err)
		}

		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
