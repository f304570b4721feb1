// Package store keeps the bearer token of the signed-in user
package store

import (
	"os"
	"path"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// TokenStore persists a single bearer token. Set with empty token deletes it.
type TokenStore interface {
	Get() (token string, ok bool, err error)
	Set(token string) error
}

// BoltStore implements TokenStore with bolt db file
type BoltStore struct {
	DB *bolt.DB
}

// NewBoltStore makes persistent store, the file and its directory accessible by the owner only
func NewBoltStore(dbFile string) (*BoltStore, error) {
	log.Printf("[INFO] bolt (persistent) store, %s", dbFile)
	if err := os.MkdirAll(path.Dir(dbFile), 0700); err != nil {
		return nil, errors.Wrapf(err, "can't make directory for %s", dbFile)
	}

	db, err := bolt.Open(dbFile, 0600, &bolt.Options{Timeout: 1 * time.Second}) // nolint
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", dbFile)
	}

	return &BoltStore{DB: db}, nil
}

// Close the underlying db
func (b *BoltStore) Close() error {
	return b.DB.Close()
}
