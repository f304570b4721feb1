package store

import (
	"sync"

	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketNameAuth = "auth"
	keyBearerToken = "bearer_token"
)

// Get returns persisted token, ok is false if nothing stored
func (b *BoltStore) Get() (token string, ok bool, err error) {
	err = b.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketNameAuth))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(keyBearerToken)); v != nil {
			token, ok = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, errors.Wrap(err, "can't read token")
	}
	return token, ok, nil
}

// Set persists the token, empty token removes the stored one
func (b *BoltStore) Set(token string) error {
	err := b.DB.Update(func(tx *bolt.Tx) error {
		bucket, e := tx.CreateBucketIfNotExists([]byte(bucketNameAuth))
		if e != nil {
			return e
		}
		if token == "" {
			log.Printf("[INFO] remove bearer token")
			return bucket.Delete([]byte(keyBearerToken))
		}
		log.Printf("[INFO] save bearer token, %d chars", len(token))
		return bucket.Put([]byte(keyBearerToken), []byte(token))
	})
	return errors.Wrap(err, "can't save token")
}

// MemStore is in-memory TokenStore, nothing survives restart
type MemStore struct {
	mu    sync.RWMutex
	token string
}

// Get returns stored token
func (m *MemStore) Get() (token string, ok bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != "", nil
}

// Set stores or clears the token
func (m *MemStore) Set(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}
