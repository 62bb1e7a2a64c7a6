// Package boltstore persists session values in a bbolt database so login
// state survives restarts of the integrating application.
package boltstore

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-flipoll-sdk/sessions"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	dirPerm     = fs.FileMode(0o700)
	filePerm    = fs.FileMode(0o600)
	openTimeout = 5 * time.Second
)

func sessionBucket(sessionID string) []byte {
	return []byte("session:" + sessionID)
}

// DB wraps the bbolt database holding every session.
type DB struct {
	db *bolt.DB
}

// Open opens the database at path, creating it and its directory if needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, errors.Wrap(err, "[boltstore.Open] creating directory")
	}
	db, err := bolt.Open(path, filePerm, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "[boltstore.Open] opening db")
	}
	return &DB{db: db}, nil
}

// Close releases the database file lock.
func (d *DB) Close() error {
	return d.db.Close()
}

// Session returns the store for one session id.
func (d *DB) Session(sessionID string) sessions.Store {
	return &store{db: d.db, bucket: sessionBucket(sessionID)}
}

// DeleteSession drops every value of a session.
func (d *DB) DeleteSession(sessionID string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(sessionBucket(sessionID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

type store struct {
	db     *bolt.DB
	bucket []byte
}

var _ sessions.Store = (*store)(nil)

func (s *store) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, sessions.ErrEmptyKey
	}
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, errors.Wrap(err, "[boltstore.Get]")
	}
	return value, found, nil
}

func (s *store) Set(key, value string) error {
	if key == "" {
		return sessions.ErrEmptyKey
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	return errors.Wrap(err, "[boltstore.Set]")
}

func (s *store) Delete(key string) error {
	if key == "" {
		return sessions.ErrEmptyKey
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	return errors.Wrap(err, "[boltstore.Delete]")
}
