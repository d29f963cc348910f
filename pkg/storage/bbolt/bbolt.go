/*
 * Copyright 2026 The Tether Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bbolt is the bbolt implementation of the Tether Store
package bbolt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/bbolt/options"

	"go.etcd.io/bbolt"
)

// Store implements the storage.Store interface
var _ storage.Store = &Store{}

// Store describes a BBolt Store
type Store struct {
	Name   string
	Config *options.Options
	dbh    *bbolt.DB
	logger *logging.Logger
}

// New returns a new bbolt store as a Tether Store Interface type
func New(name string, opts *options.Options, logger *logging.Logger) *Store {
	if opts == nil {
		opts = options.New()
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &Store{Name: name, Config: opts, logger: logger}
}

// Connect opens the database file and creates the bucket if needed
func (s *Store) Connect() error {
	s.logger.Info("bbolt store setup", logging.Pairs{"name": s.Name,
		"bboltFile": s.Config.Filename, "bucket": s.Config.Bucket})
	var err error
	s.dbh, err = bbolt.Open(s.Config.Filename, 0o644, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}

	err = s.dbh.Update(func(tx *bbolt.Tx) error {
		_, err2 := tx.CreateBucketIfNotExists([]byte(s.Config.Bucket))
		if err2 != nil {
			return fmt.Errorf("create bucket: %w", err2)
		}
		return nil
	})
	return err
}

// Close closes the database
func (s *Store) Close() error {
	if s.dbh == nil {
		return nil
	}
	return s.dbh.Close()
}

// SetItem writes data under key
func (s *Store) SetItem(key string, data []byte, ttl time.Duration) error {
	if s.dbh == nil {
		return storage.ErrNotConnected
	}
	return s.dbh.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.Config.Bucket))
		return b.Put([]byte(key), storage.EncodeItem(data, ttl, time.Now()))
	})
}

// GetItem reads the data stored under key
func (s *Store) GetItem(key string) ([]byte, error) {
	if s.dbh == nil {
		return nil, storage.ErrNotConnected
	}
	var data []byte
	var expired bool
	err := s.dbh.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.Config.Bucket))
		raw := b.Get([]byte(key))
		if raw == nil {
			return storage.ErrKNF
		}
		d, err := storage.DecodeItem(raw, time.Now())
		if err == storage.ErrKNF {
			expired = true
			return err
		}
		if err != nil {
			return err
		}
		// bbolt values are only valid for the life of the transaction
		data = make([]byte, len(d))
		copy(data, d)
		return nil
	})
	if expired {
		s.RemoveItem(key)
	}
	return data, err
}

// RemoveItem deletes the provided keys
func (s *Store) RemoveItem(keys ...string) error {
	if s.dbh == nil {
		return storage.ErrNotConnected
	}
	return s.dbh.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.Config.Bucket))
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Keys returns the unexpired keys beginning with prefix
func (s *Store) Keys(prefix string) ([]string, error) {
	if s.dbh == nil {
		return nil, storage.ErrNotConnected
	}
	keys := make([]string, 0)
	now := time.Now()
	err := s.dbh.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(s.Config.Bucket)).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			if _, err := storage.DecodeItem(v, now); err != nil {
				continue
			}
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}
