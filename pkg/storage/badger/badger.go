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

// Package badger is the BadgerDB implementation of the Tether Store
package badger

import (
	"fmt"
	"strings"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/badger/options"

	"github.com/dgraph-io/badger"
)

var (
	// Store implements the storage.Store interface
	_ storage.Store = &Store{}
)

// Store describes a Badger Store
type Store struct {
	Name   string
	Config *options.Options
	dbh    *badger.DB
	logger *logging.Logger
}

// New returns a new badger store as a Tether Store Interface type
func New(name string, cfg *options.Options, logger *logging.Logger) *Store {
	if cfg == nil {
		cfg = options.New()
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &Store{Name: name, Config: cfg, logger: logger}
}

// Connect opens the configured Badger key-value store
func (s *Store) Connect() error {
	s.logger.Info("badger store setup", logging.Pairs{"name": s.Name,
		"directory": s.Config.Directory})
	opts := badger.DefaultOptions(s.Config.Directory)
	opts.ValueDir = s.Config.ValueDirectory
	if opts.ValueDir == "" {
		opts.ValueDir = s.Config.Directory
	}
	opts.Logger = &badgerLogger{logger: s.logger}

	var err error
	s.dbh, err = badger.Open(opts)
	return err
}

// Close closes the database
func (s *Store) Close() error {
	if s.dbh == nil {
		return nil
	}
	return s.dbh.Close()
}

// SetItem places the data into the Badger store using the provided key and ttl
func (s *Store) SetItem(key string, data []byte, ttl time.Duration) error {
	if s.dbh == nil {
		return storage.ErrNotConnected
	}
	return s.dbh.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// GetItem gets data from the Badger store using the provided key.
// Badger manages item expiration internally.
func (s *Store) GetItem(key string) ([]byte, error) {
	if s.dbh == nil {
		return nil, storage.ErrNotConnected
	}
	var data []byte
	err := s.dbh.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, storage.ErrKNF
	}
	return data, err
}

// RemoveItem deletes the provided keys
func (s *Store) RemoveItem(keys ...string) error {
	if s.dbh == nil {
		return storage.ErrNotConnected
	}
	return s.dbh.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
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
	err := s.dbh.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// badgerLogger routes badger's internal logging into the Tether logger
type badgerLogger struct {
	logger *logging.Logger
}

func format(f string, v ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(f, v...))
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Error("badger", logging.Pairs{"detail": format(f, v...)})
}

func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warn("badger", logging.Pairs{"detail": format(f, v...)})
}

func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debug("badger", logging.Pairs{"detail": format(f, v...)})
}

func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debug("badger", logging.Pairs{"detail": format(f, v...)})
}
