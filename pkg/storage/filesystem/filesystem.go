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

// Package filesystem is the filesystem implementation of the Tether Store
package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/filesystem/options"
)

// Store implements the storage.Store interface
var _ storage.Store = &Store{}

const fileSuffix = ".data"

var (
	keyEncoder = strings.NewReplacer("~", "~0", "/", "~1", "\\", "~2", ".", "~4")
	keyDecoder = strings.NewReplacer("~0", "~", "~1", "/", "~2", "\\", "~4", ".")
)

// ErrKeyRequired indicates an empty key was provided
var ErrKeyRequired = errors.New("key required")

// Store describes a Filesystem Store
type Store struct {
	Name   string
	Config *options.Options
	logger *logging.Logger
}

// New returns a new filesystem store as a Tether Store Interface type
func New(name string, config *options.Options, logger *logging.Logger) *Store {
	if config == nil {
		config = options.New()
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &Store{Name: name, Config: config, logger: logger}
}

// Connect ensures the storage path exists and is writable
func (s *Store) Connect() error {
	s.logger.Info("filesystem store setup", logging.Pairs{"name": s.Name,
		"storagePath": s.Config.StoragePath})
	return makeDirectory(s.Config.StoragePath)
}

// Close is a no-op for the filesystem store
func (s *Store) Close() error {
	return nil
}

// SetItem writes data to the file for key. The write is atomic via rename so a
// crash never leaves a partially written item behind.
func (s *Store) SetItem(key string, data []byte, ttl time.Duration) error {
	if key == "" {
		return ErrKeyRequired
	}
	dataFile := s.getFileName(key)
	tmp := dataFile + ".tmp"
	if err := os.WriteFile(tmp, storage.EncodeItem(data, ttl, time.Now()), os.FileMode(0o600)); err != nil {
		return err
	}
	return os.Rename(tmp, dataFile)
}

// GetItem reads the data stored for key
func (s *Store) GetItem(key string) ([]byte, error) {
	raw, err := os.ReadFile(s.getFileName(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrKNF
		}
		return nil, err
	}
	data, err := storage.DecodeItem(raw, time.Now())
	if err == storage.ErrKNF {
		s.RemoveItem(key)
	}
	return data, err
}

// RemoveItem deletes the files for the provided keys; missing files are ignored
func (s *Store) RemoveItem(keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(s.getFileName(key)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Keys returns the unexpired keys beginning with prefix
func (s *Store) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.Config.StoragePath)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		key := keyDecoder.Replace(strings.TrimSuffix(name, fileSuffix))
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.Config.StoragePath, name))
		if err != nil {
			continue
		}
		if _, err = storage.DecodeItem(raw, now); err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *Store) getFileName(key string) string {
	return filepath.Join(s.Config.StoragePath, keyEncoder.Replace(key)) + fileSuffix
}

// makeDirectory creates a directory on the filesystem and returns the error in the event of a failure.
func makeDirectory(path string) error {
	err := os.MkdirAll(path, 0o755)
	if err == nil {
		// verify writability by attempting to touch a test file in the storage path
		tf := filepath.Join(path, ".test."+strconv.FormatInt(time.Now().Unix(), 10))
		err = os.WriteFile(tf, []byte(""), 0o600)
		if err == nil {
			os.Remove(tf)
		}
	}
	if err != nil {
		return fmt.Errorf("[%s] directory is not writeable by tether: %w", path, err)
	}
	return nil
}
