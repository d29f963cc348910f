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

// Package memory is an in-process implementation of the Tether Store, used when
// no durable provider is configured and in tests
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tetherproxy/tether/pkg/storage"
)

var _ storage.Store = &Store{}

type item struct {
	data      []byte
	expiresAt time.Time
}

// Store is a map-backed Store
type Store struct {
	Name string

	mtx   sync.RWMutex
	items map[string]item
}

// New returns a new memory Store
func New(name string) *Store {
	return &Store{Name: name, items: make(map[string]item)}
}

// Connect is a no-op for the memory store
func (s *Store) Connect() error {
	return nil
}

// Close is a no-op for the memory store; its contents survive until the process exits
func (s *Store) Close() error {
	return nil
}

// GetItem returns the data stored under key
func (s *Store) GetItem(key string) ([]byte, error) {
	s.mtx.RLock()
	it, ok := s.items[key]
	s.mtx.RUnlock()
	if !ok || (!it.expiresAt.IsZero() && time.Now().After(it.expiresAt)) {
		return nil, storage.ErrKNF
	}
	out := make([]byte, len(it.data))
	copy(out, it.data)
	return out, nil
}

// SetItem stores a copy of data under key
func (s *Store) SetItem(key string, data []byte, ttl time.Duration) error {
	it := item{data: make([]byte, len(data))}
	copy(it.data, data)
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	s.mtx.Lock()
	s.items[key] = it
	s.mtx.Unlock()
	return nil
}

// RemoveItem deletes the provided keys
func (s *Store) RemoveItem(keys ...string) error {
	s.mtx.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mtx.Unlock()
	return nil
}

// Keys returns the sorted unexpired keys beginning with prefix
func (s *Store) Keys(prefix string) ([]string, error) {
	now := time.Now()
	s.mtx.RLock()
	keys := make([]string, 0, len(s.items))
	for k, it := range s.items {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if !it.expiresAt.IsZero() && now.After(it.expiresAt) {
			continue
		}
		keys = append(keys, k)
	}
	s.mtx.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
