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

// Package cache defines the Tether cache interfaces and provides
// general cache functionality
package cache

import (
	"errors"
	"time"

	"github.com/tetherproxy/tether/pkg/cache/status"
)

// ErrKNF represents the error "key not found in cache"
var ErrKNF = errors.New("key not found in cache")

// ErrNilReference indicates a nil reference object was offered to the cache
var ErrNilReference = errors.New("nil reference object")

// Cache is the interface for the in-process TTL cache
// Retrieve must return ErrKNF on a miss, including when the entry has expired
type Cache interface {
	Connect() error
	Store(cacheKey string, data []byte, ttl time.Duration) error
	Retrieve(cacheKey string) ([]byte, status.LookupStatus, error)
	Remove(cacheKeys ...string) error
	Contains(cacheKey string) bool
	Clear()
	Close() error
}

// MemoryCache is the interface for an in-memory cache
// This offers additional methods for storing references to bypass serialization
type MemoryCache interface {
	Cache
	StoreReference(cacheKey string, data ReferenceObject, ttl time.Duration) error
	RetrieveReference(cacheKey string) (ReferenceObject, status.LookupStatus, error)
	// RetrieveStaleReference also returns an expired entry, as a stale hit,
	// and leaves it in place
	RetrieveStaleReference(cacheKey string) (ReferenceObject, status.LookupStatus, error)
}

// ReferenceObject defines an interface for a cache object possessing the ability to report
// the approximate comprehensive byte size of its members, to assist with cache size management
type ReferenceObject interface {
	Size() int
}
