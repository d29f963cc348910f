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

// Package storage defines the persistent key/value store used by Tether for
// the background sync queue, warmed data and persisted responses
package storage

import (
	"errors"
	"time"
)

// ErrKNF represents the error "key not found in store"
var ErrKNF = errors.New("key not found in store")

// ErrNotConnected indicates an operation was attempted before Connect
var ErrNotConnected = errors.New("store is not connected")

// Well-known keys and key prefixes
const (
	// SyncQueueKey holds the serialized background sync queue
	SyncQueueKey = "background-sync-queue"
	// WarmupPrefix prefixes persisted warmup results
	WarmupPrefix = "warmup_"
	// ResponsePrefix prefixes persisted response documents
	ResponsePrefix = "response_"
)

// Store is the interface for the supported persistence providers.
// GetItem must return ErrKNF when the key does not exist or has expired.
// A ttl of 0 stores the item without expiration.
type Store interface {
	Connect() error
	GetItem(key string) ([]byte, error)
	SetItem(key string, data []byte, ttl time.Duration) error
	RemoveItem(keys ...string) error
	// Keys returns the keys beginning with prefix; an empty prefix returns all keys
	Keys(prefix string) ([]string, error)
	Close() error
}
