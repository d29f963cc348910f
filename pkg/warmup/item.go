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

package warmup

import (
	"time"

	"github.com/tetherproxy/tether/pkg/priority"
)

// Item is a prefetch target. It is attempted once all of its dependencies are
// present and fresh in the cache, then discarded.
type Item struct {
	Key          string            `json:"key"`
	URL          string            `json:"url"`
	Priority     priority.Priority `json:"priority"`
	Dependencies []string          `json:"dependencies,omitempty"`

	retried bool
}

// Option configures an Item at enqueue time
type Option func(*Item)

// WithPriority sets the Item's priority
func WithPriority(p priority.Priority) Option {
	return func(it *Item) {
		it.Priority = p
	}
}

// WithDependencies sets the keys that must be cached before the Item is fetched
func WithDependencies(keys ...string) Option {
	return func(it *Item) {
		it.Dependencies = append(it.Dependencies[:0], keys...)
	}
}

// record is the persisted form of warmed data
type record struct {
	Data     []byte    `json:"data"`
	StoredAt time.Time `json:"stored_at"`
	// TTL is in milliseconds
	TTL int64 `json:"ttl"`
}

func (r *record) remaining(now time.Time) time.Duration {
	return time.Duration(r.TTL)*time.Millisecond - now.Sub(r.StoredAt)
}
