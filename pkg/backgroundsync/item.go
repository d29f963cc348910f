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

package backgroundsync

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tetherproxy/tether/pkg/priority"
)

// Kind is the kind of mutation a queued item replays
type Kind string

const (
	// KindCreate is replayed as a POST
	KindCreate Kind = "create"
	// KindUpdate is replayed as a PUT
	KindUpdate Kind = "update"
	// KindDelete is replayed as a DELETE
	KindDelete Kind = "delete"
)

// Method returns the HTTP method used to replay the kind
func (k Kind) Method() string {
	switch k {
	case KindCreate:
		return http.MethodPost
	case KindUpdate:
		return http.MethodPut
	case KindDelete:
		return http.MethodDelete
	}
	return ""
}

// Valid returns true for a known Kind
func (k Kind) Valid() bool {
	return k.Method() != ""
}

// KindForMethod returns the Kind that replays a request made with method
func KindForMethod(method string) (Kind, error) {
	switch method {
	case http.MethodPost:
		return KindCreate, nil
	case http.MethodPut, http.MethodPatch:
		return KindUpdate, nil
	case http.MethodDelete:
		return KindDelete, nil
	}
	return "", fmt.Errorf("method %s cannot be queued", method)
}

// Item is a queued mutation
type Item struct {
	ID            string            `json:"id"`
	Kind          Kind              `json:"kind"`
	Endpoint      string            `json:"endpoint"`
	Payload       json.RawMessage   `json:"payload,omitempty"`
	EnqueuedAt    time.Time         `json:"enqueued_at"`
	Attempt       int               `json:"attempt"`
	MaxAttempts   int               `json:"max_attempts"`
	Priority      priority.Priority `json:"priority"`
	Failed        bool              `json:"failed,omitempty"`
	NextAttemptAt time.Time         `json:"next_attempt_at,omitempty"`
	LastError     string            `json:"last_error,omitempty"`
}

// due returns true when the item is pending and not waiting on a backoff timer
func (i *Item) due(now time.Time) bool {
	return !i.Failed && !i.NextAttemptAt.After(now)
}

// Option configures an Item at enqueue time
type Option func(*Item)

// WithPriority sets the item's priority
func WithPriority(p priority.Priority) Option {
	return func(i *Item) {
		i.Priority = p
	}
}

// WithMaxAttempts sets the item's attempt limit; values < 1 are ignored
func WithMaxAttempts(n int) Option {
	return func(i *Item) {
		if n > 0 {
			i.MaxAttempts = n
		}
	}
}

// Status summarizes the queue
type Status struct {
	Pending    int  `json:"pending"`
	Failed     int  `json:"failed"`
	Processing bool `json:"processing"`
	IsOnline   bool `json:"is_online"`
}
