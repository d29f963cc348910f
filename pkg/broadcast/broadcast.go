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

// Package broadcast delivers lifecycle events to registered listeners and to
// channel subscribers. Delivery is fire-and-forget: a failing listener or a
// slow subscriber never blocks the publisher.
package broadcast

import (
	"sync"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
)

// MessageType names a broadcast message
type MessageType string

const (
	// SyncComplete is published after a processing pass synced at least one item
	SyncComplete MessageType = "BACKGROUND_SYNC_COMPLETE"
	// SyncFailed is published when a queued mutation exhausts its attempts
	SyncFailed MessageType = "BACKGROUND_SYNC_FAILED"
	// OnlineStatusChanged is published on every connectivity transition
	OnlineStatusChanged MessageType = "ONLINE_STATUS_CHANGED"
	// VersionMismatch is published when a client reports a different cache version
	VersionMismatch MessageType = "VERSION_MISMATCH"
	// Version answers a client's GET_VERSION request
	Version MessageType = "SW_VERSION"
	// PushNotification carries a push message to observers
	PushNotification MessageType = "PUSH_NOTIFICATION"
	// VersionActivated is published when a pending cache version becomes active
	VersionActivated MessageType = "VERSION_ACTIVATED"

	// SkipWaiting is sent by a client to activate the pending version
	SkipWaiting MessageType = "SKIP_WAITING"
	// GetVersion is sent by a client to request the active version
	GetVersion MessageType = "GET_VERSION"
)

// DefaultSubscriberBuffer is the channel buffer used when Subscribe is called with a size < 1
const DefaultSubscriberBuffer = 16

// Message is a single broadcast event
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Time    time.Time   `json:"time"`
}

// Listener receives messages synchronously on the publishing goroutine
type Listener func(Message)

// Publisher is implemented by anything that can broadcast a message
type Publisher interface {
	Publish(t MessageType, payload interface{})
}

// Broadcaster fans messages out to listeners and subscribers
type Broadcaster struct {
	mtx         sync.RWMutex
	nextID      int
	listeners   map[int]Listener
	subscribers map[int]chan Message
	closed      bool
	logger      *logging.Logger
	now         func() time.Time
}

// New returns a new Broadcaster
func New(logger *logging.Logger) *Broadcaster {
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &Broadcaster{
		listeners:   make(map[int]Listener),
		subscribers: make(map[int]chan Message),
		logger:      logger,
		now:         time.Now,
	}
}

// AddListener registers l and returns a function that removes it
func (b *Broadcaster) AddListener(l Listener) func() {
	if l == nil {
		return func() {}
	}
	b.mtx.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mtx.Unlock()
	return func() {
		b.mtx.Lock()
		delete(b.listeners, id)
		b.mtx.Unlock()
	}
}

// Subscribe returns a channel that receives every message published from now
// on, and a function that cancels the subscription and closes the channel.
// Messages are dropped for a subscriber whose buffer is full.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer < 1 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan Message, buffer)
	b.mtx.Lock()
	if b.closed {
		b.mtx.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mtx.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mtx.Lock()
			if c, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(c)
			}
			b.mtx.Unlock()
		})
	}
}

// Publish sends a message of type t to all listeners and subscribers
func (b *Broadcaster) Publish(t MessageType, payload interface{}) {
	m := Message{Type: t, Payload: payload, Time: b.now()}
	metrics.BroadcastMessages.WithLabelValues(string(t)).Inc()

	b.mtx.RLock()
	if b.closed {
		b.mtx.RUnlock()
		return
	}
	listeners := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	var dropped int
	for _, ch := range b.subscribers {
		select {
		case ch <- m:
		default:
			dropped++
		}
	}
	b.mtx.RUnlock()

	if dropped > 0 {
		b.logger.Debug("broadcast dropped for slow subscribers",
			logging.Pairs{"type": string(t), "dropped": dropped})
	}
	for _, l := range listeners {
		b.deliver(l, m)
	}
}

func (b *Broadcaster) deliver(l Listener, m Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("broadcast listener panicked",
				logging.Pairs{"type": string(m.Type), "detail": r})
		}
	}()
	l(m)
}

// Subscribers returns the number of channel subscribers
func (b *Broadcaster) Subscribers() int {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels. Later publishes are discarded.
func (b *Broadcaster) Close() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
