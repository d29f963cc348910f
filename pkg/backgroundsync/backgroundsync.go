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

// Package backgroundsync queues mutations that could not reach the origin and
// replays them with exponential backoff once the origin is reachable. The queue
// is persisted after every change so a restart resumes where it left off.
package backgroundsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tetherproxy/tether/pkg/backgroundsync/options"
	"github.com/tetherproxy/tether/pkg/broadcast"
	"github.com/tetherproxy/tether/pkg/connectivity"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
	"github.com/tetherproxy/tether/pkg/priority"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher"
	"github.com/tetherproxy/tether/pkg/proxy/headers"
	"github.com/tetherproxy/tether/pkg/storage"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// ErrInvalidKind is returned when enqueuing an unknown mutation kind
var ErrInvalidKind = errors.New("invalid mutation kind")

// ErrClosed is returned when enqueuing into a closed Manager
var ErrClosed = errors.New("sync manager is closed")

// Manager owns the mutation queue
type Manager struct {
	// mtx guards items, timers and closed
	mtx    sync.Mutex
	items  []*Item
	timers map[string]*time.Timer
	closed bool

	// runMu is held for the duration of processing; background triggers
	// skip when it is taken, ForceSync waits for it
	runMu      sync.Mutex
	rerun      atomic.Bool
	processing atomic.Bool
	wg         sync.WaitGroup

	options     *options.Options
	store       storage.Store
	fetcher     fetcher.Fetcher
	observer    connectivity.Observer
	broadcaster broadcast.Publisher
	logger      *logging.Logger
	now         func() time.Time

	// ctx is cancelled by Close to abandon in-flight background sends
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a Manager with the queue loaded from store. observer and b may be nil.
func New(o *options.Options, store storage.Store, f fetcher.Fetcher,
	observer connectivity.Observer, b broadcast.Publisher,
	logger *logging.Logger) (*Manager, error) {
	if f == nil {
		return nil, terr.ErrNilFetcher
	}
	if store == nil {
		return nil, terr.ErrNilStore
	}
	if o == nil {
		o = options.New()
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	m := &Manager{
		timers:      make(map[string]*time.Timer),
		options:     o,
		store:       store,
		fetcher:     f,
		observer:    observer,
		broadcaster: b,
		logger:      logger,
		now:         time.Now,
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.load()
	if observer != nil {
		observer.Subscribe(func(online bool) {
			if online {
				m.trigger()
			}
		})
	}
	return m, nil
}

// Options returns the Manager's options
func (m *Manager) Options() *options.Options {
	return m.options
}

func (m *Manager) online() bool {
	return m.observer == nil || m.observer.Online()
}

// load restores the persisted queue. Unreadable or corrupt state yields an empty queue.
func (m *Manager) load() {
	data, err := m.store.GetItem(storage.SyncQueueKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKNF) {
			m.logger.Warn("could not read sync queue, starting empty",
				logging.Pairs{"detail": terr.NewStorageError("get", storage.SyncQueueKey, err).Error()})
		}
		return
	}
	var items []*Item
	if err = json.Unmarshal(data, &items); err != nil {
		m.logger.Warn("corrupt sync queue, starting empty",
			logging.Pairs{"detail": err.Error()})
		return
	}
	now := m.now()
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, it := range items {
		if it == nil || it.ID == "" || !it.Kind.Valid() {
			continue
		}
		if it.MaxAttempts < 1 {
			it.MaxAttempts = m.options.MaxAttempts
		}
		m.items = append(m.items, it)
		if !it.Failed && it.NextAttemptAt.After(now) {
			m.schedule(it.ID, it.NextAttemptAt.Sub(now))
		}
	}
	m.updateGauges()
	if len(m.items) > 0 {
		m.logger.Info("sync queue restored", logging.Pairs{"items": len(m.items)})
	}
}

// persist writes the whole queue to the store. m.mtx must be held.
func (m *Manager) persist() {
	data, err := json.Marshal(m.items)
	if err == nil {
		err = m.store.SetItem(storage.SyncQueueKey, data, 0)
	}
	if err != nil {
		m.logger.Error("could not persist sync queue",
			logging.Pairs{"detail": terr.NewStorageError("set", storage.SyncQueueKey, err).Error()})
	}
	m.updateGauges()
}

// updateGauges sets the queue gauges. m.mtx must be held.
func (m *Manager) updateGauges() {
	var pending, failed int
	for _, it := range m.items {
		if it.Failed {
			failed++
		} else {
			pending++
		}
	}
	metrics.SyncQueueItems.WithLabelValues("pending").Set(float64(pending))
	metrics.SyncQueueItems.WithLabelValues("failed").Set(float64(failed))
}

// Enqueue appends a mutation to the queue and returns its id. When online, a
// processing pass is started in the background if none is running.
func (m *Manager) Enqueue(kind Kind, endpoint string, payload json.RawMessage,
	opts ...Option) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	if err := fetcher.ValidatePath(endpoint); err != nil {
		return "", err
	}
	it := &Item{
		ID:          uuid.NewString(),
		Kind:        kind,
		Endpoint:    endpoint,
		Payload:     payload,
		EnqueuedAt:  m.now(),
		MaxAttempts: m.options.MaxAttempts,
		Priority:    priority.Normal,
	}
	for _, opt := range opts {
		opt(it)
	}
	m.mtx.Lock()
	if m.closed {
		m.mtx.Unlock()
		return "", ErrClosed
	}
	m.items = append(m.items, it)
	m.persist()
	m.mtx.Unlock()

	m.logger.Debug("mutation queued", logging.Pairs{"id": it.ID, "kind": string(kind),
		"endpoint": endpoint, "priority": it.Priority.String()})
	if m.online() {
		m.trigger()
	}
	return it.ID, nil
}

// Start begins processing any restored items when online
func (m *Manager) Start() {
	if m.online() && m.Status().Pending > 0 {
		m.trigger()
	}
}

// trigger starts processing in the background unless a pass is already running.
// A trigger that arrives during a pass causes another pass once it finishes.
func (m *Manager) trigger() {
	m.mtx.Lock()
	if m.closed {
		m.mtx.Unlock()
		return
	}
	m.wg.Add(1)
	m.mtx.Unlock()
	m.rerun.Store(true)
	go func() {
		defer m.wg.Done()
		for m.rerun.Load() {
			if !m.runMu.TryLock() {
				return
			}
			m.rerun.Store(false)
			if m.online() {
				m.run(m.ctx, false)
			}
			m.runMu.Unlock()
		}
	}()
}

// ForceSync runs processing synchronously, including items waiting on a
// backoff timer, and returns the number of items synced. It returns an
// *errors.OfflineError when offline.
func (m *Manager) ForceSync(ctx context.Context) (int, error) {
	if !m.online() {
		return 0, terr.NewOfflineError("sync")
	}
	m.runMu.Lock()
	defer m.runMu.Unlock()
	return m.run(ctx, true), nil
}

// run processes passes until no due items remain. runMu must be held.
func (m *Manager) run(ctx context.Context, force bool) int {
	m.processing.Store(true)
	defer m.processing.Store(false)
	var total int
	for {
		n, more := m.pass(ctx, force)
		total += n
		force = false
		if !more || !m.online() || ctx.Err() != nil {
			break
		}
	}
	metrics.SyncPasses.Inc()
	if total > 0 {
		m.logger.Info("background sync complete", logging.Pairs{"count": total})
		if m.broadcaster != nil {
			m.broadcaster.Publish(broadcast.SyncComplete, map[string]int{"count": total})
		}
	}
	return total
}

// nextBatch returns up to BatchSize due items ordered by priority, then age.
// m.mtx must be held.
func (m *Manager) nextBatch(force bool) []*Item {
	now := m.now()
	due := make([]*Item, 0, len(m.items))
	for _, it := range m.items {
		if it.due(now) || (force && !it.Failed) {
			due = append(due, it)
		}
	}
	slices.SortStableFunc(due, func(a, b *Item) bool {
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.EnqueuedAt.Before(b.EnqueuedAt)
	})
	if len(due) > m.options.BatchSize {
		due = due[:m.options.BatchSize]
	}
	return due
}

// pass sends one batch and reports how many items synced and whether due items remain
func (m *Manager) pass(ctx context.Context, force bool) (int, bool) {
	m.mtx.Lock()
	batch := m.nextBatch(force)
	for _, it := range batch {
		if t, ok := m.timers[it.ID]; ok {
			t.Stop()
			delete(m.timers, it.ID)
		}
	}
	m.mtx.Unlock()

	var synced int
	for _, it := range batch {
		if !m.online() || ctx.Err() != nil {
			break
		}
		err := m.send(ctx, it)
		if err != nil && ctx.Err() != nil {
			// abandoned, not failed
			break
		}
		m.mtx.Lock()
		idx := m.indexOf(it.ID)
		if idx < 0 {
			// cleared while in flight
			m.mtx.Unlock()
			continue
		}
		if err == nil {
			m.items = append(m.items[:idx], m.items[idx+1:]...)
			synced++
			m.persist()
			m.mtx.Unlock()
			continue
		}
		failed := m.fail(it, err)
		report := map[string]interface{}{"id": it.ID, "kind": it.Kind,
			"endpoint": it.Endpoint, "attempts": it.Attempt, "error": it.LastError}
		m.persist()
		m.mtx.Unlock()
		if failed && m.broadcaster != nil {
			m.broadcaster.Publish(broadcast.SyncFailed, report)
		}
	}

	m.mtx.Lock()
	more := len(m.nextBatch(false)) > 0
	m.mtx.Unlock()
	return synced, more
}

// fail records a failed attempt and either schedules a retry or marks the
// item failed. It returns true when the item is terminally failed. m.mtx must be held.
func (m *Manager) fail(it *Item, err error) bool {
	it.Attempt++
	it.LastError = err.Error()
	if it.Attempt >= it.MaxAttempts {
		it.Failed = true
		it.NextAttemptAt = time.Time{}
		m.logger.Warn("mutation failed permanently", logging.Pairs{"id": it.ID,
			"endpoint": it.Endpoint, "attempts": it.Attempt, "detail": it.LastError})
		return true
	}
	delay := m.Backoff(it.Attempt)
	it.NextAttemptAt = m.now().Add(delay)
	m.schedule(it.ID, delay)
	m.logger.Debug("mutation retry scheduled", logging.Pairs{"id": it.ID,
		"attempt": it.Attempt, "delay": delay.String(), "detail": it.LastError})
	return false
}

// Backoff returns the delay before the retry that follows the given failed attempt
func (m *Manager) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(m.options.BaseDelay) *
		math.Pow(m.options.BackoffFactor, float64(attempt-1)))
}

// schedule arms a retry timer for the item. m.mtx must be held.
func (m *Manager) schedule(id string, delay time.Duration) {
	if m.closed {
		return
	}
	if t, ok := m.timers[id]; ok {
		t.Stop()
	}
	m.timers[id] = time.AfterFunc(delay, func() {
		m.mtx.Lock()
		delete(m.timers, id)
		m.mtx.Unlock()
		if m.online() {
			m.trigger()
		}
	})
}

func (m *Manager) send(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, m.options.RequestTimeout)
	defer cancel()
	r, err := http.NewRequestWithContext(ctx, it.Kind.Method(), it.Endpoint,
		bytes.NewReader(it.Payload))
	if err != nil {
		metrics.SyncAttempts.WithLabelValues(string(it.Kind), "error").Inc()
		return err
	}
	if len(it.Payload) > 0 {
		r.Header.Set(headers.NameContentType, headers.ValueApplicationJSON)
	}
	r.Header.Set(headers.NameIdempotencyKey, it.ID)
	resp, err := m.fetcher.Fetch(ctx, r)
	if err != nil {
		metrics.SyncAttempts.WithLabelValues(string(it.Kind), "network_error").Inc()
		return err
	}
	fetcher.ReadBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.SyncAttempts.WithLabelValues(string(it.Kind), "http_error").Inc()
		return terr.NewHTTPError(it.Endpoint, resp.StatusCode)
	}
	metrics.SyncAttempts.WithLabelValues(string(it.Kind), "success").Inc()
	return nil
}

// indexOf returns the index of the item with id, or -1. m.mtx must be held.
func (m *Manager) indexOf(id string) int {
	for i, it := range m.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Status returns a summary of the queue
func (m *Manager) Status() Status {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	s := Status{Processing: m.processing.Load(), IsOnline: m.online()}
	for _, it := range m.items {
		if it.Failed {
			s.Failed++
		} else {
			s.Pending++
		}
	}
	return s
}

// Items returns a copy of the queued items in queue order
func (m *Manager) Items() []Item {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	out := make([]Item, len(m.items))
	for i, it := range m.items {
		out[i] = *it
	}
	return out
}

// ClearFailed removes all failed items and returns how many were removed
func (m *Manager) ClearFailed() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	kept := m.items[:0]
	var n int
	for _, it := range m.items {
		if it.Failed {
			n++
			continue
		}
		kept = append(kept, it)
	}
	m.items = kept
	if n > 0 {
		m.persist()
	}
	return n
}

// RetryFailed returns all failed items to the pending state with a fresh
// attempt budget and returns how many were reset
func (m *Manager) RetryFailed() int {
	m.mtx.Lock()
	var n int
	for _, it := range m.items {
		if it.Failed {
			it.Failed = false
			it.Attempt = 0
			it.NextAttemptAt = time.Time{}
			it.LastError = ""
			n++
		}
	}
	if n > 0 {
		m.persist()
	}
	m.mtx.Unlock()
	if n > 0 && m.online() {
		m.trigger()
	}
	return n
}

// Close stops retry timers and waits for background processing to finish
func (m *Manager) Close() error {
	m.mtx.Lock()
	if m.closed {
		m.mtx.Unlock()
		return nil
	}
	m.closed = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
	m.mtx.Unlock()
	m.cancel()
	m.wg.Wait()
	return nil
}
