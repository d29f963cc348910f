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

// Package warmup prefetches origin data into the cache ahead of demand. Items
// are drained in priority order, in batches, once their dependencies are cached.
package warmup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tetherproxy/tether/pkg/cache"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
	"github.com/tetherproxy/tether/pkg/priority"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher"
	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/warmup/options"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidItem is returned when enqueuing an item without a key or an
// origin-relative url
var ErrInvalidItem = errors.New("warmup item requires a key and url")

// ErrClosed is returned when enqueuing into a closed Warmer
var ErrClosed = errors.New("warmer is closed")

// Key returns the cache and storage key of warmed data for key
func Key(key string) string {
	return storage.WarmupPrefix + key
}

// Warmer owns the warmup queue
type Warmer struct {
	// mtx guards queue, timers and closed
	mtx    sync.Mutex
	queue  []*Item
	timers map[string]*time.Timer
	closed bool

	running atomic.Bool
	rerun   atomic.Bool
	wg      sync.WaitGroup

	options *options.Options
	cache   cache.Cache
	store   storage.Store
	fetcher fetcher.Fetcher
	logger  *logging.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a Warmer that writes into c. store may be nil, in which case
// warmed data lives only in the cache.
func New(o *options.Options, c cache.Cache, store storage.Store, f fetcher.Fetcher,
	logger *logging.Logger) (*Warmer, error) {
	if c == nil {
		return nil, terr.ErrNilCache
	}
	if f == nil {
		return nil, terr.ErrNilFetcher
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
	w := &Warmer{
		timers:  make(map[string]*time.Timer),
		options: o,
		cache:   c,
		store:   store,
		fetcher: f,
		logger:  logger,
		now:     time.Now,
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w, nil
}

// Options returns the Warmer's options
func (w *Warmer) Options() *options.Options {
	return w.options
}

// Enqueue adds a prefetch target. Items are kept ordered high to low priority,
// in arrival order within a priority. A key that is already pending is not added again.
func (w *Warmer) Enqueue(key, url string, opts ...Option) error {
	if key == "" || url == "" {
		return ErrInvalidItem
	}
	if err := fetcher.ValidatePath(url); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidItem, err.Error())
	}
	it := &Item{Key: key, URL: url, Priority: priority.Normal}
	for _, opt := range opts {
		opt(it)
	}
	w.mtx.Lock()
	defer w.mtx.Unlock()
	if w.closed {
		return ErrClosed
	}
	for _, q := range w.queue {
		if q.Key == key {
			return nil
		}
	}
	w.insert(it)
	return nil
}

// insert places it before the first item of lower priority. w.mtx must be held.
func (w *Warmer) insert(it *Item) {
	i := len(w.queue)
	for j, q := range w.queue {
		if q.Priority < it.Priority {
			i = j
			break
		}
	}
	w.queue = append(w.queue, nil)
	copy(w.queue[i+1:], w.queue[i:])
	w.queue[i] = it
}

// Pending returns the number of queued items
func (w *Warmer) Pending() int {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return len(w.queue)
}

// Items returns a copy of the queued items in queue order
func (w *Warmer) Items() []Item {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	out := make([]Item, len(w.queue))
	for i, it := range w.queue {
		out[i] = *it
	}
	return out
}

// Running returns true while a warmup pass is draining the queue
func (w *Warmer) Running() bool {
	return w.running.Load()
}

// Warmup drains the queue in batches and returns the number of items warmed.
// It returns immediately when a pass is already running or the queue is empty.
func (w *Warmer) Warmup(ctx context.Context) int {
	if w.Pending() == 0 || !w.running.CompareAndSwap(false, true) {
		return 0
	}
	var n int64
	defer func() {
		w.running.Store(false)
		if w.rerun.Swap(false) && w.Pending() > 0 {
			w.trigger()
		}
	}()
	for ctx.Err() == nil {
		batch := w.nextBatch()
		if len(batch) == 0 {
			break
		}
		var g errgroup.Group
		waits := batchWaits(batch)
		for i, it := range batch {
			it, wait, done := it, waits[i].on, waits[i].done
			g.Go(func() error {
				defer close(done)
				// a dependency warmed earlier in this batch must finish first
				for _, ch := range wait {
					<-ch
				}
				if w.warm(ctx, it) {
					atomic.AddInt64(&n, 1)
				}
				return nil
			})
		}
		g.Wait()
	}
	if n > 0 {
		w.logger.Info("warmup pass complete", logging.Pairs{"warmed": n})
	}
	return int(n)
}

type batchWait struct {
	on   []chan struct{}
	done chan struct{}
}

// batchWaits links each item to the earlier items of the batch it depends on
func batchWaits(batch []*Item) []batchWait {
	out := make([]batchWait, len(batch))
	byKey := make(map[string]chan struct{}, len(batch))
	for i, it := range batch {
		for _, dep := range it.Dependencies {
			if ch, ok := byKey[dep]; ok {
				out[i].on = append(out[i].on, ch)
			}
		}
		out[i].done = make(chan struct{})
		byKey[it.Key] = out[i].done
	}
	return out
}

func (w *Warmer) nextBatch() []*Item {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	n := w.options.BatchSize
	if n > len(w.queue) {
		n = len(w.queue)
	}
	batch := make([]*Item, n)
	copy(batch, w.queue[:n])
	w.queue = w.queue[n:]
	return batch
}

// trigger runs a pass in the background
func (w *Warmer) trigger() {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	if w.closed {
		return
	}
	w.rerun.Store(true)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Warmup(w.ctx)
	}()
}

// ready returns the first dependency that is not fresh in the cache, if any
func (w *Warmer) ready(it *Item) (string, bool) {
	for _, dep := range it.Dependencies {
		if !w.cache.Contains(dep) && !w.cache.Contains(Key(dep)) {
			return dep, false
		}
	}
	return "", true
}

// warm attempts a single item and reports whether its data was cached
func (w *Warmer) warm(ctx context.Context, it *Item) bool {
	pn := it.Priority.String()
	if dep, ok := w.ready(it); !ok {
		w.logger.Warn("warmup item skipped, dependency not cached",
			logging.Pairs{"key": it.Key, "dependency": dep})
		metrics.WarmupItems.WithLabelValues(pn, "skipped").Inc()
		return false
	}
	body, err := w.fetch(ctx, it)
	if err != nil {
		w.logger.Debug("warmup fetch failed",
			logging.Pairs{"key": it.Key, "url": it.URL, "detail": err.Error()})
		if it.Priority == priority.High && !it.retried {
			w.scheduleRetry(it)
			metrics.WarmupItems.WithLabelValues(pn, "retried").Inc()
			return false
		}
		metrics.WarmupItems.WithLabelValues(pn, "failed").Inc()
		return false
	}
	ttl := w.options.TTL
	w.cache.Store(Key(it.Key), body, ttl)
	w.persist(it.Key, body, ttl)
	metrics.WarmupItems.WithLabelValues(pn, "warmed").Inc()
	return true
}

func (w *Warmer) fetch(ctx context.Context, it *Item) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, w.options.Timeout)
	defer cancel()
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, it.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.fetcher.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	body, err := fetcher.ReadBody(resp)
	if err != nil {
		return nil, terr.NewNetworkError(it.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, terr.NewHTTPError(it.URL, resp.StatusCode)
	}
	return body, nil
}

func (w *Warmer) scheduleRetry(it *Item) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	if w.closed {
		return
	}
	it.retried = true
	if t, ok := w.timers[it.Key]; ok {
		t.Stop()
	}
	w.timers[it.Key] = time.AfterFunc(w.options.RetryDelay, func() {
		w.mtx.Lock()
		delete(w.timers, it.Key)
		if w.closed {
			w.mtx.Unlock()
			return
		}
		w.insert(it)
		w.mtx.Unlock()
		w.trigger()
	})
}

func (w *Warmer) persist(key string, body []byte, ttl time.Duration) {
	if w.store == nil {
		return
	}
	b, err := json.Marshal(&record{Data: body, StoredAt: w.now(), TTL: ttl.Milliseconds()})
	if err == nil {
		err = w.store.SetItem(Key(key), b, ttl)
	}
	if err != nil {
		w.logger.Warn("could not persist warmed data",
			logging.Pairs{"key": key, "detail": err.Error()})
	}
}

// GetWarmedData returns the warmed data for key when it is still within its ttl.
// The cache is consulted first, then the persisted copy, which is restored
// into the cache for its remaining ttl.
func (w *Warmer) GetWarmedData(key string) ([]byte, bool) {
	k := Key(key)
	if data, _, err := w.cache.Retrieve(k); err == nil {
		return data, true
	}
	if w.store == nil {
		return nil, false
	}
	b, err := w.store.GetItem(k)
	if err != nil {
		if !errors.Is(err, storage.ErrKNF) {
			w.logger.Warn("could not read warmed data",
				logging.Pairs{"key": key, "detail": err.Error()})
		}
		return nil, false
	}
	rec := &record{}
	if err := json.Unmarshal(b, rec); err != nil {
		w.store.RemoveItem(k)
		return nil, false
	}
	rem := rec.remaining(w.now())
	if rem <= 0 {
		w.store.RemoveItem(k)
		return nil, false
	}
	w.cache.Store(k, rec.Data, rem)
	return rec.Data, true
}

// Start enqueues the configured items, warms them, and re-warms them on the
// configured interval
func (w *Warmer) Start() {
	w.enqueueConfigured()
	w.trigger()
	if w.options.Interval <= 0 {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.options.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.enqueueConfigured()
				w.trigger()
			}
		}
	}()
}

func (w *Warmer) enqueueConfigured() {
	for _, ic := range w.options.Items {
		err := w.Enqueue(ic.Key, ic.URL, WithPriority(ic.PriorityValue),
			WithDependencies(ic.Dependencies...))
		if err != nil {
			w.logger.Warn("could not enqueue warmup item",
				logging.Pairs{"key": ic.Key, "detail": err.Error()})
		}
	}
}

// Close stops retry timers and the interval loop and waits for running passes
func (w *Warmer) Close() error {
	w.mtx.Lock()
	if w.closed {
		w.mtx.Unlock()
		return nil
	}
	w.closed = true
	for k, t := range w.timers {
		t.Stop()
		delete(w.timers, k)
	}
	w.mtx.Unlock()
	w.cancel()
	w.wg.Wait()
	return nil
}
