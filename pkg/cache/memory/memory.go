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

// Package memory is the in-process TTL cache used by Tether. Entries expire
// after their ttl and, at capacity, the entry with the oldest store time is evicted.
package memory

import (
	"container/list"
	"sync"
	"time"

	"github.com/tetherproxy/tether/pkg/cache"
	"github.com/tetherproxy/tether/pkg/cache/memory/options"
	"github.com/tetherproxy/tether/pkg/cache/metrics"
	"github.com/tetherproxy/tether/pkg/cache/status"
	"github.com/tetherproxy/tether/pkg/observability/logging"
)

const provider = "memory"

var (
	// Cache implements the cache.Cache and cache.MemoryCache interfaces
	_ cache.Cache       = &Cache{}
	_ cache.MemoryCache = &Cache{}
)

// Metrics is a point-in-time snapshot of the cache counters
type Metrics struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Sets      int64   `json:"sets"`
	Deletes   int64   `json:"deletes"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
	SizeBytes int64   `json:"size_bytes"`
	ItemCount int     `json:"item_count"`
}

type entry struct {
	key      string
	data     []byte
	ref      cache.ReferenceObject
	storedAt time.Time
	ttl      time.Duration
	size     int
	elem     *list.Element
}

func (e *entry) fresh(now time.Time) bool {
	return now.Sub(e.storedAt) <= e.ttl
}

// retained is true while e may still be read as stale
func (e *entry) retained(now time.Time, maxStale time.Duration) bool {
	return now.Sub(e.storedAt) <= e.ttl+maxStale
}

// Cache defines a Memory Cache client that conforms to the Cache interface
type Cache struct {
	Name   string
	Config *options.Options

	mtx   sync.Mutex
	items map[string]*entry
	// order holds entries oldest-stored first
	order *list.List
	bytes int64

	hits, misses, sets, deletes, evictions int64

	logger   *logging.Logger
	now      func() time.Time
	stopOnce sync.Once
	stop     chan struct{}
	reaping  bool
}

// New returns a new memory cache as a Tether Cache Interface type
func New(name string, cfg *options.Options, logger *logging.Logger) *Cache {
	if cfg == nil {
		cfg = options.New()
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Duration(cfg.DefaultTTLMS) * time.Millisecond
	}
	if cfg.MaxStale <= 0 {
		cfg.MaxStale = time.Duration(cfg.MaxStaleMS) * time.Millisecond
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	c := &Cache{
		Name:   name,
		Config: cfg,
		items:  make(map[string]*entry),
		order:  list.New(),
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	metrics.ObserveCacheMaxObjects(name, provider, cfg.MaxItems)
	return c
}

// Connect initializes the Cache and starts the expired-entry reaper when configured
func (c *Cache) Connect() error {
	c.logger.Info("memorycache setup", logging.Pairs{"name": c.Name,
		"maxItems": c.Config.MaxItems, "reapInterval": c.Config.ReapInterval})
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.Config.ReapInterval > 0 && !c.reaping {
		c.reaping = true
		go c.reaper(c.Config.ReapInterval)
	}
	return nil
}

// Close stops the reaper
func (c *Cache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// StoreReference stores an object directly to the memory cache without requiring serialization
func (c *Cache) StoreReference(cacheKey string, data cache.ReferenceObject, ttl time.Duration) error {
	if data == nil {
		return cache.ErrNilReference
	}
	c.store(cacheKey, nil, data, ttl)
	return nil
}

// Store places an object in the cache using the specified key and ttl
func (c *Cache) Store(cacheKey string, data []byte, ttl time.Duration) error {
	c.store(cacheKey, data, nil, ttl)
	return nil
}

func (c *Cache) store(cacheKey string, byteData []byte, refData cache.ReferenceObject,
	ttl time.Duration) {

	if ttl <= 0 {
		ttl = c.Config.DefaultTTL
	}
	size := len(byteData)
	if refData != nil {
		size = refData.Size()
	}

	c.mtx.Lock()
	now := c.now()
	e, exists := c.items[cacheKey]
	if exists {
		c.bytes -= int64(e.size)
		c.order.MoveToBack(e.elem)
	} else {
		if c.Config.MaxItems > 0 && len(c.items) >= c.Config.MaxItems {
			c.evictOldest()
		}
		e = &entry{key: cacheKey}
		e.elem = c.order.PushBack(e)
		c.items[cacheKey] = e
	}
	e.data, e.ref, e.size = byteData, refData, size
	e.storedAt, e.ttl = now, ttl
	c.bytes += int64(size)
	c.sets++
	bc, oc := c.bytes, len(c.items)
	c.mtx.Unlock()

	metrics.ObserveCacheOperation(c.Name, provider, "set", "none", float64(size))
	metrics.ObserveCacheSizeChange(c.Name, provider, bc, int64(oc))
}

// evictOldest removes the entry with the oldest store time. c.mtx must be held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	e := front.Value.(*entry)
	c.removeEntry(e)
	c.evictions++
	c.logger.Debug("memorycache eviction", logging.Pairs{"name": c.Name, "cacheKey": e.key})
	metrics.ObserveCacheEvent(c.Name, provider, "eviction", "max_items")
}

// removeEntry unlinks e. c.mtx must be held.
func (c *Cache) removeEntry(e *entry) {
	c.order.Remove(e.elem)
	delete(c.items, e.key)
	c.bytes -= int64(e.size)
}

// RetrieveReference looks for an object in cache and returns it (or an error if not found)
func (c *Cache) RetrieveReference(cacheKey string) (cache.ReferenceObject,
	status.LookupStatus, error) {
	e, s, err := c.retrieve(cacheKey)
	if err != nil {
		return nil, s, err
	}
	if e.ref == nil {
		return nil, status.LookupStatusError, cache.ErrKNF
	}
	return e.ref, s, nil
}

// RetrieveStaleReference returns the object stored under cacheKey even when it
// has outlived its ttl. An expired entry is returned as a stale hit, counted as
// a miss, and left in place until it is replaced, evicted or reaped.
func (c *Cache) RetrieveStaleReference(cacheKey string) (cache.ReferenceObject,
	status.LookupStatus, error) {
	c.mtx.Lock()
	e, ok := c.items[cacheKey]
	if !ok || e.ref == nil {
		c.misses++
		c.mtx.Unlock()
		metrics.ObserveCacheMiss(c.Name, provider)
		return nil, status.LookupStatusKeyMiss, cache.ErrKNF
	}
	ref, size, fresh := e.ref, e.size, e.fresh(c.now())
	if fresh {
		c.hits++
	} else {
		c.misses++
	}
	c.mtx.Unlock()
	if !fresh {
		metrics.ObserveCacheOperation(c.Name, provider, "get", "stale", float64(size))
		return ref, status.LookupStatusStaleHit, nil
	}
	metrics.ObserveCacheOperation(c.Name, provider, "get", "hit", float64(size))
	return ref, status.LookupStatusHit, nil
}

// Retrieve looks for an object in cache and returns it (or an error if not found)
func (c *Cache) Retrieve(cacheKey string) ([]byte, status.LookupStatus, error) {
	e, s, err := c.retrieve(cacheKey)
	if err != nil {
		return nil, s, err
	}
	return e.data, s, nil
}

func (c *Cache) retrieve(cacheKey string) (entry, status.LookupStatus, error) {
	c.mtx.Lock()
	e, ok := c.items[cacheKey]
	if !ok {
		c.misses++
		c.mtx.Unlock()
		metrics.ObserveCacheMiss(c.Name, provider)
		return entry{}, status.LookupStatusKeyMiss, cache.ErrKNF
	}
	if !e.fresh(c.now()) {
		c.removeEntry(e)
		c.misses++
		bc, oc := c.bytes, len(c.items)
		c.mtx.Unlock()
		metrics.ObserveCacheMiss(c.Name, provider)
		metrics.ObserveCacheEvent(c.Name, provider, "eviction", "ttl")
		metrics.ObserveCacheSizeChange(c.Name, provider, bc, int64(oc))
		return entry{}, status.LookupStatusExpired, cache.ErrKNF
	}
	c.hits++
	out := *e
	c.mtx.Unlock()
	metrics.ObserveCacheOperation(c.Name, provider, "get", "hit", float64(out.size))
	return out, status.LookupStatusHit, nil
}

// Contains returns true if the key is present and fresh. It does not affect
// hit or miss counters.
func (c *Cache) Contains(cacheKey string) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	e, ok := c.items[cacheKey]
	return ok && e.fresh(c.now())
}

// Remove removes the provided keys from the cache. Each key counts as one delete.
func (c *Cache) Remove(cacheKeys ...string) error {
	c.mtx.Lock()
	for _, k := range cacheKeys {
		if e, ok := c.items[k]; ok {
			c.removeEntry(e)
		}
		c.deletes++
	}
	bc, oc := c.bytes, len(c.items)
	c.mtx.Unlock()
	metrics.ObserveCacheDel(c.Name, provider, float64(len(cacheKeys)))
	metrics.ObserveCacheSizeChange(c.Name, provider, bc, int64(oc))
	return nil
}

// Clear empties the cache and resets all counters
func (c *Cache) Clear() {
	c.mtx.Lock()
	c.items = make(map[string]*entry)
	c.order.Init()
	c.bytes = 0
	c.hits, c.misses, c.sets, c.deletes, c.evictions = 0, 0, 0, 0, 0
	c.mtx.Unlock()
	metrics.ObserveCacheSizeChange(c.Name, provider, 0, 0)
}

// Keys returns the keys of all entries, fresh or not, oldest first
func (c *Cache) Keys() []string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	keys := make([]string, 0, len(c.items))
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry).key)
	}
	return keys
}

// Metrics returns a snapshot of the cache counters
func (c *Cache) Metrics() Metrics {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	m := Metrics{
		Hits:      c.hits,
		Misses:    c.misses,
		Sets:      c.sets,
		Deletes:   c.deletes,
		Evictions: c.evictions,
		SizeBytes: c.bytes,
		ItemCount: len(c.items),
	}
	if total := c.hits + c.misses; total > 0 {
		m.HitRate = float64(c.hits) / float64(total)
	}
	return m
}

// Reap removes all entries expired for longer than MaxStale and returns how
// many were removed
func (c *Cache) Reap() int {
	c.mtx.Lock()
	now := c.now()
	var n int
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if e := el.Value.(*entry); !e.retained(now, c.Config.MaxStale) {
			c.removeEntry(e)
			n++
		}
		el = next
	}
	bc, oc := c.bytes, len(c.items)
	c.mtx.Unlock()
	if n > 0 {
		c.logger.Debug("memorycache reaped expired entries", logging.Pairs{"name": c.Name, "count": n})
		metrics.ObserveCacheSizeChange(c.Name, provider, bc, int64(oc))
	}
	return n
}

func (c *Cache) reaper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Reap()
		}
	}
}
