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

package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tetherproxy/tether/pkg/cache"
	"github.com/tetherproxy/tether/pkg/cache/memory/options"
	"github.com/tetherproxy/tether/pkg/cache/status"
)

const cacheName = "test"

type testClock struct {
	mtx sync.Mutex
	t   time.Time
}

func (tc *testClock) now() time.Time {
	tc.mtx.Lock()
	defer tc.mtx.Unlock()
	return tc.t
}

func (tc *testClock) advance(d time.Duration) {
	tc.mtx.Lock()
	tc.t = tc.t.Add(d)
	tc.mtx.Unlock()
}

func newTestCache(maxItems int) (*Cache, *testClock) {
	o := options.New()
	o.MaxItems = maxItems
	o.ReapIntervalMS = 0
	o.MaxStaleMS = 0
	o.Validate()
	c := New(cacheName, o, nil)
	clock := &testClock{t: time.Unix(1700000000, 0)}
	c.now = clock.now
	return c, clock
}

type testReference struct {
	value string
}

func (r *testReference) Size() int {
	return len(r.value)
}

func TestConfiguration(t *testing.T) {
	c, _ := newTestCache(10)
	if c.Config.MaxItems != 10 {
		t.Errorf("expected %d got %d", 10, c.Config.MaxItems)
	}
	if err := c.Connect(); err != nil {
		t.Error(err)
	}
	if err := c.Close(); err != nil {
		t.Error(err)
	}
	// closing twice must not panic
	c.Close()
}

func TestStoreAndRetrieveFresh(t *testing.T) {
	c, clock := newTestCache(10)

	if err := c.Store("k", []byte("v"), time.Second); err != nil {
		t.Fatal(err)
	}
	clock.advance(999 * time.Millisecond)
	data, ls, err := c.Retrieve("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v" {
		t.Errorf("expected %s got %s", "v", string(data))
	}
	if ls != status.LookupStatusHit {
		t.Errorf("expected %s got %s", status.LookupStatusHit, ls)
	}
	m := c.Metrics()
	if m.Hits != 1 || m.Misses != 0 || m.Sets != 1 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestRetrieveExpired(t *testing.T) {
	c, clock := newTestCache(10)

	c.Store("k", []byte("v"), time.Second)
	clock.advance(1001 * time.Millisecond)

	_, ls, err := c.Retrieve("k")
	if !errors.Is(err, cache.ErrKNF) {
		t.Errorf("expected %v got %v", cache.ErrKNF, err)
	}
	if ls != status.LookupStatusExpired {
		t.Errorf("expected %s got %s", status.LookupStatusExpired, ls)
	}
	m := c.Metrics()
	if m.Misses != 1 {
		t.Errorf("expected %d got %d", 1, m.Misses)
	}
	if m.ItemCount != 0 {
		t.Errorf("expected %d got %d", 0, m.ItemCount)
	}
}

func TestRetrieveKeyMiss(t *testing.T) {
	c, _ := newTestCache(10)
	_, ls, err := c.Retrieve("missing")
	if err != cache.ErrKNF {
		t.Errorf("expected %v got %v", cache.ErrKNF, err)
	}
	if ls != status.LookupStatusKeyMiss {
		t.Errorf("expected %s got %s", status.LookupStatusKeyMiss, ls)
	}
	if c.Metrics().Misses != 1 {
		t.Errorf("expected %d got %d", 1, c.Metrics().Misses)
	}
}

func TestEvictOldest(t *testing.T) {
	c, clock := newTestCache(2)

	for _, k := range []string{"a", "b", "c"} {
		c.Store(k, []byte(k), time.Minute)
		clock.advance(time.Millisecond)
	}

	m := c.Metrics()
	if m.Evictions != 1 {
		t.Errorf("expected %d got %d", 1, m.Evictions)
	}
	if m.ItemCount != 2 {
		t.Errorf("expected %d got %d", 2, m.ItemCount)
	}
	if c.Contains("a") {
		t.Error("expected a to be evicted")
	}
	if !c.Contains("b") || !c.Contains("c") {
		t.Error("expected b and c to remain")
	}
}

func TestRestoreDoesNotEvict(t *testing.T) {
	c, clock := newTestCache(2)
	c.Store("a", []byte("1"), time.Minute)
	clock.advance(time.Millisecond)
	c.Store("b", []byte("2"), time.Minute)
	clock.advance(time.Millisecond)

	// replacing an existing key at capacity must not evict
	c.Store("a", []byte("3"), time.Minute)
	if c.Metrics().Evictions != 0 {
		t.Errorf("expected %d got %d", 0, c.Metrics().Evictions)
	}

	// a was re-stored most recently, so b is now the oldest
	clock.advance(time.Millisecond)
	c.Store("c", []byte("4"), time.Minute)
	if c.Contains("b") {
		t.Error("expected b to be evicted")
	}
	if !c.Contains("a") {
		t.Error("expected a to remain")
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Errorf("unexpected key order %v", keys)
	}
}

func TestRemove(t *testing.T) {
	c, _ := newTestCache(10)
	c.Store("a", []byte("abc"), time.Minute)
	c.Store("b", []byte("de"), time.Minute)

	c.Remove("a", "missing")
	m := c.Metrics()
	if m.Deletes != 2 {
		t.Errorf("expected %d got %d", 2, m.Deletes)
	}
	if m.ItemCount != 1 {
		t.Errorf("expected %d got %d", 1, m.ItemCount)
	}
	if m.SizeBytes != 2 {
		t.Errorf("expected %d got %d", 2, m.SizeBytes)
	}
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(10)
	c.Store("a", []byte("abc"), time.Minute)
	c.Retrieve("a")
	c.Retrieve("b")
	c.Remove("a")

	c.Clear()
	m := c.Metrics()
	if m != (Metrics{}) {
		t.Errorf("expected zeroed metrics, got %+v", m)
	}
}

func TestHitRate(t *testing.T) {
	c, _ := newTestCache(10)
	c.Store("a", []byte("abc"), time.Minute)
	c.Retrieve("a")
	c.Retrieve("a")
	c.Retrieve("a")
	c.Retrieve("b")
	if hr := c.Metrics().HitRate; hr != 0.75 {
		t.Errorf("expected %f got %f", 0.75, hr)
	}
}

func TestContainsDoesNotCount(t *testing.T) {
	c, clock := newTestCache(10)
	c.Store("a", []byte("abc"), time.Second)
	if !c.Contains("a") {
		t.Error("expected true")
	}
	clock.advance(2 * time.Second)
	if c.Contains("a") {
		t.Error("expected false for expired entry")
	}
	if c.Contains("b") {
		t.Error("expected false for missing entry")
	}
	m := c.Metrics()
	if m.Hits != 0 || m.Misses != 0 {
		t.Errorf("expected untouched counters, got %+v", m)
	}
}

func TestStoreReference(t *testing.T) {
	c, _ := newTestCache(10)
	if err := c.StoreReference("ref", nil, time.Minute); err != cache.ErrNilReference {
		t.Errorf("expected %v got %v", cache.ErrNilReference, err)
	}
	c.StoreReference("ref", &testReference{value: "hello"}, time.Minute)
	ro, ls, err := c.RetrieveReference("ref")
	if err != nil {
		t.Fatal(err)
	}
	if ls != status.LookupStatusHit {
		t.Errorf("expected %s got %s", status.LookupStatusHit, ls)
	}
	if ro.(*testReference).value != "hello" {
		t.Error("unexpected reference value")
	}
	if c.Metrics().SizeBytes != 5 {
		t.Errorf("expected %d got %d", 5, c.Metrics().SizeBytes)
	}

	c.Store("bytes", []byte("x"), time.Minute)
	if _, _, err = c.RetrieveReference("bytes"); err != cache.ErrKNF {
		t.Errorf("expected %v got %v", cache.ErrKNF, err)
	}
}

func TestDefaultTTL(t *testing.T) {
	c, clock := newTestCache(10)
	c.Store("a", []byte("abc"), 0)
	clock.advance(c.Config.DefaultTTL)
	if !c.Contains("a") {
		t.Error("expected entry to be fresh at exactly its ttl")
	}
	clock.advance(time.Millisecond)
	if c.Contains("a") {
		t.Error("expected entry to be expired")
	}
}

func TestReap(t *testing.T) {
	c, clock := newTestCache(10)
	c.Store("a", []byte("abc"), time.Second)
	c.Store("b", []byte("abc"), time.Minute)
	clock.advance(2 * time.Second)
	if n := c.Reap(); n != 1 {
		t.Errorf("expected %d got %d", 1, n)
	}
	if c.Metrics().ItemCount != 1 {
		t.Errorf("expected %d got %d", 1, c.Metrics().ItemCount)
	}
}

func TestReaperLoop(t *testing.T) {
	o := options.New()
	o.ReapIntervalMS = 10
	o.MaxStaleMS = 0
	o.Validate()
	c := New(cacheName, o, nil)
	c.Connect()
	defer c.Close()
	c.Store("a", []byte("abc"), time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Metrics().ItemCount == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("expected reaper to remove the expired entry")
}

func TestConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				k := string(rune('a' + (i+j)%26))
				c.Store(k, []byte(k), time.Minute)
				c.Retrieve(k)
				if j%10 == 0 {
					c.Remove(k)
				}
			}
		}(i)
	}
	wg.Wait()
	m := c.Metrics()
	if m.Sets != 8*200 {
		t.Errorf("expected %d got %d", 8*200, m.Sets)
	}
	if m.ItemCount > 50 {
		t.Errorf("expected at most %d items, got %d", 50, m.ItemCount)
	}
}

func TestRetrieveStaleReference(t *testing.T) {
	c, clock := newTestCache(10)
	c.StoreReference("ref", &testReference{value: "v1"}, time.Second)

	ro, ls, err := c.RetrieveStaleReference("ref")
	if err != nil {
		t.Fatal(err)
	}
	if ls != status.LookupStatusHit {
		t.Errorf("expected %s got %s", status.LookupStatusHit, ls)
	}

	clock.advance(time.Hour)
	ro, ls, err = c.RetrieveStaleReference("ref")
	if err != nil {
		t.Fatal(err)
	}
	if ls != status.LookupStatusStaleHit {
		t.Errorf("expected %s got %s", status.LookupStatusStaleHit, ls)
	}
	if ro.(*testReference).value != "v1" {
		t.Error("unexpected reference value")
	}
	// a stale read leaves the entry in place
	if _, ls, _ = c.RetrieveStaleReference("ref"); ls != status.LookupStatusStaleHit {
		t.Errorf("expected %s got %s", status.LookupStatusStaleHit, ls)
	}
	m := c.Metrics()
	if m.Hits != 1 || m.Misses != 2 || m.ItemCount != 1 {
		t.Errorf("unexpected metrics %+v", m)
	}

	// replacing the entry makes it fresh again
	c.StoreReference("ref", &testReference{value: "v2"}, time.Second)
	ro, ls, _ = c.RetrieveStaleReference("ref")
	if ls != status.LookupStatusHit || ro.(*testReference).value != "v2" {
		t.Errorf("expected fresh v2, got %s", ls)
	}

	if _, ls, err = c.RetrieveStaleReference("missing"); err != cache.ErrKNF {
		t.Errorf("expected %v got %v", cache.ErrKNF, err)
	}
	if ls != status.LookupStatusKeyMiss {
		t.Errorf("expected %s got %s", status.LookupStatusKeyMiss, ls)
	}

	// byte entries are not references
	c.Store("bytes", []byte("x"), time.Minute)
	if _, _, err = c.RetrieveStaleReference("bytes"); err != cache.ErrKNF {
		t.Errorf("expected %v got %v", cache.ErrKNF, err)
	}
}

func TestReapKeepsStaleWithinMaxStale(t *testing.T) {
	c, clock := newTestCache(10)
	c.Config.MaxStale = time.Minute
	c.StoreReference("ref", &testReference{value: "v1"}, time.Second)

	clock.advance(30 * time.Second)
	if n := c.Reap(); n != 0 {
		t.Errorf("expected %d got %d", 0, n)
	}
	if _, ls, _ := c.RetrieveStaleReference("ref"); ls != status.LookupStatusStaleHit {
		t.Errorf("expected %s got %s", status.LookupStatusStaleHit, ls)
	}

	clock.advance(time.Minute)
	if n := c.Reap(); n != 1 {
		t.Errorf("expected %d got %d", 1, n)
	}
}
