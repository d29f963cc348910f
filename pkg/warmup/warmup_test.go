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
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cmem "github.com/tetherproxy/tether/pkg/cache/memory"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/priority"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher"
	smem "github.com/tetherproxy/tether/pkg/storage/memory"
	"github.com/tetherproxy/tether/pkg/warmup/options"

	"github.com/stretchr/testify/require"
)

// origin is a Fetcher that answers with the request path as the body
type origin struct {
	mtx      sync.Mutex
	calls    map[string]int
	statuses map[string]int
	delay    time.Duration
	inflight int32
	peak     int32
}

func newOrigin() *origin {
	return &origin{calls: make(map[string]int), statuses: make(map[string]int)}
}

func (o *origin) Fetch(ctx context.Context, r *http.Request) (*http.Response, error) {
	n := atomic.AddInt32(&o.inflight, 1)
	defer atomic.AddInt32(&o.inflight, -1)
	for {
		p := atomic.LoadInt32(&o.peak)
		if n <= p || atomic.CompareAndSwapInt32(&o.peak, p, n) {
			break
		}
	}
	if o.delay > 0 {
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			return nil, terr.NewTimeoutError(r.URL.String(), o.delay)
		}
	}
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.calls[r.URL.Path]++
	status := o.statuses[r.URL.Path]
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{StatusCode: status,
		Body: readCloser{strings.NewReader(r.URL.Path)}}, nil
}

func (o *origin) count(path string) int {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.calls[path]
}

type readCloser struct {
	*strings.Reader
}

func (readCloser) Close() error { return nil }

func newOptions(t *testing.T, mod func(*options.Options)) *options.Options {
	t.Helper()
	o := options.New()
	if mod != nil {
		mod(o)
	}
	require.NoError(t, o.Validate())
	return o
}

func newWarmer(t *testing.T, o *options.Options, f fetcher.Fetcher) (*Warmer, *cmem.Cache) {
	t.Helper()
	c := cmem.New("test", nil, nil)
	w, err := New(o, c, smem.New("test"), f, nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w, c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, nil, nil, newOrigin(), nil); err != terr.ErrNilCache {
		t.Errorf("expected %v got %v", terr.ErrNilCache, err)
	}
	if _, err := New(nil, cmem.New("test", nil, nil), nil, nil, nil); err != terr.ErrNilFetcher {
		t.Errorf("expected %v got %v", terr.ErrNilFetcher, err)
	}
	w, err := New(nil, cmem.New("test", nil, nil), nil, newOrigin(), nil)
	require.NoError(t, err)
	if w.Options().BatchSize != options.DefaultBatchSize {
		t.Errorf("expected %d got %d", options.DefaultBatchSize, w.Options().BatchSize)
	}
	if err = w.Enqueue("", "/x"); err != ErrInvalidItem {
		t.Errorf("expected %v got %v", ErrInvalidItem, err)
	}
	if err = w.Enqueue("x", "https://other.example.com/x"); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("expected %v got %v", ErrInvalidItem, err)
	}
	if w.Pending() != 0 {
		t.Errorf("expected %d got %d", 0, w.Pending())
	}
}

func TestEnqueueOrder(t *testing.T) {
	w, _ := newWarmer(t, newOptions(t, nil), newOrigin())
	w.Enqueue("a", "/a", WithPriority(priority.Low))
	w.Enqueue("b", "/b")
	w.Enqueue("c", "/c", WithPriority(priority.High))
	w.Enqueue("d", "/d", WithPriority(priority.Normal))
	w.Enqueue("e", "/e", WithPriority(priority.High))
	w.Enqueue("b", "/b2")

	items := w.Items()
	var got []string
	for _, it := range items {
		got = append(got, it.Key)
	}
	require.Equal(t, []string{"c", "e", "b", "d", "a"}, got)
	if items[2].URL != "/b" {
		t.Errorf("expected %s got %s", "/b", items[2].URL)
	}
}

func TestDependencyGating(t *testing.T) {
	f := newOrigin()
	w, c := newWarmer(t, newOptions(t, nil), f)

	require.NoError(t, w.Enqueue("feed", "/api/feed", WithDependencies("user")))
	if n := w.Warmup(context.Background()); n != 0 {
		t.Errorf("expected %d got %d", 0, n)
	}
	if f.count("/api/feed") != 0 {
		t.Error("expected gated item not to be fetched")
	}
	if w.Pending() != 0 {
		t.Errorf("expected skipped item to be dropped, got %d pending", w.Pending())
	}

	c.Store("user", []byte("u"), time.Minute)
	w.Enqueue("feed", "/api/feed", WithDependencies("user"))
	if n := w.Warmup(context.Background()); n != 1 {
		t.Errorf("expected %d got %d", 1, n)
	}
	if f.count("/api/feed") != 1 {
		t.Errorf("expected %d got %d", 1, f.count("/api/feed"))
	}
	data, ok := w.GetWarmedData("feed")
	require.True(t, ok)
	require.Equal(t, "/api/feed", string(data))
}

func TestWarmedKeySatisfiesDependency(t *testing.T) {
	f := newOrigin()
	w, _ := newWarmer(t, newOptions(t, nil), f)
	w.Enqueue("user", "/api/user", WithPriority(priority.High))
	w.Enqueue("feed", "/api/feed", WithDependencies("user"))
	// user is warmed in an earlier batch than feed
	w.options.BatchSize = 1
	if n := w.Warmup(context.Background()); n != 2 {
		t.Errorf("expected %d got %d", 2, n)
	}
}

func TestDependencyInSameBatch(t *testing.T) {
	f := newOrigin()
	f.delay = 30 * time.Millisecond
	w, c := newWarmer(t, newOptions(t, func(o *options.Options) { o.BatchSize = 3 }), f)
	w.Enqueue("user", "/api/user", WithPriority(priority.High))
	w.Enqueue("feed", "/api/feed", WithDependencies("user"))
	w.Enqueue("other", "/api/other")
	if n := w.Warmup(context.Background()); n != 3 {
		t.Errorf("expected %d got %d", 3, n)
	}
	if !c.Contains(Key("feed")) {
		t.Error("expected feed to be warmed after user")
	}
	// a failed dependency still gates the item
	f.statuses["/api/user2"] = http.StatusInternalServerError
	w.Enqueue("user2", "/api/user2", WithPriority(priority.High))
	w.Enqueue("feed2", "/api/feed2", WithDependencies("user2"))
	w.Warmup(context.Background())
	if f.count("/api/feed2") != 0 {
		t.Error("expected feed2 not to be fetched")
	}
}

func TestBatchConcurrency(t *testing.T) {
	f := newOrigin()
	f.delay = 20 * time.Millisecond
	w, _ := newWarmer(t, newOptions(t, func(o *options.Options) { o.BatchSize = 2 }), f)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		w.Enqueue(k, "/"+k)
	}
	if n := w.Warmup(context.Background()); n != 5 {
		t.Errorf("expected %d got %d", 5, n)
	}
	if p := atomic.LoadInt32(&f.peak); p > 2 {
		t.Errorf("expected at most %d concurrent fetches, got %d", 2, p)
	}
}

func TestHighPriorityRetriedOnce(t *testing.T) {
	f := newOrigin()
	f.statuses["/high"] = http.StatusInternalServerError
	f.statuses["/normal"] = http.StatusInternalServerError
	w, _ := newWarmer(t, newOptions(t, func(o *options.Options) { o.RetryDelayMS = 20 }), f)

	w.Enqueue("high", "/high", WithPriority(priority.High))
	w.Enqueue("normal", "/normal")
	if n := w.Warmup(context.Background()); n != 0 {
		t.Errorf("expected %d got %d", 0, n)
	}
	waitFor(t, func() bool { return f.count("/high") == 2 })
	time.Sleep(100 * time.Millisecond)
	if c := f.count("/high"); c != 2 {
		t.Errorf("expected %d got %d", 2, c)
	}
	if c := f.count("/normal"); c != 1 {
		t.Errorf("expected %d got %d", 1, c)
	}
	if _, ok := w.GetWarmedData("high"); ok {
		t.Error("expected no warmed data")
	}
}

func TestFetchTimeout(t *testing.T) {
	f := newOrigin()
	f.delay = 5 * time.Second
	w, _ := newWarmer(t, newOptions(t, func(o *options.Options) { o.TimeoutMS = 20 }), f)
	w.Enqueue("slow", "/slow")
	start := time.Now()
	if n := w.Warmup(context.Background()); n != 0 {
		t.Errorf("expected %d got %d", 0, n)
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("expected the fetch to be abandoned, took %s", d)
	}
}

func TestWarmupNoopWhileRunning(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	f := fetcher.FetcherFunc(func(ctx context.Context, r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	w, _ := newWarmer(t, newOptions(t, nil), f)
	if n := w.Warmup(context.Background()); n != 0 {
		t.Errorf("expected empty queue to be a no-op, got %d", n)
	}
	w.Enqueue("a", "/a")

	done := make(chan int)
	go func() { done <- w.Warmup(context.Background()) }()
	waitFor(t, func() bool { return atomic.LoadInt32(&calls) == 1 })
	require.True(t, w.Running())

	w.Enqueue("b", "/b")
	if n := w.Warmup(context.Background()); n != 0 {
		t.Errorf("expected %d got %d", 0, n)
	}
	close(release)
	if n := <-done; n != 2 {
		t.Errorf("expected %d got %d", 2, n)
	}
}

func TestGetWarmedDataFromStore(t *testing.T) {
	f := newOrigin()
	o := newOptions(t, nil)
	store := smem.New("test")
	w, err := New(o, cmem.New("a", nil, nil), store, f, nil)
	require.NoError(t, err)
	defer w.Close()
	w.Enqueue("user", "/api/user")
	w.Warmup(context.Background())

	// a new process starts with an empty cache
	c2 := cmem.New("b", nil, nil)
	w2, err := New(o, c2, store, f, nil)
	require.NoError(t, err)
	defer w2.Close()
	data, ok := w2.GetWarmedData("user")
	require.True(t, ok)
	require.Equal(t, "/api/user", string(data))
	if !c2.Contains(Key("user")) {
		t.Error("expected persisted data to be restored into the cache")
	}

	w3, err := New(o, cmem.New("c", nil, nil), store, f, nil)
	require.NoError(t, err)
	defer w3.Close()
	w3.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	if _, ok = w3.GetWarmedData("user"); ok {
		t.Error("expected expired data to be ignored")
	}
	if _, err = store.GetItem(Key("user")); err == nil {
		t.Error("expected expired data to be removed from the store")
	}
}

func TestStartConfiguredItems(t *testing.T) {
	f := newOrigin()
	o := newOptions(t, func(o *options.Options) {
		o.Items = []*options.ItemOptions{
			{Key: "user", URL: "/api/user", Priority: "high"},
			{Key: "feed", URL: "/api/feed", Dependencies: []string{"user"}},
		}
		o.BatchSize = 1
	})
	w, _ := newWarmer(t, o, f)
	w.Start()
	waitFor(t, func() bool {
		_, ok := w.GetWarmedData("feed")
		return ok
	})
	w.Close()
	if err := w.Enqueue("x", "/x"); err != ErrClosed {
		t.Errorf("expected %v got %v", ErrClosed, err)
	}
}
