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

// Package engines provides the strategy executors that answer proxied
// requests from the cache, the origin, or both
package engines

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/tetherproxy/tether/pkg/backgroundsync"
	bso "github.com/tetherproxy/tether/pkg/backgroundsync/options"
	"github.com/tetherproxy/tether/pkg/cache"
	"github.com/tetherproxy/tether/pkg/cache/status"
	"github.com/tetherproxy/tether/pkg/connectivity"
	"github.com/tetherproxy/tether/pkg/encoding"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
	"github.com/tetherproxy/tether/pkg/observability/tracing"
	"github.com/tetherproxy/tether/pkg/observability/tracing/span"
	"github.com/tetherproxy/tether/pkg/proxy/classifier"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher"
	"github.com/tetherproxy/tether/pkg/proxy/headers"
	"github.com/tetherproxy/tether/pkg/proxy/strategy"
	"github.com/tetherproxy/tether/pkg/proxy/strategy/options"
	"github.com/tetherproxy/tether/pkg/storage"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	engineMutation    = "mutation"
	enginePassThrough = "pass-through"
)

// Queue accepts mutations that could not reach the origin
type Queue interface {
	Enqueue(kind backgroundsync.Kind, endpoint string, payload json.RawMessage,
		opts ...backgroundsync.Option) (string, error)
	Options() *bso.Options
}

// Versioner reports the active cache version
type Versioner interface {
	Active() string
}

// Engine serves requests using the strategy chosen by its Classifier. It
// implements both http.RoundTripper and http.Handler.
type Engine struct {
	options    *options.Options
	classifier *classifier.Classifier
	cache      cache.MemoryCache
	store      storage.Store
	fetcher    fetcher.Fetcher
	queue      Queue
	observer   connectivity.Observer
	versions   Versioner
	codec      encoding.Provider
	tracer     *tracing.Tracer
	logger     *logging.Logger
	now        func() time.Time

	// group collapses concurrent origin fetches for the same cache key
	group singleflight.Group

	mtx    sync.Mutex
	closed bool
	wg     sync.WaitGroup
	// ctx outlives client requests so background refreshes can complete
	ctx    context.Context
	cancel context.CancelFunc
}

var (
	_ http.RoundTripper = &Engine{}
	_ http.Handler      = &Engine{}
)

// Option configures optional Engine collaborators
type Option func(*Engine)

// WithStore enables reading and writing persisted responses
func WithStore(s storage.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithQueue enables queueing of mutations that fail while offline
func WithQueue(q Queue) Option {
	return func(e *Engine) { e.queue = q }
}

// WithObserver provides the connectivity state used for mutations
func WithObserver(o connectivity.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithVersions namespaces cache keys by the active cache version
func WithVersions(v Versioner) Option {
	return func(e *Engine) { e.versions = v }
}

// WithTracer sets the tracer used for strategy spans
func WithTracer(tr *tracing.Tracer) Option {
	return func(e *Engine) { e.tracer = tr }
}

// WithLogger sets the Engine's logger
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine for the validated strategy options
func New(o *options.Options, c cache.MemoryCache, f fetcher.Fetcher, opts ...Option) (*Engine, error) {
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
	codec, err := encoding.Parse(o.Compression)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		options:    o,
		classifier: classifier.New(o.Rules),
		cache:      c,
		fetcher:    f,
		codec:      codec,
		logger:     logging.NoopLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e, nil
}

// Options returns the Engine's strategy options
func (e *Engine) Options() *options.Options {
	return e.options
}

// Classifier returns the Engine's request classifier
func (e *Engine) Classifier() *classifier.Classifier {
	return e.classifier
}

func (e *Engine) version() string {
	if e.versions == nil {
		return ""
	}
	return e.versions.Active()
}

// Key returns the cache key of r under the active cache version
func (e *Engine) Key(r *http.Request) string {
	return DeriveCacheKey(e.version(), r)
}

// RoundTrip serves r with its strategy. It always returns a non-nil response
// and a nil error; failures are expressed as offline responses.
func (e *Engine) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx, sp := span.NewChildSpan(r.Context(), e.tracer, "Strategy")
	if sp != nil {
		r = r.WithContext(ctx)
	}
	logDownstreamRequest(e.logger, r)

	var d *Document
	var ls status.LookupStatus
	var engine, queuedID string

	switch {
	case headers.IsMutation(r.Method):
		engine = engineMutation
		d, ls, queuedID = e.mutate(r)
	case r.Method != http.MethodGet:
		engine = enginePassThrough
		d, ls = e.passThrough(r)
	default:
		s := e.classifier.Classify(r)
		engine = s.String()
		switch s {
		case strategy.CacheFirst:
			d, ls = e.cacheFirst(r)
		case strategy.NetworkFirst:
			d, ls = e.networkFirst(r)
		case strategy.NavigationWithTimeout:
			d, ls = e.navigate(r)
		default:
			d, ls = e.staleWhileRevalidate(r)
		}
	}

	resp := d.Response(r)
	if queuedID != "" {
		headers.SetQueuedResultsHeader(resp.Header, engine, ls.String(), queuedID)
	} else {
		headers.SetResultsHeader(resp.Header, engine, ls.String())
	}
	recordResults(r, engine, ls, resp.StatusCode, time.Since(start).Seconds())
	span.SetAttributes(sp, attribute.String("strategy", engine),
		attribute.String("cache.status", ls.String()))
	span.End(sp, resp.StatusCode)
	return resp, nil
}

// ServeHTTP serves r with its strategy and writes the response to w
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r, sp := span.PrepareRequest(r, e.tracer)
	resp, _ := e.RoundTrip(r)
	defer resp.Body.Close()
	h := w.Header()
	for k, v := range resp.Header {
		h[k] = v
	}
	headers.AddResponseHeaders(h)
	w.WriteHeader(resp.StatusCode)
	if r.Method != http.MethodHead {
		io.Copy(w, resp.Body)
	}
	span.End(sp, resp.StatusCode)
}

// fetch sends r to the origin and buffers the response into a Document
func (e *Engine) fetch(ctx context.Context, r *http.Request, engine string) (*Document, error) {
	start := time.Now()
	resp, err := e.fetcher.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	body, err := fetcher.ReadBody(resp)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, terr.NewTimeoutError(r.URL.String(), 0)
		}
		return nil, terr.NewNetworkError(r.URL.String(), err)
	}
	d := DocumentFromHTTPResponse(resp, body, r.URL.RequestURI())
	logUpstreamRequest(e.logger, engine, r.Method, r.URL.RequestURI(), d.StatusCode,
		len(body), time.Since(start).Seconds())
	return d, nil
}

// detach returns a copy of r bound to the Engine's context, keeping the
// caller's span as parent
func (e *Engine) detach(r *http.Request) *http.Request {
	ctx := trace.ContextWithSpan(e.ctx, trace.SpanFromContext(r.Context()))
	return r.Clone(ctx)
}

// fetchShared fetches r, collapsing concurrent fetches for key, and writes
// a cacheable response to the cache
func (e *Engine) fetchShared(r *http.Request, key, engine string) (*Document, error, bool) {
	req := e.detach(r)
	v, err, shared := e.group.Do(key, func() (interface{}, error) {
		d, err := e.fetch(req.Context(), req, engine)
		if err != nil {
			return nil, err
		}
		if e.cacheable(req, d) {
			e.writeCache(key, d)
		}
		return d, nil
	})
	if err != nil {
		return nil, err, shared
	}
	return v.(*Document), nil, shared
}

// refresh revalidates key against the origin in the background. The caller never waits on it.
func (e *Engine) refresh(r *http.Request, key, engine string) {
	e.mtx.Lock()
	if e.closed {
		e.mtx.Unlock()
		return
	}
	e.wg.Add(1)
	e.mtx.Unlock()
	go func() {
		defer e.wg.Done()
		d, err, shared := e.fetchShared(r, key, engine)
		rs := RevalStatusOK
		switch {
		case err != nil:
			rs = RevalStatusFailed
		case !e.cacheable(r, d):
			rs = RevalStatusUncacheable
		}
		pairs := logging.Pairs{"strategy": engine, "cacheKey": key,
			"status": rs.String(), "shared": shared}
		if err != nil {
			pairs["detail"] = err.Error()
		}
		e.logger.Debug("background refresh", pairs)
	}()
}

// cacheable returns true for successful GET responses that permit storage
func (e *Engine) cacheable(r *http.Request, d *Document) bool {
	if r.Method != http.MethodGet || d == nil || d.StatusCode < 200 || d.StatusCode > 299 {
		return false
	}
	return !headers.HasValue(http.Header(d.Headers), headers.NameCacheControl, headers.ValueNoStore)
}

func proxyStatus(d *Document) status.LookupStatus {
	if d.StatusCode >= http.StatusInternalServerError {
		return status.LookupStatusProxyError
	}
	return status.LookupStatusProxyOnly
}

// Close stops accepting background refreshes and waits for running ones to finish
func (e *Engine) Close() error {
	e.mtx.Lock()
	if e.closed {
		e.mtx.Unlock()
		return nil
	}
	e.closed = true
	e.mtx.Unlock()
	e.cancel()
	e.wg.Wait()
	return nil
}

func recordResults(r *http.Request, engine string, cacheStatus status.LookupStatus,
	statusCode int, elapsed float64) {
	httpStatus := strconv.Itoa(statusCode)
	metrics.ProxyRequestStatus.WithLabelValues(engine, r.Method, cacheStatus.String(), httpStatus).Inc()
	if elapsed > 0 {
		metrics.ProxyRequestDuration.WithLabelValues(engine, r.Method,
			cacheStatus.String(), httpStatus).Observe(elapsed)
	}
}
