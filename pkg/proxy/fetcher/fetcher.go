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

// Package fetcher reaches the origin on behalf of the strategies, the mutation
// queue and the cache warmer
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/tracing"
	"github.com/tetherproxy/tether/pkg/observability/tracing/span"
	"github.com/tetherproxy/tether/pkg/proxy"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher/options"
	"github.com/tetherproxy/tether/pkg/proxy/headers"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/otel/attribute"
)

// ErrNotOriginRelative is returned for a queued or warmed URL that names its own
// scheme or host. Every request goes to the configured origin, so only paths are accepted.
var ErrNotOriginRelative = errors.New("url must be a path relative to the origin")

// ValidatePath checks that raw is an origin-relative path such as /api/feed?page=2
func ValidatePath(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return fmt.Errorf("%w: %q", ErrNotOriginRelative, raw)
	}
	return nil
}

// Fetcher sends a request to the origin. Implementations return
// *errors.NetworkError or *errors.TimeoutError when no response was received;
// any response that was received is returned with a nil error regardless of status.
type Fetcher interface {
	Fetch(ctx context.Context, r *http.Request) (*http.Response, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, r *http.Request) (*http.Response, error)

// Fetch calls f(ctx, r)
func (f FetcherFunc) Fetch(ctx context.Context, r *http.Request) (*http.Response, error) {
	return f(ctx, r)
}

// HTTPFetcher is a Fetcher that rewrites requests onto the configured origin
type HTTPFetcher struct {
	options *options.Options
	client  *http.Client
	tracer  *tracing.Tracer
	logger  *logging.Logger
}

// New returns an HTTPFetcher for the validated origin options
func New(o *options.Options, tr *tracing.Tracer, logger *logging.Logger) (*HTTPFetcher, error) {
	client, err := proxy.NewHTTPClient(o)
	if err != nil {
		return nil, err
	}
	return NewWithClient(o, client, tr, logger), nil
}

// NewWithClient returns an HTTPFetcher that uses the provided client
func NewWithClient(o *options.Options, client *http.Client, tr *tracing.Tracer,
	logger *logging.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &HTTPFetcher{options: o, client: client, tracer: tr, logger: logger}
}

// OriginURL returns the origin URL for the provided request URL
func (f *HTTPFetcher) OriginURL(u *url.URL) *url.URL {
	base := f.options.ParsedURL
	out := &url.URL{
		Scheme:   base.Scheme,
		Host:     base.Host,
		User:     base.User,
		Path:     base.Path + u.Path,
		RawQuery: u.RawQuery,
	}
	if u.RawPath != "" {
		out.RawPath = base.Path + u.RawPath
	}
	return out
}

// Fetch sends r to the origin
func (f *HTTPFetcher) Fetch(ctx context.Context, r *http.Request) (*http.Response, error) {
	if ctx == nil {
		ctx = r.Context()
	}
	ctx, sp := span.NewChildSpan(ctx, f.tracer, "OriginFetch")

	outreq := r.Clone(ctx)
	outreq.URL = f.OriginURL(r.URL)
	outreq.Host = ""
	outreq.RequestURI = ""
	outreq.Close = false
	if outreq.Header == nil {
		outreq.Header = make(http.Header)
	}
	headers.RemoveClientHeaders(outreq.Header)
	if r.RemoteAddr != "" {
		headers.AddForwardingHeaders(r, outreq)
	}
	headers.UpdateHeaders(outreq.Header, f.options.RequestHeaders)

	span.SetAttributes(sp, attribute.String("http.method", outreq.Method),
		attribute.String("http.url", outreq.URL.String()))
	if sp != nil {
		otelhttptrace.Inject(ctx, outreq)
	}

	resp, err := f.client.Do(outreq)
	if err != nil {
		err = f.classify(ctx, outreq.URL.String(), err)
		f.logger.Debug("origin fetch failed", logging.Pairs{"url": outreq.URL.String(),
			"method": outreq.Method, "detail": err.Error()})
		span.Fail(sp, err)
		span.End(sp, 0)
		return nil, err
	}
	span.End(sp, resp.StatusCode)
	return resp, nil
}

func (f *HTTPFetcher) classify(ctx context.Context, u string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &ne) && ne.Timeout()) {
		return terr.NewTimeoutError(u, f.options.Timeout)
	}
	return terr.NewNetworkError(u, err)
}

// ReadBody reads and closes the response body
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// IsSuccess returns true when a fetch produced a response with a status below 500
func IsSuccess(resp *http.Response, err error) bool {
	return err == nil && resp != nil && resp.StatusCode < http.StatusInternalServerError
}
