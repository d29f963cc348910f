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

// Package span provides helpers for starting spans around Tether operations
package span

import (
	"context"
	"net/http"

	"github.com/tetherproxy/tether/pkg/observability/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PrepareRequest extracts trace information from the headers of the incoming request.
// It returns a pointer to the incoming request with the request context updated to include
// all span and tracing info. It also returns a span with the name "request" that is meant
// to be a parent span for all child spans of this request.
func PrepareRequest(r *http.Request, tr *tracing.Tracer) (*http.Request, trace.Span) {

	if tr == nil || tr.Tracer == nil {
		return r, nil
	}

	attrs, entries, spanCtx := otelhttptrace.Extract(r.Context(), r)

	r = r.WithContext(baggage.ContextWithBaggage(r.Context(), entries))

	// Zipkin has no process-level tags, so configured tags ride on the span
	if tr.Options != nil && tr.Options.AttachTagsToSpan() {
		attrs = append(attrs, tracing.Tags(tr.Options.Tags).ToAttr()...)
	}

	ctx, span := tr.Start(
		trace.ContextWithRemoteSpanContext(r.Context(), spanCtx),
		"request",
		trace.WithAttributes(attrs...),
	)

	return r.WithContext(ctx), span
}

// NewChildSpan returns the context with a new Span situated as the child of the previous span
func NewChildSpan(ctx context.Context, tr *tracing.Tracer,
	spanName string) (context.Context, trace.Span) {

	if ctx == nil {
		ctx = context.Background()
	}

	if tr == nil || tr.Tracer == nil {
		return ctx, nil
	}

	ctx, span := tr.Start(ctx, spanName)

	if span != nil && tr.Options != nil && tr.Options.AttachTagsToSpan() {
		span.SetAttributes(tracing.Tags(tr.Options.Tags).ToAttr()...)
	}

	return ctx, span
}

// SetAttributes safely sets attributes on a span
func SetAttributes(span trace.Span, kvs ...attribute.KeyValue) {
	if span == nil || len(kvs) == 0 {
		return
	}
	span.SetAttributes(kvs...)
}

// End sets the span status from the http status code and ends it; nil spans are ignored
func End(span trace.Span, httpStatus int) {
	if span == nil {
		return
	}
	if httpStatus > 0 {
		span.SetStatus(tracing.HTTPToCode(httpStatus), "")
		span.SetAttributes(attribute.Int("http.status_code", httpStatus))
	}
	span.End()
}

// Fail records the error on the span and marks it as failed; nil spans are ignored
func Fail(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
