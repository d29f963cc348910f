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

package span

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/tetherproxy/tether/pkg/observability/tracing/exporters/stdout"
	"github.com/tetherproxy/tether/pkg/observability/tracing/options"

	"go.opentelemetry.io/otel/attribute"
)

func TestNewChildSpan(t *testing.T) {

	// test with nil tracer
	_, span := NewChildSpan(context.Background(), nil, "test")
	if span != nil {
		t.Error("expected nil span")
	}

	buf := &bytes.Buffer{}
	opts := options.New()
	opts.Provider = "zipkin"
	opts.Tags = map[string]string{"testTagName": "testTagValue"}
	tr, err := stdout.NewWithWriter(opts, buf)
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := NewChildSpan(context.Background(), tr, "test")
	if ctx == nil {
		t.Error("expected non-nil context")
	}
	if span == nil {
		t.Fatal("expected non-nil span")
	}
	SetAttributes(span, attribute.String("k", "v"))
	Fail(span, errors.New("test error"))
	End(span, 503)

	if !bytes.Contains(buf.Bytes(), []byte("testTagValue")) {
		t.Error("expected tag in exported span")
	}
}

func TestPrepareRequest(t *testing.T) {

	r, _ := http.NewRequest("GET", "http://example.com", nil)

	_, sp := PrepareRequest(r, nil)
	if sp != nil {
		t.Error("expected nil")
	}

	tr, _ := stdout.NewWithWriter(nil, &bytes.Buffer{})
	r.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r2, sp := PrepareRequest(r, tr)
	if sp == nil {
		t.Fatal("expected non-nil span")
	}
	if got := sp.SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected remote trace id, got %s", got)
	}
	if r2 == r {
		t.Error("expected request with updated context")
	}
	End(sp, 200)
}
