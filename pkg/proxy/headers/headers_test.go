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

package headers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUpdateHeaders(t *testing.T) {
	h := http.Header{"Foo": {"foo"}, "Bar": {"bar"}}
	UpdateHeaders(h, map[string]string{"-Foo": "", "+Bar": "bar2", "Baz": "baz", "": "x"})
	if _, ok := h["Foo"]; ok {
		t.Error("expected Foo to be removed")
	}
	if len(h["Bar"]) != 2 {
		t.Errorf("expected %d got %d", 2, len(h["Bar"]))
	}
	if h.Get("Baz") != "baz" {
		t.Errorf("expected %s got %s", "baz", h.Get("Baz"))
	}
	UpdateHeaders(nil, nil)
}

func TestIsNavigation(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsNavigation(r) {
		t.Error("expected false")
	}
	r.Header.Set(NameAccept, "text/html,application/xhtml+xml")
	if !IsNavigation(r) {
		t.Error("expected true for html accept")
	}
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set(NameAccept, "text/html")
	if IsNavigation(r) {
		t.Error("expected false for POST with html accept")
	}
	r.Header.Set(NameSecFetchMode, "navigate")
	if !IsNavigation(r) {
		t.Error("expected true for sec-fetch-mode navigate")
	}
	if IsNavigation(nil) {
		t.Error("expected false for nil request")
	}
}

func TestIsMutation(t *testing.T) {
	for _, m := range []string{"POST", "PUT", "PATCH", "DELETE"} {
		if !IsMutation(m) {
			t.Errorf("expected %s to be a mutation", m)
		}
	}
	if IsMutation(http.MethodGet) || IsMutation(http.MethodHead) {
		t.Error("expected GET and HEAD not to be mutations")
	}
}

func TestString(t *testing.T) {
	if s := String(nil); s != "\n\n" {
		t.Errorf("expected %q got %q", "\n\n", s)
	}
	h := http.Header{"B": {"2"}, "A": {"1"}}
	if s := String(h); !strings.Contains(s, "A: 1\n") {
		t.Errorf("unexpected header string %s", s)
	}
}

func TestAddForwardingHeaders(t *testing.T) {
	in := httptest.NewRequest(http.MethodGet, "http://example.com/api/x", nil)
	in.RemoteAddr = "10.0.0.2:5555"
	in.Header.Set(NameXForwardedFor, "10.0.0.1")
	out, _ := http.NewRequest(http.MethodGet, "http://origin/api/x", nil)
	AddForwardingHeaders(in, out)
	if v := out.Header.Get(NameXForwardedFor); v != "10.0.0.1, 10.0.0.2" {
		t.Errorf("expected %s got %s", "10.0.0.1, 10.0.0.2", v)
	}
	if v := out.Header.Get(NameXForwardedHost); v != "example.com" {
		t.Errorf("expected %s got %s", "example.com", v)
	}
	if out.Header.Get(NameVia) == "" {
		t.Error("expected Via header")
	}
}

func TestRemoveClientHeaders(t *testing.T) {
	h := http.Header{NameConnection: {"close"}, NameAccept: {"*/*"}}
	RemoveClientHeaders(h)
	if h.Get(NameConnection) != "" {
		t.Error("expected Connection to be removed")
	}
	if h.Get(NameAccept) == "" {
		t.Error("expected Accept to remain")
	}
}

func TestHasValue(t *testing.T) {
	h := http.Header{NameCacheControl: []string{"private, No-Store", "max-age=0"}}
	if !HasValue(h, NameCacheControl, ValueNoStore) {
		t.Error("expected true")
	}
	if HasValue(h, NameCacheControl, ValueNoCache) {
		t.Error("expected false")
	}
	if HasValue(nil, NameCacheControl, ValueNoStore) {
		t.Error("expected false for nil header")
	}
}
