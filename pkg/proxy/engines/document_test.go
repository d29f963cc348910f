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

package engines

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/tetherproxy/tether/pkg/proxy/headers"
)

func TestDocumentFromHTTPResponse(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{
		headers.NameContentType:      []string{headers.ValueApplicationJSON},
		headers.NameContentLength:    []string{"99"},
		headers.NameTransferEncoding: []string{"chunked"},
	}}
	d := DocumentFromHTTPResponse(resp, []byte(`{"a":1}`), "/api/a")
	h := http.Header(d.Headers)
	if h.Get(headers.NameContentLength) != "" || h.Get(headers.NameTransferEncoding) != "" {
		t.Errorf("expected transport headers to be stripped, got %v", h)
	}
	// the source response header is not modified
	if resp.Header.Get(headers.NameContentLength) != "99" {
		t.Error("expected source header to be untouched")
	}

	out := d.Response(nil)
	if out.Header.Get(headers.NameContentLength) != "7" || out.ContentLength != 7 {
		t.Errorf("expected content length %d got %s", 7, out.Header.Get(headers.NameContentLength))
	}
	b, _ := io.ReadAll(out.Body)
	if string(b) != `{"a":1}` {
		t.Errorf("expected %s got %s", `{"a":1}`, string(b))
	}
	// each response gets its own body reader
	b, _ = io.ReadAll(d.Response(nil).Body)
	if string(b) != `{"a":1}` {
		t.Errorf("expected %s got %s", `{"a":1}`, string(b))
	}
}

func TestDocumentMsgp(t *testing.T) {
	stored := time.Unix(1700000000, 42)
	d := &Document{
		StatusCode: 201,
		Headers:    map[string][]string{"Set-Cookie": {"a=1", "b=2"}, "X-Empty": {}},
		Body:       []byte("body"),
		URL:        "/api/a?x=1",
		StoredAt:   stored,
		TTL:        time.Minute,
	}
	b, err := d.MarshalMsg(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) > d.Msgsize() {
		t.Errorf("expected encoded size %d to be within estimate %d", len(b), d.Msgsize())
	}

	d2 := &Document{}
	rest, err := d2.UnmarshalMsg(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("expected %d got %d", 0, len(rest))
	}
	if d2.StatusCode != 201 || string(d2.Body) != "body" || d2.URL != "/api/a?x=1" {
		t.Errorf("unexpected document %+v", d2)
	}
	if !d2.StoredAt.Equal(stored) || d2.TTL != time.Minute {
		t.Errorf("unexpected times %s %s", d2.StoredAt, d2.TTL)
	}
	if len(d2.Headers["Set-Cookie"]) != 2 || d2.Headers["Set-Cookie"][1] != "b=2" {
		t.Errorf("unexpected headers %v", d2.Headers)
	}

	if _, err = d2.UnmarshalMsg(b[:len(b)-3]); err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestDocumentFreshness(t *testing.T) {
	now := time.Now()
	d := &Document{StoredAt: now, TTL: time.Minute}
	if !d.Fresh(now.Add(time.Minute)) {
		t.Error("expected fresh at exactly its ttl")
	}
	if d.Fresh(now.Add(time.Minute + time.Millisecond)) {
		t.Error("expected stale after its ttl")
	}
	if r := d.Remaining(now.Add(45 * time.Second)); r != 15*time.Second {
		t.Errorf("expected %s got %s", 15*time.Second, r)
	}
	if (&Document{}).Fresh(now) {
		t.Error("expected a document without ttl to be stale")
	}
}

func TestDocumentSize(t *testing.T) {
	d := &Document{Body: []byte("12345"), URL: "/x"}
	// an empty header set is sized as its wire terminator
	if d.Size() != 9 {
		t.Errorf("expected %d got %d", 9, d.Size())
	}
}

func TestRevalidationStatusString(t *testing.T) {
	if RevalStatusOK.String() != "revalidated" {
		t.Errorf("expected %s got %s", "revalidated", RevalStatusOK.String())
	}
	if RevalidationStatus(42).String() != "42" {
		t.Errorf("expected %s got %s", "42", RevalidationStatus(42).String())
	}
}
