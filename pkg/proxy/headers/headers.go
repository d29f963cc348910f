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

// Package headers provides functionality for HTTP Headers not provided by
// the builtin net/http package
package headers

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	// Common HTTP Header Values

	// ValueApplicationJSON represents the HTTP Header Value of "application/json"
	ValueApplicationJSON = "application/json"
	// ValueTextHTML represents the HTTP Header Value of "text/html"
	ValueTextHTML = "text/html"
	// ValueTextHTMLUTF8 represents the HTTP Header Value of "text/html; charset=utf-8"
	ValueTextHTMLUTF8 = "text/html; charset=utf-8"
	// ValueTextPlain represents the HTTP Header Value of "text/plain"
	ValueTextPlain = "text/plain"
	// ValueTextEventStream represents the HTTP Header Value of "text/event-stream"
	ValueTextEventStream = "text/event-stream"
	// ValueNoCache represents the HTTP Header Value of "no-cache"
	ValueNoCache = "no-cache"
	// ValueNoStore represents the HTTP Header Value of "no-store"
	ValueNoStore = "no-store"
	// ValueKeepAlive represents the HTTP Header Value of "keep-alive"
	ValueKeepAlive = "keep-alive"
	// ValueNavigate represents the Sec-Fetch-Mode Header Value of "navigate"
	ValueNavigate = "navigate"

	// Common HTTP Header Names

	// NameAccept represents the HTTP Header Name of "Accept"
	NameAccept = "Accept"
	// NameCacheControl represents the HTTP Header Name of "Cache-Control"
	NameCacheControl = "Cache-Control"
	// NameConnection represents the HTTP Header Name of "Connection"
	NameConnection = "Connection"
	// NameContentLength represents the HTTP Header Name of "Content-Length"
	NameContentLength = "Content-Length"
	// NameContentType represents the HTTP Header Name of "Content-Type"
	NameContentType = "Content-Type"
	// NameKeepAlive represents the HTTP Header Name of "Keep-Alive"
	NameKeepAlive = "Keep-Alive"
	// NameProxyAuthenticate represents the HTTP Header Name of "Proxy-Authenticate"
	NameProxyAuthenticate = "Proxy-Authenticate"
	// NameProxyAuthorization represents the HTTP Header Name of "Proxy-Authorization"
	NameProxyAuthorization = "Proxy-Authorization"
	// NameProxyConnection represents the HTTP Header Name of "Proxy-Connection"
	NameProxyConnection = "Proxy-Connection"
	// NameSecFetchMode represents the HTTP Header Name of "Sec-Fetch-Mode"
	NameSecFetchMode = "Sec-Fetch-Mode"
	// NameTe represents the HTTP Header Name of "Te"
	NameTe = "Te"
	// NameTrailer represents the HTTP Header Name of "Trailer"
	NameTrailer = "Trailer"
	// NameTransferEncoding represents the HTTP Header Name of "Transfer-Encoding"
	NameTransferEncoding = "Transfer-Encoding"
	// NameUpgrade represents the HTTP Header Name of "Upgrade"
	NameUpgrade = "Upgrade"

	// Tether-specific Header Names

	// NameTetherResult represents the HTTP Header Name of "X-Tether-Result"
	NameTetherResult = "X-Tether-Result"
	// NameIdempotencyKey represents the HTTP Header Name of "X-Idempotency-Key"
	NameIdempotencyKey = "X-Idempotency-Key"
	// NameSyncPriority represents the HTTP Header Name of "X-Tether-Sync-Priority"
	NameSyncPriority = "X-Tether-Sync-Priority"
)

// UpdateHeaders updates the provided headers collection with the provided updates.
// A name prefixed with "-" is removed, and one prefixed with "+" is appended.
func UpdateHeaders(headers http.Header, updates map[string]string) {
	if headers == nil || len(updates) == 0 {
		return
	}
	for k, v := range updates {
		if k == "" {
			continue
		}
		if k[0:1] == "-" {
			headers.Del(k[1:])
			continue
		}
		if k[0:1] == "+" {
			headers.Add(k[1:], v)
			continue
		}
		headers.Set(k, v)
	}
}

// HasHeaderValue returns true if r's Header map contains a key matching name
// with a value that starts with val (case insensitive)
func HasHeaderValue(r *http.Request, name, val string) bool {
	if r == nil || len(r.Header) == 0 {
		return false
	}
	headerVal := r.Header.Get(name)
	if len(headerVal) < len(val) {
		return false
	}
	return strings.EqualFold(headerVal[:len(val)], val)
}

// HasValue returns true if any comma-separated token of the named header
// equals val (case insensitive)
func HasValue(h http.Header, name, val string) bool {
	for _, v := range h.Values(name) {
		for _, tok := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(tok), val) {
				return true
			}
		}
	}
	return false
}

// AcceptsContentType returns true if r has an Accept header of contentType
func AcceptsContentType(r *http.Request, contentType string) bool {
	return HasHeaderValue(r, NameAccept, contentType)
}

// AcceptsHTML returns true if r's Accept header leads with text/html
func AcceptsHTML(r *http.Request) bool {
	return AcceptsContentType(r, ValueTextHTML)
}

// String returns the string representation of the headers as if
// they were transmitted over the wire (Header1: value1\nHeader2: value2\n\n)
func String(h http.Header) string {
	if len(h) == 0 {
		return "\n\n"
	}
	sb := &strings.Builder{}
	for k, v := range h {
		if len(v) > 0 {
			fmt.Fprintf(sb, "%s: %s\n", k, v[0])
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
