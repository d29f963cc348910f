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
	"net"
	"net/http"
	"sync"

	"github.com/tetherproxy/tether/pkg/runtime"
)

const (
	// NameVia represents the HTTP Header Name of "Via"
	NameVia = "Via"
	// NameXForwardedFor represents the HTTP Header Name of "X-Forwarded-For"
	NameXForwardedFor = "X-Forwarded-For"
	// NameXForwardedHost represents the HTTP Header Name of "X-Forwarded-Host"
	NameXForwardedHost = "X-Forwarded-Host"
	// NameXForwardedProto represents the HTTP Header Name of "X-Forwarded-Proto"
	NameXForwardedProto = "X-Forwarded-Proto"
)

var hopHeaders = []string{
	NameConnection,
	NameProxyConnection,
	NameKeepAlive,
	NameProxyAuthenticate,
	NameProxyAuthorization,
	NameTe,
	NameTrailer,
	NameTransferEncoding,
	NameUpgrade,
}

var viaHeader string
var once sync.Once
var onceVia = func() {
	viaHeader = "1.1 " + runtime.Product()
}

// AddForwardingHeaders sets the Via and X-Forwarded-* headers on the outbound
// request, appending the inbound client address to any existing X-Forwarded-For
func AddForwardingHeaders(inbound, outbound *http.Request) {
	if outbound == nil {
		return
	}
	if outbound.Header == nil {
		outbound.Header = make(http.Header)
	}
	SetVia(outbound.Header)
	if inbound == nil {
		return
	}
	if clientIP, _, err := net.SplitHostPort(inbound.RemoteAddr); err == nil && clientIP != "" {
		if prior := inbound.Header.Get(NameXForwardedFor); prior != "" {
			clientIP = prior + ", " + clientIP
		}
		outbound.Header.Set(NameXForwardedFor, clientIP)
	}
	if inbound.Host != "" {
		outbound.Header.Set(NameXForwardedHost, inbound.Host)
	}
	proto := "http"
	if inbound.TLS != nil {
		proto = "https"
	}
	outbound.Header.Set(NameXForwardedProto, proto)
}

// SetVia sets the "Via" header in the provided header map
func SetVia(h http.Header) {
	if h == nil {
		return
	}
	once.Do(onceVia)
	h.Set(NameVia, viaHeader)
}

// AddResponseHeaders injects standard Tether headers into downstream HTTP responses
func AddResponseHeaders(h http.Header) {
	SetVia(h)
}

// RemoveClientHeaders strips hop-by-hop headers from the HTTP request before forwarding
func RemoveClientHeaders(headers http.Header) {
	for _, k := range hopHeaders {
		headers.Del(k)
	}
}
