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

// Package proxy provides the origin HTTP client used by Tether
package proxy

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	fo "github.com/tetherproxy/tether/pkg/proxy/fetcher/options"
	to "github.com/tetherproxy/tether/pkg/proxy/tls/options"
)

// NewHTTPClient returns the client used to reach the origin. Redirects are
// handed back to the caller rather than followed, so the browser sees them.
func NewHTTPClient(o *fo.Options) (*http.Client, error) {
	if o == nil {
		return nil, nil
	}
	tc, err := clientTLSConfig(o.TLS)
	if err != nil {
		return nil, err
	}
	dialer := &net.Dialer{
		KeepAlive: time.Duration(o.KeepAliveTimeoutMS) * time.Millisecond,
	}
	return &http.Client{
		Timeout: o.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConns:        o.MaxIdleConns,
			MaxIdleConnsPerHost: o.MaxIdleConns,
			TLSClientConfig:     tc,
		},
	}, nil
}

func clientTLSConfig(o *to.Options) (*tls.Config, error) {
	if o == nil {
		return nil, nil
	}
	tc := &tls.Config{InsecureSkipVerify: o.InsecureSkipVerify}
	if o.ClientCertPath != "" && o.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(o.ClientCertPath, o.ClientKeyPath)
		if err != nil {
			return nil, err
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	if len(o.CertificateAuthorityPaths) == 0 {
		return tc, nil
	}
	pool, _ := x509.SystemCertPool()
	if pool == nil {
		pool = x509.NewCertPool()
	}
	for _, path := range o.CertificateAuthorityPaths {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !pool.AppendCertsFromPEM(b) {
			return nil, fmt.Errorf("no certificates found in CA file %s", path)
		}
	}
	tc.RootCAs = pool
	return tc, nil
}
