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

package proxy

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	fo "github.com/tetherproxy/tether/pkg/proxy/fetcher/options"
)

func TestNewHTTPClient(t *testing.T) {

	// nil options
	c, err := NewHTTPClient(nil)
	if c != nil {
		t.Errorf("expected nil client, got %v", c)
	}
	if err != nil {
		t.Error(err)
	}

	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	td := t.TempDir()
	caFile := filepath.Join(td, "ca.pem")
	junkFile := filepath.Join(td, "junk.pem")
	os.WriteFile(caFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE",
		Bytes: ts.Certificate().Raw}), 0600)
	os.WriteFile(junkFile, []byte("junk"), 0600)

	o := fo.New()
	o.URL = ts.URL
	if err = o.Validate(); err != nil {
		t.Fatal(err)
	}

	// no CA: the test server's cert is untrusted
	c, err = NewHTTPClient(o)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = c.Get(ts.URL); err == nil {
		t.Error("expected certificate error")
	}

	// trusted CA
	o.TLS.CertificateAuthorityPaths = []string{caFile}
	c, err = NewHTTPClient(o)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Get(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected %d got %d", http.StatusNoContent, resp.StatusCode)
	}

	// missing CA file
	o.TLS.CertificateAuthorityPaths = []string{caFile + ".invalid"}
	if _, err = NewHTTPClient(o); err == nil {
		t.Error("expected error for missing CA file")
	}

	// junk CA content
	o.TLS.CertificateAuthorityPaths = []string{junkFile}
	if _, err = NewHTTPClient(o); err == nil {
		t.Error("expected error for junk CA file")
	}

	// missing client key pair
	o.TLS.CertificateAuthorityPaths = nil
	o.TLS.ClientCertPath, o.TLS.ClientKeyPath = caFile+".x", caFile+".y"
	if _, err = NewHTTPClient(o); err == nil {
		t.Error("expected error for missing client key pair")
	}
}

func TestNoRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer ts.Close()
	o := fo.New()
	o.URL = ts.URL
	o.Validate()
	c, _ := NewHTTPClient(o)
	resp, err := c.Get(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected %d got %d", http.StatusFound, resp.StatusCode)
	}
}
