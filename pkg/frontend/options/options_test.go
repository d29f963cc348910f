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

package options

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	terr "github.com/tetherproxy/tether/pkg/errors"

	"gopkg.in/yaml.v3"
)

func TestFrontendOptions(t *testing.T) {

	f1 := New()
	f2 := New()

	b := f1.Equal(f2)
	if !b {
		t.Errorf("expected %t got %t", true, b)
	}

	f1.ListenAddress = "tether"
	if f1.Equal(f2) {
		t.Errorf("expected %t got %t", false, true)
	}
	f2 = f1.Clone()
	if !f1.Equal(f2) {
		t.Errorf("expected %t got %t", true, false)
	}
	f2.TLS.PrivateKeyPath = "x"
	if f1.TLS.PrivateKeyPath != "" {
		t.Error("expected clone to deep-copy tls options")
	}
}

func TestValidate(t *testing.T) {
	o := New()
	o.DrainTimeoutMS = 0
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.DrainTimeoutMS != DefaultDrainTimeoutMS {
		t.Errorf("expected %d got %d", DefaultDrainTimeoutMS, o.DrainTimeoutMS)
	}
	if o.ServeTLS {
		t.Error("expected no tls without a certificate")
	}

	o.ListenPort, o.TLSListenPort = 0, 0
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}

	o = New()
	o.ConnectionsLimit = -1
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
}

func TestValidateTLS(t *testing.T) {
	td := t.TempDir()
	cert := filepath.Join(td, "cert.pem")
	key := filepath.Join(td, "key.pem")
	os.WriteFile(cert, []byte("cert"), 0600)
	os.WriteFile(key, []byte("key"), 0600)

	o := New()
	o.TLS.FullChainCertPath = cert
	o.TLS.PrivateKeyPath = key
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if !o.ServeTLS {
		t.Errorf("expected %t got %t", true, o.ServeTLS)
	}

	o.TLS.PrivateKeyPath = filepath.Join(td, "missing.pem")
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
}

func TestUnmarshalYAML(t *testing.T) {
	o := New()
	err := yaml.Unmarshal([]byte("listen_port: 9090\nconnections_limit: 5\n"), o)
	if err != nil {
		t.Fatal(err)
	}
	if o.ListenPort != 9090 {
		t.Errorf("expected %d got %d", 9090, o.ListenPort)
	}
	if o.TLSListenPort != DefaultTLSProxyListenPort {
		t.Errorf("expected %d got %d", DefaultTLSProxyListenPort, o.TLSListenPort)
	}
	if o.ConnectionsLimit != 5 {
		t.Errorf("expected %d got %d", 5, o.ConnectionsLimit)
	}
}
