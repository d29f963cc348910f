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
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	o := New()
	ok, err := o.Validate()
	if ok || err != nil {
		t.Errorf("expected false/nil got %t/%v", ok, err)
	}

	td := t.TempDir()
	cert := filepath.Join(td, "cert.pem")
	key := filepath.Join(td, "key.pem")
	o.FullChainCertPath, o.PrivateKeyPath = cert, key
	if _, err = o.Validate(); err == nil {
		t.Error("expected error for missing cert file")
	}

	os.WriteFile(cert, []byte("cert"), 0600)
	os.WriteFile(key, []byte("key"), 0600)
	ok, err = o.Validate()
	if !ok || err != nil {
		t.Errorf("expected true/nil got %t/%v", ok, err)
	}
	if !o.ServeTLS {
		t.Error("expected ServeTLS to be set")
	}
}

func TestCloneEqual(t *testing.T) {
	o := &Options{InsecureSkipVerify: true, CertificateAuthorityPaths: []string{"a", "b"}}
	o2 := o.Clone()
	if !o.Equal(o2) {
		t.Error("expected clone to be equal")
	}
	o2.CertificateAuthorityPaths[1] = "c"
	if o.Equal(o2) {
		t.Error("expected modified clone to differ")
	}
	if o.Equal(nil) {
		t.Error("expected nil to differ")
	}
}
