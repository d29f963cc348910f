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

// Package options provides TLS configuration for the frontend listener and the origin client
package options

import (
	"os"
)

// Options is a collection of TLS-related client and server configurations
type Options struct {
	// FullChainCertPath specifies the path of the file containing the
	// concatenated server certification and the intermediate certification for the tls endpoint
	FullChainCertPath string `yaml:"full_chain_cert_path,omitempty"`
	// PrivateKeyPath specifies the path of the private key file for the tls endpoint
	PrivateKeyPath string `yaml:"private_key_path,omitempty"`
	// ServeTLS is set to true once the Cert and Key files have been validated,
	// indicating the consumer of this config can service requests over TLS
	ServeTLS bool `yaml:"-"`
	// InsecureSkipVerify indicates that the HTTPS Client in Tether should bypass
	// hostname verification for the origin's certificate when proxying requests
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty"`
	// CertificateAuthorityPaths provides a list of custom Certificate Authorities for the origin
	// which are considered in addition to any system CA's by the Tether HTTPS Client
	CertificateAuthorityPaths []string `yaml:"certificate_authority_paths,omitempty"`
	// ClientCertPath provides the path to the Client Certificate when using Mutual Authorization
	ClientCertPath string `yaml:"client_cert_path,omitempty"`
	// ClientKeyPath provides the path to the Client Key when using Mutual Authorization
	ClientKeyPath string `yaml:"client_key_path,omitempty"`
}

// New will return a *Options with the default settings
func New() *Options {
	return &Options{}
}

// Clone returns an exact copy of the subject *Options
func (o *Options) Clone() *Options {
	o2 := *o
	if o.CertificateAuthorityPaths != nil {
		o2.CertificateAuthorityPaths = make([]string, len(o.CertificateAuthorityPaths))
		copy(o2.CertificateAuthorityPaths, o.CertificateAuthorityPaths)
	}
	return &o2
}

// Equal returns true if all exposed option members are equal
func (o *Options) Equal(o2 *Options) bool {
	if o2 == nil || len(o.CertificateAuthorityPaths) != len(o2.CertificateAuthorityPaths) {
		return false
	}
	for i := range o.CertificateAuthorityPaths {
		if o.CertificateAuthorityPaths[i] != o2.CertificateAuthorityPaths[i] {
			return false
		}
	}
	return o.FullChainCertPath == o2.FullChainCertPath &&
		o.PrivateKeyPath == o2.PrivateKeyPath &&
		o.InsecureSkipVerify == o2.InsecureSkipVerify &&
		o.ClientCertPath == o2.ClientCertPath &&
		o.ClientKeyPath == o2.ClientKeyPath
}

// Validate checks that the server cert and key files are readable, and sets
// ServeTLS when they are. It returns false when no server cert is configured.
func (o *Options) Validate() (bool, error) {
	if o.FullChainCertPath == "" || o.PrivateKeyPath == "" {
		return false, nil
	}
	if _, err := os.ReadFile(o.FullChainCertPath); err != nil {
		return false, err
	}
	if _, err := os.ReadFile(o.PrivateKeyPath); err != nil {
		return false, err
	}
	o.ServeTLS = true
	return true, nil
}
