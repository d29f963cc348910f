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

// Package options provides the configuration options for the proxy frontend listeners
package options

import (
	"fmt"

	terr "github.com/tetherproxy/tether/pkg/errors"
	to "github.com/tetherproxy/tether/pkg/proxy/tls/options"
)

const (
	// DefaultProxyListenPort is the default port that the HTTP frontend will listen on
	DefaultProxyListenPort = 8480
	// DefaultProxyListenAddress is the default address that the HTTP frontend will listen on
	DefaultProxyListenAddress = ""

	// 8482 is left unused so the default TLS port ends with 3

	// DefaultTLSProxyListenPort is the default port that the TLS frontend endpoint will listen on
	DefaultTLSProxyListenPort = 8483
	// DefaultTLSProxyListenAddress is the default address that the TLS frontend endpoint will listen on
	DefaultTLSProxyListenAddress = ""
	// DefaultDrainTimeoutMS is how long a replaced listener may finish in-flight requests
	DefaultDrainTimeoutMS = 30000
	// DefaultSSEKeepAliveMS is the interval of keep-alive comments on the event stream
	DefaultSSEKeepAliveMS = 15000
)

// Options is a collection of configurations for the main http frontend for the application
type Options struct {
	// ListenAddress is IP address for the main http listener for the application
	ListenAddress string `yaml:"listen_address,omitempty"`
	// ListenPort is TCP Port for the main http listener for the application
	ListenPort int `yaml:"listen_port,omitempty"`
	// TLSListenAddress is IP address for the tls  http listener for the application
	TLSListenAddress string `yaml:"tls_listen_address,omitempty"`
	// TLSListenPort is the TCP Port for the tls http listener for the application
	TLSListenPort int `yaml:"tls_listen_port,omitempty"`
	// ConnectionsLimit indicates how many concurrent front end connections tether will handle at any time
	ConnectionsLimit int `yaml:"connections_limit,omitempty"`
	// DrainTimeoutMS is how long a listener being replaced or stopped may drain
	DrainTimeoutMS int `yaml:"drain_timeout_ms,omitempty"`
	// SSEKeepAliveMS is the keep-alive interval of the /events stream
	SSEKeepAliveMS int `yaml:"sse_keep_alive_ms,omitempty"`
	// TLS holds the server certificate used by the TLS listener
	TLS *to.Options `yaml:"tls,omitempty"`

	// ServeTLS indicates whether to listen and serve on the TLS port, meaning
	// a valid certificate and key file are configured.
	ServeTLS bool `yaml:"-"`
}

// New returns a new Frontend Options with default values
func New() *Options {
	return &Options{
		ListenPort:       DefaultProxyListenPort,
		ListenAddress:    DefaultProxyListenAddress,
		TLSListenPort:    DefaultTLSProxyListenPort,
		TLSListenAddress: DefaultTLSProxyListenAddress,
		DrainTimeoutMS:   DefaultDrainTimeoutMS,
		SSEKeepAliveMS:   DefaultSSEKeepAliveMS,
		TLS:              to.New(),
	}
}

// Equal returns true if the listener-affecting values are identical
func (o *Options) Equal(o2 *Options) bool {
	if o2 == nil {
		return false
	}
	if (o.TLS == nil) != (o2.TLS == nil) || (o.TLS != nil && !o.TLS.Equal(o2.TLS)) {
		return false
	}
	return o.ListenAddress == o2.ListenAddress &&
		o.ListenPort == o2.ListenPort &&
		o.TLSListenAddress == o2.TLSListenAddress &&
		o.TLSListenPort == o2.TLSListenPort &&
		o.ConnectionsLimit == o2.ConnectionsLimit &&
		o.ServeTLS == o2.ServeTLS
}

// Clone returns a clone of the Options
func (o *Options) Clone() *Options {
	o2 := *o
	if o.TLS != nil {
		o2.TLS = o.TLS.Clone()
	}
	return &o2
}

// Validate checks the listener configuration and sets ServeTLS when a
// usable certificate is configured
func (o *Options) Validate() error {
	if o.ListenPort < 1 && o.TLSListenPort < 1 {
		return fmt.Errorf("%w: no http or https listeners configured", terr.ErrInvalidOptions)
	}
	if o.ConnectionsLimit < 0 {
		return fmt.Errorf("%w: connections_limit must be >= 0", terr.ErrInvalidOptions)
	}
	if o.DrainTimeoutMS <= 0 {
		o.DrainTimeoutMS = DefaultDrainTimeoutMS
	}
	if o.SSEKeepAliveMS <= 0 {
		o.SSEKeepAliveMS = DefaultSSEKeepAliveMS
	}
	o.ServeTLS = false
	if o.TLS == nil {
		o.TLS = to.New()
	}
	if o.TLSListenPort < 1 {
		return nil
	}
	ok, err := o.TLS.Validate()
	if err != nil {
		return fmt.Errorf("%w: frontend tls: %s", terr.ErrInvalidOptions, err.Error())
	}
	o.ServeTLS = ok
	return nil
}

// UnmarshalYAML seeds the Options with defaults before decoding
func (o *Options) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type loadOptions Options
	lo := loadOptions(*(New()))
	if err := unmarshal(&lo); err != nil {
		return err
	}
	*o = Options(lo)
	return nil
}
