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

// Package options provides configuration for the origin that Tether fronts
package options

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	terr "github.com/tetherproxy/tether/pkg/errors"
	to "github.com/tetherproxy/tether/pkg/proxy/tls/options"
)

const (
	// DefaultTimeoutMS is the default origin request timeout
	DefaultTimeoutMS = 30000
	// DefaultKeepAliveTimeoutMS is the default keep-alive period for origin connections
	DefaultKeepAliveTimeoutMS = 300000
	// DefaultMaxIdleConns is the default number of idle origin connections kept open
	DefaultMaxIdleConns = 20
)

// Options is a collection of origin options
type Options struct {
	// URL is the base URL of the origin; request paths are appended to it
	URL string `yaml:"url,omitempty"`
	// TimeoutMS bounds each origin request
	TimeoutMS int `yaml:"timeout_ms,omitempty"`
	// KeepAliveTimeoutMS is the keep-alive period of origin connections
	KeepAliveTimeoutMS int `yaml:"keep_alive_timeout_ms,omitempty"`
	// MaxIdleConns is the number of idle origin connections kept open
	MaxIdleConns int `yaml:"max_idle_conns,omitempty"`
	// RequestHeaders are applied to every origin request. Prefix a name with
	// "-" to remove it or "+" to append to it.
	RequestHeaders map[string]string `yaml:"request_headers,omitempty"`
	// TLS configures the origin client
	TLS *to.Options `yaml:"tls,omitempty"`

	Timeout   time.Duration `yaml:"-"`
	ParsedURL *url.URL      `yaml:"-"`
}

// New returns a new Options with default values
func New() *Options {
	return &Options{
		TimeoutMS:          DefaultTimeoutMS,
		KeepAliveTimeoutMS: DefaultKeepAliveTimeoutMS,
		MaxIdleConns:       DefaultMaxIdleConns,
		TLS:                to.New(),
	}
}

// Clone returns an exact copy of the subject Options
func (o *Options) Clone() *Options {
	o2 := *o
	if o.RequestHeaders != nil {
		o2.RequestHeaders = make(map[string]string, len(o.RequestHeaders))
		for k, v := range o.RequestHeaders {
			o2.RequestHeaders[k] = v
		}
	}
	if o.TLS != nil {
		o2.TLS = o.TLS.Clone()
	}
	if o.ParsedURL != nil {
		u := *o.ParsedURL
		o2.ParsedURL = &u
	}
	return &o2
}

// Validate parses the origin URL and derives the duration fields
func (o *Options) Validate() error {
	if o.URL == "" {
		return fmt.Errorf("%w: origin.url is required", terr.ErrInvalidOptions)
	}
	u, err := url.Parse(o.URL)
	if err != nil {
		return fmt.Errorf("%w: origin.url: %s", terr.ErrInvalidOptions, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: origin.url scheme must be http or https", terr.ErrInvalidOptions)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	o.ParsedURL = u
	if o.TimeoutMS <= 0 {
		o.TimeoutMS = DefaultTimeoutMS
	}
	if o.TLS == nil {
		o.TLS = to.New()
	}
	o.Timeout = time.Duration(o.TimeoutMS) * time.Millisecond
	return nil
}

// UnmarshalYAML starts from the default values before decoding
func (o *Options) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type loadOptions Options
	lo := loadOptions(*New())
	if err := unmarshal(&lo); err != nil {
		return err
	}
	*o = Options(lo)
	return nil
}
