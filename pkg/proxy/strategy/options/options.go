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

// Package options provides configuration for the request strategies
package options

import (
	"fmt"
	"regexp"
	"time"

	"github.com/tetherproxy/tether/pkg/encoding"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/proxy/strategy"
)

const (
	// DefaultNavigationTimeoutMS is the default time a page load waits for the origin
	DefaultNavigationTimeoutMS = 5000
	// DefaultShellPath is the default path of the cached application shell
	DefaultShellPath = "/"
	// DefaultCacheTTLMS is the default ttl of cached responses
	DefaultCacheTTLMS = 24 * 60 * 60 * 1000
	// DefaultCompression is the default codec for persisted responses
	DefaultCompression = "snappy"
	// DefaultStaticAssetPattern matches common static asset extensions
	DefaultStaticAssetPattern = `\.(?:js|mjs|css|png|jpe?g|gif|svg|ico|webp|avif|woff2?|ttf|otf|eot|map)$`
)

// Rule maps a request path pattern to a strategy
type Rule struct {
	Pattern  string `yaml:"pattern"`
	Strategy string `yaml:"strategy"`

	Regexp       *regexp.Regexp    `yaml:"-"`
	StrategyType strategy.Strategy `yaml:"-"`
}

// Options is a collection of strategy options
type Options struct {
	// Rules are evaluated in order against the request path; the first match wins
	Rules []*Rule `yaml:"rules,omitempty"`
	// NavigationTimeoutMS is how long a navigation waits for the origin before falling back
	NavigationTimeoutMS int `yaml:"navigation_timeout_ms,omitempty"`
	// ShellPath is the path of the cached page served when a navigation cannot be answered
	ShellPath string `yaml:"shell_path,omitempty"`
	// CacheTTLMS is the ttl applied to cached responses
	CacheTTLMS int `yaml:"cache_ttl_ms,omitempty"`
	// PersistResponses writes cached responses through to the persistent store
	PersistResponses bool `yaml:"persist_responses,omitempty"`
	// Compression names the codec used for persisted responses
	Compression string `yaml:"compression,omitempty"`

	NavigationTimeout time.Duration `yaml:"-"`
	CacheTTL          time.Duration `yaml:"-"`
}

// DefaultRules returns the default ordered classification rules
func DefaultRules() []*Rule {
	return []*Rule{
		{Pattern: DefaultStaticAssetPattern, Strategy: "cache-first"},
		{Pattern: `^/api/static/`, Strategy: "stale-while-revalidate"},
		{Pattern: `^/api/`, Strategy: "network-first"},
		{Pattern: `^/auth/`, Strategy: "network-first"},
	}
}

// New returns a new Options with default values
func New() *Options {
	return &Options{
		Rules:               DefaultRules(),
		NavigationTimeoutMS: DefaultNavigationTimeoutMS,
		ShellPath:           DefaultShellPath,
		CacheTTLMS:          DefaultCacheTTLMS,
		Compression:         DefaultCompression,
	}
}

// Clone returns an exact copy of the subject Options
func (o *Options) Clone() *Options {
	o2 := *o
	o2.Rules = make([]*Rule, len(o.Rules))
	for i, r := range o.Rules {
		r2 := *r
		o2.Rules[i] = &r2
	}
	return &o2
}

// Validate compiles the rules and derives the duration fields
func (o *Options) Validate() error {
	for i, r := range o.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("%w: strategies.rules[%d]: %s", terr.ErrInvalidOptions, i, err.Error())
		}
		s, ok := strategy.Parse(r.Strategy)
		if !ok {
			return fmt.Errorf("%w: strategies.rules[%d]: unknown strategy %q",
				terr.ErrInvalidOptions, i, r.Strategy)
		}
		r.Regexp, r.StrategyType = re, s
	}
	if o.NavigationTimeoutMS <= 0 {
		o.NavigationTimeoutMS = DefaultNavigationTimeoutMS
	}
	if o.CacheTTLMS <= 0 {
		o.CacheTTLMS = DefaultCacheTTLMS
	}
	if o.ShellPath == "" {
		o.ShellPath = DefaultShellPath
	}
	if _, err := encoding.Parse(o.Compression); err != nil {
		return fmt.Errorf("%w: strategies.compression: %s", terr.ErrInvalidOptions, err.Error())
	}
	o.NavigationTimeout = time.Duration(o.NavigationTimeoutMS) * time.Millisecond
	o.CacheTTL = time.Duration(o.CacheTTLMS) * time.Millisecond
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
