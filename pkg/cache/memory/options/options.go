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

// Package options provides the configuration options for the in-memory TTL cache
package options

import (
	"time"

	terr "github.com/tetherproxy/tether/pkg/errors"
)

const (
	// DefaultMaxItems is the default number of entries the cache holds before evicting
	DefaultMaxItems = 100
	// DefaultTTLMS is the default entry lifetime when Store is called without a ttl
	DefaultTTLMS = 5 * 60 * 1000
	// DefaultReapIntervalMS is the default interval between sweeps for expired entries (0 disables)
	DefaultReapIntervalMS = 60 * 1000
	// DefaultMaxStaleMS is how long the reaper keeps an expired entry for stale reads
	DefaultMaxStaleMS = 24 * 60 * 60 * 1000
)

// Options holds memory-cache-specific configuration.
type Options struct {
	// MaxItems is the maximum number of entries held; the oldest is evicted to make room
	MaxItems int `yaml:"max_items,omitempty"`
	// DefaultTTLMS is the lifetime applied to entries stored without an explicit ttl
	DefaultTTLMS int64 `yaml:"default_ttl_ms,omitempty"`
	// ReapIntervalMS is how often expired entries are swept; 0 leaves expiry to lookups
	ReapIntervalMS int64 `yaml:"reap_interval_ms,omitempty"`
	// MaxStaleMS is how long past its ttl the reaper leaves an entry for stale reads
	MaxStaleMS int64 `yaml:"max_stale_ms,omitempty"`

	DefaultTTL   time.Duration `yaml:"-"`
	ReapInterval time.Duration `yaml:"-"`
	MaxStale     time.Duration `yaml:"-"`
}

// New returns a new Options with default values set.
func New() *Options {
	return &Options{
		MaxItems:       DefaultMaxItems,
		DefaultTTLMS:   DefaultTTLMS,
		ReapIntervalMS: DefaultReapIntervalMS,
		MaxStaleMS:     DefaultMaxStaleMS,
		DefaultTTL:     time.Duration(DefaultTTLMS) * time.Millisecond,
		ReapInterval:   time.Duration(DefaultReapIntervalMS) * time.Millisecond,
		MaxStale:       time.Duration(DefaultMaxStaleMS) * time.Millisecond,
	}
}

// Clone returns an exact copy of the Options
func (o *Options) Clone() *Options {
	o2 := *o
	return &o2
}

// Equal returns true if all members of the subject and provided Options are identical.
func (o *Options) Equal(o2 *Options) bool {
	if o2 == nil {
		return false
	}
	return o.MaxItems == o2.MaxItems && o.DefaultTTLMS == o2.DefaultTTLMS &&
		o.ReapIntervalMS == o2.ReapIntervalMS && o.MaxStaleMS == o2.MaxStaleMS
}

// Validate checks the options and populates the derived durations
func (o *Options) Validate() error {
	if o.MaxItems < 1 {
		return terr.ErrInvalidOptions
	}
	if o.DefaultTTLMS <= 0 {
		o.DefaultTTLMS = DefaultTTLMS
	}
	if o.ReapIntervalMS < 0 {
		o.ReapIntervalMS = 0
	}
	if o.MaxStaleMS < 0 {
		o.MaxStaleMS = 0
	}
	o.DefaultTTL = time.Duration(o.DefaultTTLMS) * time.Millisecond
	o.ReapInterval = time.Duration(o.ReapIntervalMS) * time.Millisecond
	o.MaxStale = time.Duration(o.MaxStaleMS) * time.Millisecond
	return nil
}

// UnmarshalYAML applies defaults before overlaying YAML-parsed values.
func (o *Options) UnmarshalYAML(unmarshal func(any) error) error {
	type loadOptions Options
	lo := loadOptions(*(New()))
	if err := unmarshal(&lo); err != nil {
		return err
	}
	*o = Options(lo)
	return nil
}
