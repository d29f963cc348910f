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

// Package options provides configuration for the cache warmer
package options

import (
	"fmt"
	"time"

	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/priority"
)

const (
	// DefaultBatchSize is the default number of items fetched concurrently
	DefaultBatchSize = 3
	// DefaultTimeoutMS bounds each warmup fetch
	DefaultTimeoutMS = 10000
	// DefaultTTLMS is the ttl of warmed data
	DefaultTTLMS = 30 * 60 * 1000
	// DefaultRetryDelayMS is the delay before a failed high priority item is retried
	DefaultRetryDelayMS = 2000
)

// ItemOptions describes a warmup item loaded from configuration
type ItemOptions struct {
	Key          string   `yaml:"key"`
	URL          string   `yaml:"url"`
	Priority     string   `yaml:"priority,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`

	PriorityValue priority.Priority `yaml:"-"`
}

// Options is a collection of cache warmer options
type Options struct {
	// BatchSize is the number of items fetched concurrently
	BatchSize int `yaml:"batch_size,omitempty"`
	// TimeoutMS bounds each warmup fetch
	TimeoutMS int `yaml:"timeout_ms,omitempty"`
	// TTLMS is the ttl of warmed data in the cache and the store
	TTLMS int `yaml:"ttl_ms,omitempty"`
	// RetryDelayMS is the delay before a failed high priority item is retried
	RetryDelayMS int `yaml:"retry_delay_ms,omitempty"`
	// IntervalMS re-warms the configured items periodically; 0 warms them once at startup
	IntervalMS int `yaml:"interval_ms,omitempty"`
	// Items are enqueued when the warmer starts
	Items []*ItemOptions `yaml:"items,omitempty"`

	Timeout    time.Duration `yaml:"-"`
	TTL        time.Duration `yaml:"-"`
	RetryDelay time.Duration `yaml:"-"`
	Interval   time.Duration `yaml:"-"`
}

// New returns a new Options with default values
func New() *Options {
	return &Options{
		BatchSize:    DefaultBatchSize,
		TimeoutMS:    DefaultTimeoutMS,
		TTLMS:        DefaultTTLMS,
		RetryDelayMS: DefaultRetryDelayMS,
	}
}

// Clone returns an exact copy of the subject Options
func (o *Options) Clone() *Options {
	o2 := *o
	if o.Items != nil {
		o2.Items = make([]*ItemOptions, len(o.Items))
		for i, it := range o.Items {
			it2 := *it
			if it.Dependencies != nil {
				it2.Dependencies = make([]string, len(it.Dependencies))
				copy(it2.Dependencies, it.Dependencies)
			}
			o2.Items[i] = &it2
		}
	}
	return &o2
}

// Validate checks the options and derives the duration fields
func (o *Options) Validate() error {
	if o.BatchSize < 1 {
		return fmt.Errorf("%w: warmup.batch_size must be >= 1", terr.ErrInvalidOptions)
	}
	if o.TimeoutMS <= 0 {
		o.TimeoutMS = DefaultTimeoutMS
	}
	if o.TTLMS <= 0 {
		o.TTLMS = DefaultTTLMS
	}
	if o.RetryDelayMS < 0 || o.IntervalMS < 0 {
		return fmt.Errorf("%w: warmup delays must be >= 0", terr.ErrInvalidOptions)
	}
	keys := make(map[string]bool, len(o.Items))
	for i, it := range o.Items {
		if it == nil || it.Key == "" || it.URL == "" {
			return fmt.Errorf("%w: warmup.items[%d] requires a key and url", terr.ErrInvalidOptions, i)
		}
		if keys[it.Key] {
			return fmt.Errorf("%w: warmup.items[%d]: duplicate key %q", terr.ErrInvalidOptions, i, it.Key)
		}
		keys[it.Key] = true
		p, err := priority.Parse(it.Priority)
		if err != nil {
			return fmt.Errorf("%w: warmup.items[%d]: %s", terr.ErrInvalidOptions, i, err.Error())
		}
		it.PriorityValue = p
	}
	o.Timeout = time.Duration(o.TimeoutMS) * time.Millisecond
	o.TTL = time.Duration(o.TTLMS) * time.Millisecond
	o.RetryDelay = time.Duration(o.RetryDelayMS) * time.Millisecond
	o.Interval = time.Duration(o.IntervalMS) * time.Millisecond
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
