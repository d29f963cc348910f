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

// Package options provides configuration for the background sync queue
package options

import (
	"fmt"
	"regexp"
	"time"

	terr "github.com/tetherproxy/tether/pkg/errors"
)

const (
	// DefaultBatchSize is the default number of items sent per processing pass
	DefaultBatchSize = 10
	// DefaultMaxAttempts is the default number of attempts before an item fails
	DefaultMaxAttempts = 5
	// DefaultBaseDelayMS is the delay before the first retry
	DefaultBaseDelayMS = 5000
	// DefaultBackoffFactor multiplies the delay for each further retry
	DefaultBackoffFactor = 2.0
	// DefaultRequestTimeoutMS bounds each replayed request
	DefaultRequestTimeoutMS = 30000
	// DefaultQueuePathPattern matches the mutations that are queued when they fail offline
	DefaultQueuePathPattern = `^/api/`
)

// Options is a collection of background sync options
type Options struct {
	// BatchSize is the number of items sent per processing pass
	BatchSize int `yaml:"batch_size,omitempty"`
	// MaxAttempts is the default number of attempts before an item is marked failed
	MaxAttempts int `yaml:"max_attempts,omitempty"`
	// BaseDelayMS is the delay before the first retry
	BaseDelayMS int `yaml:"base_delay_ms,omitempty"`
	// BackoffFactor multiplies the delay for each further retry
	BackoffFactor float64 `yaml:"backoff_factor,omitempty"`
	// RequestTimeoutMS bounds each replayed request
	RequestTimeoutMS int `yaml:"request_timeout_ms,omitempty"`
	// QueuePaths lists patterns of request paths whose failed mutations are queued
	QueuePaths []string `yaml:"queue_paths,omitempty"`

	BaseDelay         time.Duration    `yaml:"-"`
	RequestTimeout    time.Duration    `yaml:"-"`
	QueuePathPatterns []*regexp.Regexp `yaml:"-"`
}

// New returns a new Options with default values
func New() *Options {
	return &Options{
		BatchSize:        DefaultBatchSize,
		MaxAttempts:      DefaultMaxAttempts,
		BaseDelayMS:      DefaultBaseDelayMS,
		BackoffFactor:    DefaultBackoffFactor,
		RequestTimeoutMS: DefaultRequestTimeoutMS,
		QueuePaths:       []string{DefaultQueuePathPattern},
	}
}

// Clone returns an exact copy of the subject Options
func (o *Options) Clone() *Options {
	o2 := *o
	if o.QueuePaths != nil {
		o2.QueuePaths = make([]string, len(o.QueuePaths))
		copy(o2.QueuePaths, o.QueuePaths)
	}
	if o.QueuePathPatterns != nil {
		o2.QueuePathPatterns = make([]*regexp.Regexp, len(o.QueuePathPatterns))
		copy(o2.QueuePathPatterns, o.QueuePathPatterns)
	}
	return &o2
}

// Validate checks the options, compiles the queue path patterns and derives the duration fields
func (o *Options) Validate() error {
	if o.BatchSize < 1 {
		return fmt.Errorf("%w: sync.batch_size must be >= 1", terr.ErrInvalidOptions)
	}
	if o.MaxAttempts < 1 {
		return fmt.Errorf("%w: sync.max_attempts must be >= 1", terr.ErrInvalidOptions)
	}
	if o.BackoffFactor < 1 {
		return fmt.Errorf("%w: sync.backoff_factor must be >= 1", terr.ErrInvalidOptions)
	}
	if o.BaseDelayMS < 0 {
		return fmt.Errorf("%w: sync.base_delay_ms must be >= 0", terr.ErrInvalidOptions)
	}
	if o.RequestTimeoutMS <= 0 {
		o.RequestTimeoutMS = DefaultRequestTimeoutMS
	}
	o.QueuePathPatterns = make([]*regexp.Regexp, 0, len(o.QueuePaths))
	for i, p := range o.QueuePaths {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("%w: sync.queue_paths[%d]: %s", terr.ErrInvalidOptions, i, err.Error())
		}
		o.QueuePathPatterns = append(o.QueuePathPatterns, re)
	}
	o.BaseDelay = time.Duration(o.BaseDelayMS) * time.Millisecond
	o.RequestTimeout = time.Duration(o.RequestTimeoutMS) * time.Millisecond
	return nil
}

// ShouldQueue returns true if a failed mutation to path should be queued
func (o *Options) ShouldQueue(path string) bool {
	for _, re := range o.QueuePathPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
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
