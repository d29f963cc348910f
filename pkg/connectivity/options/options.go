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

// Package options provides configuration for the connectivity monitor
package options

import (
	"fmt"
	"time"

	terr "github.com/tetherproxy/tether/pkg/errors"
)

const (
	// DefaultProbePath is the origin path probed for reachability
	DefaultProbePath = "/"
	// DefaultProbeTimeoutMS is the default probe timeout
	DefaultProbeTimeoutMS = 2000
	// DefaultFailureThreshold is the default number of consecutive failed probes
	// required to mark the origin offline
	DefaultFailureThreshold = 2
	// DefaultRecoveryThreshold is the default number of consecutive successful probes
	// required to mark the origin online
	DefaultRecoveryThreshold = 1
)

// Options defines connectivity monitoring options
type Options struct {
	// InitialOffline starts the monitor in the offline state
	InitialOffline bool `yaml:"initial_offline,omitempty"`
	// ProbeIntervalMS is the interval at which the origin is probed. 0 disables probing.
	ProbeIntervalMS int `yaml:"probe_interval_ms,omitempty"`
	// ProbePath is the origin path requested by each probe
	ProbePath string `yaml:"probe_path,omitempty"`
	// ProbeMethod is the HTTP method used by each probe
	ProbeMethod string `yaml:"probe_method,omitempty"`
	// ProbeTimeoutMS bounds each probe
	ProbeTimeoutMS int `yaml:"probe_timeout_ms,omitempty"`
	// ExpectedCodes lists the probe status codes that indicate reachability.
	// When empty, any status below 500 does.
	ExpectedCodes []int `yaml:"expected_codes,omitempty"`
	// FailureThreshold is the number of consecutive failed probes that mark the origin offline
	FailureThreshold int `yaml:"failure_threshold,omitempty"`
	// RecoveryThreshold is the number of consecutive good probes that mark the origin online
	RecoveryThreshold int `yaml:"recovery_threshold,omitempty"`

	ProbeInterval time.Duration `yaml:"-"`
	ProbeTimeout  time.Duration `yaml:"-"`
}

// New returns a new Options with default values
func New() *Options {
	return &Options{
		ProbePath:         DefaultProbePath,
		ProbeMethod:       "HEAD",
		ProbeTimeoutMS:    DefaultProbeTimeoutMS,
		FailureThreshold:  DefaultFailureThreshold,
		RecoveryThreshold: DefaultRecoveryThreshold,
	}
}

// Clone returns an exact copy of the subject Options
func (o *Options) Clone() *Options {
	o2 := *o
	if o.ExpectedCodes != nil {
		o2.ExpectedCodes = make([]int, len(o.ExpectedCodes))
		copy(o2.ExpectedCodes, o.ExpectedCodes)
	}
	return &o2
}

// Validate checks the options and derives the duration fields
func (o *Options) Validate() error {
	if o.ProbeIntervalMS < 0 {
		return fmt.Errorf("%w: connectivity.probe_interval_ms must be >= 0", terr.ErrInvalidOptions)
	}
	if o.ProbePath == "" || o.ProbePath[0] != '/' {
		return fmt.Errorf("%w: connectivity.probe_path must begin with /", terr.ErrInvalidOptions)
	}
	if o.ProbeMethod == "" {
		o.ProbeMethod = "HEAD"
	}
	if o.ProbeTimeoutMS <= 0 {
		o.ProbeTimeoutMS = DefaultProbeTimeoutMS
	}
	if o.FailureThreshold < 1 {
		o.FailureThreshold = DefaultFailureThreshold
	}
	if o.RecoveryThreshold < 1 {
		o.RecoveryThreshold = DefaultRecoveryThreshold
	}
	o.ProbeInterval = time.Duration(o.ProbeIntervalMS) * time.Millisecond
	o.ProbeTimeout = time.Duration(o.ProbeTimeoutMS) * time.Millisecond
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
