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

// Package options provides the configuration options for tracing
package options

import (
	"fmt"

	errs "github.com/tetherproxy/tether/pkg/observability/tracing/errors"
)

const (
	// DefaultTracerProvider is the default tracing provider
	DefaultTracerProvider = "none"
	// DefaultTracerServiceName is the default service name reported to the collector
	DefaultTracerServiceName = "tether"
	// DefaultSampleRate is the default sample rate
	DefaultSampleRate = 1.0
)

// Providers is the list of supported tracing providers
var Providers = map[string]bool{
	"none":   true,
	"stdout": true,
	"jaeger": true,
	"zipkin": true,
}

// Options is a Tracing Options collection
type Options struct {
	Name          string            `yaml:"-"`
	Provider      string            `yaml:"provider,omitempty"`
	ServiceName   string            `yaml:"service_name,omitempty"`
	CollectorURL  string            `yaml:"collector_url,omitempty"`
	CollectorUser string            `yaml:"collector_user,omitempty"`
	CollectorPass string            `yaml:"collector_pass,omitempty"`
	SampleRate    float64           `yaml:"sample_rate,omitempty"`
	Tags          map[string]string `yaml:"tags,omitempty"`

	StdOutOptions *StdOutOptions `yaml:"stdout,omitempty"`
	JaegerOptions *JaegerOptions `yaml:"jaeger,omitempty"`
}

// StdOutOptions is a collection of options for the stdout exporter
type StdOutOptions struct {
	PrettyPrint bool `yaml:"pretty_print,omitempty"`
}

// JaegerOptions is a collection of options for the jaeger exporter
type JaegerOptions struct {
	// EndpointType is "agent" or "collector" (the default)
	EndpointType string `yaml:"endpoint_type,omitempty"`
}

// New returns a new *Options with the default values
func New() *Options {
	return &Options{
		Name:          "default",
		Provider:      DefaultTracerProvider,
		ServiceName:   DefaultTracerServiceName,
		SampleRate:    DefaultSampleRate,
		StdOutOptions: &StdOutOptions{},
		JaegerOptions: &JaegerOptions{},
	}
}

// Clone returns an exact copy of a tracing config
func (o *Options) Clone() *Options {
	var so *StdOutOptions
	if o.StdOutOptions != nil {
		so = &StdOutOptions{PrettyPrint: o.StdOutOptions.PrettyPrint}
	}
	var jo *JaegerOptions
	if o.JaegerOptions != nil {
		jo = &JaegerOptions{EndpointType: o.JaegerOptions.EndpointType}
	}
	var tags map[string]string
	if o.Tags != nil {
		tags = make(map[string]string, len(o.Tags))
		for k, v := range o.Tags {
			tags[k] = v
		}
	}
	return &Options{
		Name:          o.Name,
		Provider:      o.Provider,
		ServiceName:   o.ServiceName,
		CollectorURL:  o.CollectorURL,
		CollectorUser: o.CollectorUser,
		CollectorPass: o.CollectorPass,
		SampleRate:    o.SampleRate,
		Tags:          tags,
		StdOutOptions: so,
		JaegerOptions: jo,
	}
}

// Validate checks the Options for a known provider and a usable sample rate
func (o *Options) Validate() error {
	if o.Provider == "" {
		o.Provider = DefaultTracerProvider
	}
	if !Providers[o.Provider] {
		return fmt.Errorf("%w: %s", errs.ErrInvalidProvider, o.Provider)
	}
	if o.SampleRate < 0 || o.SampleRate > 1 {
		o.SampleRate = DefaultSampleRate
	}
	if o.ServiceName == "" {
		o.ServiceName = DefaultTracerServiceName
	}
	if (o.Provider == "jaeger" || o.Provider == "zipkin") && o.CollectorURL == "" {
		return fmt.Errorf("%w: provider %s requires collector_url", errs.ErrInvalidEndpointURL, o.Provider)
	}
	return nil
}

// AttachTagsToSpan indicates that Tags should be attached to each span rather
// than to the exporter's process, for providers without process-level tags
func (o *Options) AttachTagsToSpan() bool {
	return o.Provider == "zipkin" && len(o.Tags) > 0
}
