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

// Package exporters provides helpers shared by the tracing exporters
package exporters

import (
	"github.com/tetherproxy/tether/pkg/observability/tracing/options"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampler returns the sampler matching the configured sample rate
func Sampler(opts *options.Options) sdktrace.Sampler {
	switch opts.SampleRate {
	case 0:
		return sdktrace.NeverSample()
	case 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(opts.SampleRate)
	}
}

// Resource returns the resource describing this service, including any configured tags
func Resource(opts *options.Options) *resource.Resource {
	tags := make([]attribute.KeyValue, 1, len(opts.Tags)+1)
	tags[0] = attribute.String("service.name", opts.ServiceName)
	for k, v := range opts.Tags {
		tags = append(tags, attribute.String(k, v))
	}
	return resource.NewWithAttributes("", tags...)
}
