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

// Package jaeger provides a Jaeger Tracer
package jaeger

import (
	"strings"

	"github.com/tetherproxy/tether/pkg/observability/tracing"
	errs "github.com/tetherproxy/tether/pkg/observability/tracing/errors"
	"github.com/tetherproxy/tether/pkg/observability/tracing/exporters"
	"github.com/tetherproxy/tether/pkg/observability/tracing/options"

	"go.opentelemetry.io/otel/exporters/jaeger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// New returns a new Jaeger Tracer based on the provided options
func New(opts *options.Options) (*tracing.Tracer, error) {

	if opts == nil {
		return nil, errs.ErrNoTracerOptions
	}

	var eo jaeger.EndpointOption
	if opts.JaegerOptions != nil && opts.JaegerOptions.EndpointType == "agent" {
		parts := strings.Split(opts.CollectorURL, ":")
		if len(parts) != 2 {
			return nil, errs.ErrInvalidEndpointURL
		}
		eo = jaeger.WithAgentEndpoint(jaeger.WithAgentHost(parts[0]), jaeger.WithAgentPort(parts[1]))
	}
	if eo == nil { // by default assume a "collector" config
		ceo := make([]jaeger.CollectorEndpointOption, 1, 3)
		ceo[0] = jaeger.WithEndpoint(opts.CollectorURL)
		if opts.CollectorUser != "" {
			ceo = append(ceo, jaeger.WithUsername(opts.CollectorUser))
		}
		if opts.CollectorPass != "" {
			ceo = append(ceo, jaeger.WithPassword(opts.CollectorPass))
		}
		eo = jaeger.WithCollectorEndpoint(ceo...)
	}

	exporter, err := jaeger.New(eo)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(exporters.Sampler(opts)),
		sdktrace.WithResource(exporters.Resource(opts)),
	)

	return &tracing.Tracer{
		Name:         opts.Name,
		Tracer:       tp.Tracer(opts.Name),
		Options:      opts,
		ShutdownFunc: tp.Shutdown,
	}, nil
}
