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

// Package registration registers the configured tracer for use with handlers
package registration

import (
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/tracing"
	errs "github.com/tetherproxy/tether/pkg/observability/tracing/errors"
	"github.com/tetherproxy/tether/pkg/observability/tracing/exporters/jaeger"
	"github.com/tetherproxy/tether/pkg/observability/tracing/exporters/stdout"
	"github.com/tetherproxy/tether/pkg/observability/tracing/exporters/zipkin"
	"github.com/tetherproxy/tether/pkg/observability/tracing/options"
)

// GetTracer returns a *Tracer based on the provided options. A nil Tracer with a
// nil error is returned when tracing is disabled.
func GetTracer(opts *options.Options, logger *logging.Logger) (*tracing.Tracer, error) {

	if opts == nil {
		return nil, errs.ErrNoTracerOptions
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Provider == "none" {
		return nil, nil
	}

	logger.Info("tracer registration",
		logging.Pairs{
			"name":         opts.Name,
			"provider":     opts.Provider,
			"serviceName":  opts.ServiceName,
			"collectorURL": opts.CollectorURL,
			"sampleRate":   opts.SampleRate,
		},
	)

	switch opts.Provider {
	case "stdout":
		return stdout.New(opts)
	case "jaeger":
		return jaeger.New(opts)
	case "zipkin":
		return zipkin.New(opts)
	}
	return nil, errs.ErrInvalidProvider
}
