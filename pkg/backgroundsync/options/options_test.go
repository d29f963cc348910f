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

package options

import (
	"errors"
	"testing"

	terr "github.com/tetherproxy/tether/pkg/errors"

	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	o := New()
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if !o.ShouldQueue("/api/orders") {
		t.Error("expected /api/orders to be queued")
	}
	if o.ShouldQueue("/auth/login") {
		t.Error("expected /auth/login not to be queued")
	}

	tests := []func(*Options){
		func(o *Options) { o.BatchSize = 0 },
		func(o *Options) { o.MaxAttempts = 0 },
		func(o *Options) { o.BackoffFactor = 0.5 },
		func(o *Options) { o.BaseDelayMS = -1 },
		func(o *Options) { o.QueuePaths = []string{"("} },
	}
	for i, f := range tests {
		o := New()
		f(o)
		if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
			t.Errorf("test %d: expected %v got %v", i, terr.ErrInvalidOptions, err)
		}
	}
}

func TestUnmarshalYAML(t *testing.T) {
	o := &Options{}
	if err := yaml.Unmarshal([]byte("batch_size: 4\nbackoff_factor: 3\n"), o); err != nil {
		t.Fatal(err)
	}
	if o.BatchSize != 4 || o.BackoffFactor != 3 || o.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("unexpected options %+v", o)
	}
	o2 := o.Clone()
	o2.QueuePaths[0] = "x"
	if o.QueuePaths[0] == "x" {
		t.Error("expected deep clone")
	}
}
