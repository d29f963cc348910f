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
	o.FailureThreshold = 0
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.FailureThreshold != DefaultFailureThreshold {
		t.Errorf("expected %d got %d", DefaultFailureThreshold, o.FailureThreshold)
	}
	o.ProbePath = "health"
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
	o.ProbePath = "/"
	o.ProbeIntervalMS = -1
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
}

func TestUnmarshalYAML(t *testing.T) {
	o := &Options{}
	if err := yaml.Unmarshal([]byte("probe_interval_ms: 1000\n"), o); err != nil {
		t.Fatal(err)
	}
	if o.ProbeIntervalMS != 1000 || o.ProbePath != DefaultProbePath {
		t.Errorf("unexpected options %+v", o)
	}
	o2 := o.Clone()
	if o2.ProbeIntervalMS != 1000 {
		t.Error("expected clone")
	}
}
