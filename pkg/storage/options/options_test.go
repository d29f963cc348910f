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
	o := &Options{}
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.Provider != DefaultProvider {
		t.Errorf("expected %s got %s", DefaultProvider, o.Provider)
	}
	if o.Redis == nil || o.BBolt == nil {
		t.Error("expected provider options to be populated")
	}
	o.Provider = "memcached"
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
}

func TestClone(t *testing.T) {
	o := New()
	o.Provider = "redis"
	o.Redis.Password = "secret"
	o2 := o.Clone()
	o2.Redis.Password = "changed"
	o2.Redis.Endpoints[0] = "other:6379"
	if o.Redis.Password != "secret" {
		t.Errorf("expected %s got %s", "secret", o.Redis.Password)
	}
	if o.Redis.Endpoints[0] == "other:6379" {
		t.Error("expected endpoints to be copied")
	}
	if o2.Provider != "redis" {
		t.Errorf("expected %s got %s", "redis", o2.Provider)
	}
}

func TestUnmarshalYAML(t *testing.T) {
	o := New()
	if err := yaml.Unmarshal([]byte("provider: bbolt\n"), o); err != nil {
		t.Fatal(err)
	}
	if o.Provider != "bbolt" {
		t.Errorf("expected %s got %s", "bbolt", o.Provider)
	}
	if o.BBolt == nil {
		t.Error("expected default bbolt options")
	}
}
