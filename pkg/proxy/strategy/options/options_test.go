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
	"github.com/tetherproxy/tether/pkg/proxy/strategy"

	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	o := New()
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.NavigationTimeout.Milliseconds() != DefaultNavigationTimeoutMS {
		t.Errorf("expected %d got %d", DefaultNavigationTimeoutMS, o.NavigationTimeout.Milliseconds())
	}
	if o.Rules[0].StrategyType != strategy.CacheFirst {
		t.Errorf("expected %s got %s", strategy.CacheFirst, o.Rules[0].StrategyType)
	}
	if !o.Rules[0].Regexp.MatchString("/app/main.js") {
		t.Error("expected static pattern to match a .js path")
	}
}

func TestValidateErrors(t *testing.T) {
	o := New()
	o.Rules = []*Rule{{Pattern: "(", Strategy: "cache-first"}}
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
	o.Rules = []*Rule{{Pattern: "^/x", Strategy: "cache-never"}}
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
	o = New()
	o.Compression = "lz4"
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
}

func TestUnmarshalYAML(t *testing.T) {
	const conf = `
navigation_timeout_ms: 250
rules:
  - pattern: '^/feed/'
    strategy: network-first
`
	o := &Options{}
	if err := yaml.Unmarshal([]byte(conf), o); err != nil {
		t.Fatal(err)
	}
	if o.NavigationTimeoutMS != 250 {
		t.Errorf("expected %d got %d", 250, o.NavigationTimeoutMS)
	}
	if o.ShellPath != DefaultShellPath {
		t.Errorf("expected %s got %s", DefaultShellPath, o.ShellPath)
	}
	if len(o.Rules) != 1 {
		t.Errorf("expected %d got %d", 1, len(o.Rules))
	}
}

func TestClone(t *testing.T) {
	o := New()
	o2 := o.Clone()
	o2.Rules[0].Pattern = "changed"
	if o.Rules[0].Pattern == "changed" {
		t.Error("expected clone to copy rules")
	}
}
