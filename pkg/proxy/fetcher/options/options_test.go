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
)

func TestValidate(t *testing.T) {
	o := New()
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
	o.URL = "ftp://example.com"
	if err := o.Validate(); !errors.Is(err, terr.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", terr.ErrInvalidOptions, err)
	}
	o.URL = "http://example.com/base/"
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.ParsedURL.Path != "/base" {
		t.Errorf("expected %s got %s", "/base", o.ParsedURL.Path)
	}
	if o.Timeout.Milliseconds() != DefaultTimeoutMS {
		t.Errorf("expected %d got %d", DefaultTimeoutMS, o.Timeout.Milliseconds())
	}
}

func TestClone(t *testing.T) {
	o := New()
	o.URL = "http://example.com"
	o.RequestHeaders = map[string]string{"A": "1"}
	o.Validate()
	o2 := o.Clone()
	o2.RequestHeaders["A"] = "2"
	o2.ParsedURL.Host = "other"
	if o.RequestHeaders["A"] != "1" || o.ParsedURL.Host != "example.com" {
		t.Error("expected deep clone")
	}
}
