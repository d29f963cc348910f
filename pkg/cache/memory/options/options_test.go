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
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	o := New()
	o.MaxStaleMS = -1
	o.ReapIntervalMS = -1
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.MaxStale != 0 || o.ReapInterval != 0 {
		t.Errorf("expected disabled reaper and no stale retention, got %v %v", o.ReapInterval, o.MaxStale)
	}
	o = New()
	o.MaxStaleMS = 1500
	o.Validate()
	if o.MaxStale != 1500*time.Millisecond {
		t.Errorf("expected %v got %v", 1500*time.Millisecond, o.MaxStale)
	}
	o.MaxItems = 0
	if err := o.Validate(); err == nil {
		t.Error("expected error for zero max items")
	}
}

func TestEqual(t *testing.T) {
	o := New()
	o2 := o.Clone()
	if !o.Equal(o2) {
		t.Error("expected equal")
	}
	o2.MaxStaleMS = 1
	if o.Equal(o2) {
		t.Error("expected not equal")
	}
}
