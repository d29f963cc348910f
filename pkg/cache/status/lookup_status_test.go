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

package status

import "testing"

func TestString(t *testing.T) {
	t1 := LookupStatusHit
	t2 := LookupStatusShell
	var t3 LookupStatus = 42

	if t1.String() != "hit" {
		t.Errorf("expected %s got %s", "hit", t1.String())
	}
	if t2.String() != "shell" {
		t.Errorf("expected %s got %s", "shell", t2.String())
	}
	if t3.String() != "42" {
		t.Errorf("expected %s got %s", "42", t3.String())
	}
}

func TestParse(t *testing.T) {
	s, ok := Parse("offline")
	if !ok || s != LookupStatusOffline {
		t.Errorf("expected %s got %s", LookupStatusOffline, s)
	}
	if _, ok = Parse("bogus"); ok {
		t.Error("expected false")
	}
}
