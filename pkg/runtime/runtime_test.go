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

package runtime

import "testing"

func TestProduct(t *testing.T) {
	ApplicationName, ApplicationVersion = "tether", ""
	if p := Product(); p != "tether" {
		t.Errorf("expected %s got %s", "tether", p)
	}
	ApplicationVersion = "1.0.0"
	if p := Product(); p != "tether/1.0.0" {
		t.Errorf("expected %s got %s", "tether/1.0.0", p)
	}
}
