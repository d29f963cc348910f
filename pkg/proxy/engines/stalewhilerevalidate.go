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

package engines

import (
	"net/http"

	"github.com/tetherproxy/tether/pkg/cache/status"
	"github.com/tetherproxy/tether/pkg/proxy/strategy"
)

// staleWhileRevalidate answers immediately with any cached Document, even a
// stale persisted one, while a background fetch replaces it
func (e *Engine) staleWhileRevalidate(r *http.Request) (*Document, status.LookupStatus) {
	return e.cacheThenNetwork(r, strategy.StaleWhileRevalidate.String())
}
