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
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/proxy/strategy"
)

// networkFirst answers from the origin and caches successful GET responses.
// When the origin fails it falls back to the cache, then to the offline payload.
func (e *Engine) networkFirst(r *http.Request) (*Document, status.LookupStatus) {
	engine := strategy.NetworkFirst.String()
	key := e.Key(r)
	d, err := e.fetch(r.Context(), r, engine)
	if err == nil && d.StatusCode < http.StatusInternalServerError {
		if e.cacheable(r, d) {
			e.writeCache(key, d)
		}
		return d, status.LookupStatusProxyOnly
	}
	if cd, ls := e.lookup(key); cd != nil {
		return cd, ls
	}
	if err == nil {
		// no cached copy, so the origin's error response is the best answer
		return d, status.LookupStatusProxyError
	}
	e.logger.Debug("origin unavailable and not cached", logging.Pairs{"strategy": engine,
		"cacheKey": key, "detail": err.Error()})
	return offlineJSON(), status.LookupStatusOffline
}
