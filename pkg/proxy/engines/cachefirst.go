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

// cacheFirst answers from the cache when possible and always revalidates in
// the background. On a miss the caller waits for the origin.
func (e *Engine) cacheFirst(r *http.Request) (*Document, status.LookupStatus) {
	return e.cacheThenNetwork(r, strategy.CacheFirst.String())
}

// cacheThenNetwork serves a cached Document and refreshes it in the
// background, or waits for a shared origin fetch on a miss
func (e *Engine) cacheThenNetwork(r *http.Request, engine string) (*Document, status.LookupStatus) {
	key := e.Key(r)
	if d, ls := e.lookup(key); d != nil {
		e.refresh(r, key, engine)
		return d, ls
	}
	d, err, _ := e.fetchShared(r, key, engine)
	if err != nil {
		e.logger.Debug("origin unavailable on cache miss", logging.Pairs{"strategy": engine,
			"cacheKey": key, "detail": err.Error()})
		return offlineJSON(), status.LookupStatusOffline
	}
	if d.StatusCode >= http.StatusInternalServerError {
		return d, status.LookupStatusProxyError
	}
	return d, status.LookupStatusKeyMiss
}
