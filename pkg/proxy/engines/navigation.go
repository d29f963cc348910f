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
	"context"
	"net/http"

	"github.com/tetherproxy/tether/pkg/cache/status"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/proxy/headers"
	"github.com/tetherproxy/tether/pkg/proxy/strategy"
)

// navigate races an uncached origin fetch against the navigation timeout. On
// timeout or failure it serves the cached page, then the cached application
// shell, then the offline page.
func (e *Engine) navigate(r *http.Request) (*Document, status.LookupStatus) {
	engine := strategy.NavigationWithTimeout.String()
	key := e.Key(r)

	ctx, cancel := context.WithTimeout(r.Context(), e.options.NavigationTimeout)
	defer cancel()
	req := r.Clone(ctx)
	req.Header.Set(headers.NameCacheControl, headers.ValueNoCache)

	d, err := e.fetch(ctx, req, engine)
	if err == nil && d.StatusCode < http.StatusInternalServerError {
		if e.cacheable(r, d) {
			e.writeCache(key, d)
		}
		return d, status.LookupStatusProxyOnly
	}
	if err != nil {
		e.logger.Debug("navigation falling back to cache", logging.Pairs{"cacheKey": key,
			"detail": err.Error()})
	}

	if cd, ls := e.lookup(key); cd != nil {
		return cd, ls
	}
	if sd, _ := e.lookup(ShellKey(e.version(), e.options.ShellPath)); sd != nil {
		return sd, status.LookupStatusShell
	}
	if err == nil {
		return d, status.LookupStatusProxyError
	}
	return offlineHTML(), status.LookupStatusOffline
}
