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

	"github.com/tetherproxy/tether/pkg/observability/logging"
)

func logUpstreamRequest(logger *logging.Logger, strategyName, method, path string,
	responseCode, size int, requestDuration float64) {
	logger.Debug("upstream request",
		logging.Pairs{
			"strategy":   strategyName,
			"method":     method,
			"uri":        path,
			"code":       responseCode,
			"size":       size,
			"durationMS": int(requestDuration * 1000),
		})
}

func logDownstreamRequest(logger *logging.Logger, r *http.Request) {
	logger.Debug("downstream request",
		logging.Pairs{
			"uri":       r.URL.RequestURI(),
			"method":    r.Method,
			"userAgent": r.UserAgent(),
			"clientIP":  r.RemoteAddr,
		})
}
