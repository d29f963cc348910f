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

package handlers

import (
	"net/http"

	"github.com/tetherproxy/tether/pkg/observability/logging"
)

// ReloaderFunc reloads the running configuration and reports whether anything changed
type ReloaderFunc func(source string) (bool, error)

// ReloadHandleFunc will reload the running configuration if it has changed
func ReloadHandleFunc(f ReloaderFunc, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if f == nil {
			writeText(w, http.StatusOK, "configuration NOT reloaded")
			return
		}
		logger.Warn("configuration reload starting now", logging.Pairs{"source": "reloadEndpoint"})
		reloaded, err := f("reloadEndpoint")
		if err != nil {
			logger.Error("configuration reload failed", logging.Pairs{"detail": err.Error()})
			writeText(w, http.StatusInternalServerError, "configuration NOT reloaded: "+err.Error())
			return
		}
		if !reloaded {
			writeText(w, http.StatusOK, "configuration NOT reloaded")
			return
		}
		writeText(w, http.StatusOK, "configuration reloaded")
	}
}
