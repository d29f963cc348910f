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
)

type purgeResult struct {
	Version string `json:"version"`
	Purged  int    `json:"purged"`
}

func (m *Management) cacheMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.Cache.Metrics())
}

func (m *Management) cacheClear(w http.ResponseWriter, r *http.Request) {
	m.Cache.Clear()
	m.Logger.Info("cache cleared", nil)
	w.WriteHeader(http.StatusNoContent)
}

// cachePurge removes the cached responses of a version, the active one by default
func (m *Management) cachePurge(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query().Get("version")
	if v == "" && m.Lifecycle != nil {
		v = m.Lifecycle.Active()
	}
	n := m.Engine.Purge(v)
	writeJSON(w, http.StatusOK, purgeResult{Version: v, Purged: n})
}
