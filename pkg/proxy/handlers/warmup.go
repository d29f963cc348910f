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
	"errors"
	"net/http"

	"github.com/tetherproxy/tether/pkg/priority"
	"github.com/tetherproxy/tether/pkg/proxy/headers"
	"github.com/tetherproxy/tether/pkg/warmup"

	"github.com/go-chi/chi/v5"
)

type warmupRequest struct {
	Key          string   `json:"key"`
	URL          string   `json:"url"`
	Priority     string   `json:"priority,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type warmupStatus struct {
	Pending int           `json:"pending"`
	Running bool          `json:"running"`
	Items   []warmup.Item `json:"items"`
}

func (m *Management) warmupStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, warmupStatus{
		Pending: m.Warmer.Pending(),
		Running: m.Warmer.Running(),
		Items:   m.Warmer.Items(),
	})
}

func (m *Management) warmupEnqueue(w http.ResponseWriter, r *http.Request) {
	var req warmupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := priority.Parse(req.Priority)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err = m.Warmer.Enqueue(req.Key, req.URL, warmup.WithPriority(p),
		warmup.WithDependencies(req.Dependencies...))
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, countResponse{Count: m.Warmer.Pending()})
	case errors.Is(err, warmup.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusServiceUnavailable, err)
	}
}

// warmupRun drains the queue synchronously
func (m *Management) warmupRun(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{Count: m.Warmer.Warmup(r.Context())})
}

func (m *Management) warmupGet(w http.ResponseWriter, r *http.Request) {
	data, ok := m.Warmer.GetWarmedData(chi.URLParam(r, "key"))
	if !ok {
		writeText(w, http.StatusNotFound, "not warmed")
		return
	}
	w.Header().Set(headers.NameCacheControl, headers.ValueNoCache)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
