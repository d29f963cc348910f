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

	"github.com/tetherproxy/tether/pkg/observability/logging"
)

type connectivityRequest struct {
	Online *bool `json:"online"`
}

func (m *Management) connectivityStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.Monitor.Status())
}

// connectivitySet overrides the online state until the next probe transition
func (m *Management) connectivitySet(w http.ResponseWriter, r *http.Request) {
	var req connectivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Online == nil {
		writeError(w, http.StatusBadRequest, errors.New("online is required"))
		return
	}
	m.Monitor.Set(*req.Online)
	m.Logger.Info("connectivity overridden", logging.Pairs{"online": *req.Online})
	writeJSON(w, http.StatusOK, m.Monitor.Status())
}
