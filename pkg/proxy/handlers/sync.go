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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tetherproxy/tether/pkg/backgroundsync"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/priority"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher"
)

type enqueueRequest struct {
	Kind        backgroundsync.Kind `json:"kind"`
	Endpoint    string              `json:"endpoint"`
	Payload     json.RawMessage     `json:"payload,omitempty"`
	Priority    string              `json:"priority,omitempty"`
	MaxAttempts int                 `json:"max_attempts,omitempty"`
}

type enqueueResponse struct {
	ID string `json:"id"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (m *Management) syncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.Sync.Status())
}

func (m *Management) syncItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.Sync.Items())
}

func (m *Management) syncEnqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, errors.New("endpoint is required"))
		return
	}
	p, err := priority.Parse(req.Priority)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := m.Sync.Enqueue(req.Kind, req.Endpoint, req.Payload,
		backgroundsync.WithPriority(p), backgroundsync.WithMaxAttempts(req.MaxAttempts))
	if err != nil {
		code := http.StatusServiceUnavailable
		if errors.Is(err, backgroundsync.ErrInvalidKind) ||
			errors.Is(err, fetcher.ErrNotOriginRelative) {
			code = http.StatusBadRequest
		}
		writeError(w, code, err)
		return
	}
	writeJSON(w, http.StatusAccepted, enqueueResponse{ID: id})
}

func (m *Management) syncForce(w http.ResponseWriter, r *http.Request) {
	n, err := m.Sync.ForceSync(r.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if terr.IsOffline(err) {
			code = http.StatusServiceUnavailable
		}
		writeError(w, code, fmt.Errorf("sync not run: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (m *Management) syncClear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{Count: m.Sync.ClearFailed()})
}

func (m *Management) syncRetry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{Count: m.Sync.RetryFailed()})
}
