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

	"github.com/tetherproxy/tether/pkg/lifecycle"
	"github.com/tetherproxy/tether/pkg/push"
)

type versionResponse struct {
	Version string `json:"version"`
	Pending string `json:"pending,omitempty"`
}

func (m *Management) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Version: m.Lifecycle.Active(),
		Pending: m.Lifecycle.Pending(),
	})
}

// message handles a client message and responds with the reply message
func (m *Management) message(w http.ResponseWriter, r *http.Request) {
	var cm lifecycle.ClientMessage
	if err := decodeJSON(r, &cm); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	reply, err := m.Lifecycle.HandleMessage(cm)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, lifecycle.ErrUnknownMessage) {
			code = http.StatusBadRequest
		}
		writeError(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (m *Management) pushNotification(w http.ResponseWriter, r *http.Request) {
	var n push.Notification
	if err := decodeJSON(r, &n); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusAccepted, m.Push.Push(n))
}

func (m *Management) pushClick(w http.ResponseWriter, r *http.Request) {
	var c push.Click
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := m.Push.HandleClick(c)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
