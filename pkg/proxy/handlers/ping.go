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

// PingHandleFunc responds to an HTTP Request with 200 OK and "pong"
func PingHandleFunc(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "pong")
}

// ConfigHandleFunc responds with the running configuration rendered by f
func ConfigHandleFunc(f func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if f == nil {
			writeText(w, http.StatusNotFound, "configuration unavailable")
			return
		}
		writeText(w, http.StatusOK, f())
	}
}
