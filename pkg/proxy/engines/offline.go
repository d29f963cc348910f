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
	"encoding/json"
	"net/http"

	"github.com/tetherproxy/tether/pkg/cache/status"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/proxy/headers"
)

// OfflineJSONBody is the body of the synthetic response served when nothing
// can be produced for a non-navigation request
const OfflineJSONBody = `{"error":"Offline","message":"Not cached."}`

// OfflineHTMLBody is the body of the synthetic page served when a navigation
// cannot be answered from the origin or the cache
const OfflineHTMLBody = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Offline</title></head>
<body>
<h1>You are offline</h1>
<p>This page is not available offline. It will load when the connection returns.</p>
</body>
</html>
`

func syntheticDocument(code int, contentType string, body []byte) *Document {
	h := make(http.Header)
	h.Set(headers.NameContentType, contentType)
	h.Set(headers.NameCacheControl, headers.ValueNoStore)
	return &Document{StatusCode: code, Headers: h, Body: body}
}

func offlineJSON() *Document {
	return syntheticDocument(http.StatusServiceUnavailable, headers.ValueApplicationJSON,
		[]byte(OfflineJSONBody))
}

func offlineHTML() *Document {
	return syntheticDocument(http.StatusServiceUnavailable, headers.ValueTextHTMLUTF8,
		[]byte(OfflineHTMLBody))
}

type queuedResponse struct {
	Queued bool   `json:"queued"`
	ID     string `json:"id"`
}

func queuedDocument(id string) *Document {
	b, _ := json.Marshal(queuedResponse{Queued: true, ID: id})
	return syntheticDocument(http.StatusAccepted, headers.ValueApplicationJSON, b)
}

// passThrough forwards requests that no strategy applies to
func (e *Engine) passThrough(r *http.Request) (*Document, status.LookupStatus) {
	d, err := e.fetch(r.Context(), r, enginePassThrough)
	if err != nil {
		e.logger.Debug("origin unavailable", logging.Pairs{"method": r.Method,
			"uri": r.URL.RequestURI(), "detail": err.Error()})
		return offlineJSON(), status.LookupStatusOffline
	}
	return d, proxyStatus(d)
}
