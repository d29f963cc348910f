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
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/tetherproxy/tether/pkg/backgroundsync"
	"github.com/tetherproxy/tether/pkg/cache/status"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/priority"
	"github.com/tetherproxy/tether/pkg/proxy/headers"
)

// mutate forwards a mutation to the origin. When the origin cannot be reached
// and the path is queueable, the mutation is handed to the background sync
// queue and a 202 naming the queue item is returned.
func (e *Engine) mutate(r *http.Request) (*Document, status.LookupStatus, string) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			return syntheticDocument(http.StatusBadRequest, headers.ValueTextPlain,
				[]byte("could not read request body")), status.LookupStatusError, ""
		}
	}

	var ferr error
	if e.observer != nil && !e.observer.Online() {
		ferr = terr.NewOfflineError(r.Method)
	} else {
		req := r.Clone(r.Context())
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		d, err := e.fetch(r.Context(), req, engineMutation)
		if err == nil {
			if d.StatusCode >= 200 && d.StatusCode <= 299 {
				// the cached representation is now out of date
				e.cache.Remove(e.Key(r))
			}
			return d, proxyStatus(d), ""
		}
		ferr = err
	}

	if (terr.IsUnreachable(ferr) || terr.IsOffline(ferr)) && e.queueable(r, body) {
		id, err := e.enqueue(r, body)
		if err == nil {
			return queuedDocument(id), status.LookupStatusQueued, id
		}
		e.logger.Warn("could not queue mutation", logging.Pairs{"method": r.Method,
			"uri": r.URL.RequestURI(), "detail": err.Error()})
	}
	e.logger.Debug("mutation not delivered", logging.Pairs{"method": r.Method,
		"uri": r.URL.RequestURI(), "detail": ferr.Error()})
	return offlineJSON(), status.LookupStatusOffline, ""
}

// queueable returns true when the queue accepts the path and the body can be
// stored as a JSON payload
func (e *Engine) queueable(r *http.Request, body []byte) bool {
	if e.queue == nil || !e.queue.Options().ShouldQueue(r.URL.Path) {
		return false
	}
	return len(body) == 0 || json.Valid(body)
}

func (e *Engine) enqueue(r *http.Request, body []byte) (string, error) {
	kind, err := backgroundsync.KindForMethod(r.Method)
	if err != nil {
		return "", err
	}
	var opts []backgroundsync.Option
	if v := r.Header.Get(headers.NameSyncPriority); v != "" {
		p, err := priority.Parse(v)
		if err != nil {
			return "", err
		}
		opts = append(opts, backgroundsync.WithPriority(p))
	}
	var payload json.RawMessage
	if len(body) > 0 {
		payload = json.RawMessage(body)
	}
	return e.queue.Enqueue(kind, r.URL.RequestURI(), payload, opts...)
}
