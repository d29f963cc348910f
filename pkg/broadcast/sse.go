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

package broadcast

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/proxy/headers"
)

// DefaultKeepAlive is how often an idle event stream receives a comment line
const DefaultKeepAlive = 30 * time.Second

// EventStreamHandler returns an http.Handler that streams messages to the
// client as Server-Sent Events until the client disconnects
func (b *Broadcaster) EventStreamHandler(keepAlive time.Duration) http.Handler {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		ch, cancel := b.Subscribe(0)
		defer cancel()

		h := w.Header()
		h.Set(headers.NameContentType, headers.ValueTextEventStream)
		h.Set(headers.NameCacheControl, headers.ValueNoCache)
		h.Set(headers.NameConnection, headers.ValueKeepAlive)
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case m, ok := <-ch:
				if !ok {
					return
				}
				data, err := json.Marshal(m)
				if err != nil {
					b.logger.Warn("could not encode broadcast message",
						logging.Pairs{"type": string(m.Type), "detail": err.Error()})
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", m.Type, data)
				flusher.Flush()
			}
		}
	})
}
