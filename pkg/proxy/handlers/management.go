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
	"time"

	"github.com/tetherproxy/tether/pkg/backgroundsync"
	"github.com/tetherproxy/tether/pkg/broadcast"
	"github.com/tetherproxy/tether/pkg/cache/memory"
	"github.com/tetherproxy/tether/pkg/connectivity"
	"github.com/tetherproxy/tether/pkg/lifecycle"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/proxy/engines"
	"github.com/tetherproxy/tether/pkg/push"
	"github.com/tetherproxy/tether/pkg/warmup"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultBasePath is the default path prefix of the management API
const DefaultBasePath = "/tether"

// Management holds the components exposed by the management API. Nil
// components leave their routes unregistered.
type Management struct {
	BasePath    string
	Config      func() string
	Reloader    ReloaderFunc
	Cache       *memory.Cache
	Engine      *engines.Engine
	Sync        *backgroundsync.Manager
	Warmer      *warmup.Warmer
	Monitor     *connectivity.Monitor
	Lifecycle   *lifecycle.Controller
	Broadcaster *broadcast.Broadcaster
	Push        *push.Hook
	KeepAlive   time.Duration
	Logger      *logging.Logger
}

// NewRouter returns the frontend router: the management API under the base
// path, and every other request handed to proxy
func NewRouter(m *Management, proxy http.Handler) http.Handler {
	if m.Logger == nil {
		m.Logger = logging.NoopLogger()
	}
	base := m.BasePath
	if base == "" {
		base = DefaultBasePath
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(frontendMetrics)

	r.Route(base, func(r chi.Router) {
		r.Get("/ping", PingHandleFunc)
		r.Get("/config", ConfigHandleFunc(m.Config))
		r.Post("/reload", ReloadHandleFunc(m.Reloader, m.Logger))

		if m.Cache != nil {
			r.Get("/cache/metrics", m.cacheMetrics)
			r.Post("/cache/clear", m.cacheClear)
		}
		if m.Engine != nil {
			r.Post("/cache/purge", m.cachePurge)
		}

		if m.Sync != nil {
			r.Route("/sync", func(r chi.Router) {
				r.Get("/", m.syncStatus)
				r.Get("/items", m.syncItems)
				r.Post("/", m.syncEnqueue)
				r.Post("/force", m.syncForce)
				r.Post("/clear", m.syncClear)
				r.Post("/retry", m.syncRetry)
			})
		}

		if m.Warmer != nil {
			r.Route("/warmup", func(r chi.Router) {
				r.Get("/", m.warmupStatus)
				r.Post("/", m.warmupEnqueue)
				r.Post("/run", m.warmupRun)
				r.Get("/{key}", m.warmupGet)
			})
		}

		if m.Monitor != nil {
			r.Get("/connectivity", m.connectivityStatus)
			r.Put("/connectivity", m.connectivitySet)
		}

		if m.Lifecycle != nil {
			r.Get("/version", m.version)
			r.Post("/messages", m.message)
		}

		if m.Broadcaster != nil {
			r.Method(http.MethodGet, "/events", m.Broadcaster.EventStreamHandler(m.KeepAlive))
		}

		if m.Push != nil {
			r.Post("/push", m.pushNotification)
			r.Post("/push/click", m.pushClick)
		}
	})

	if proxy != nil {
		r.Handle("/*", proxy)
	}
	return r
}
