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

package main

import (
	"context"
	"time"

	"github.com/tetherproxy/tether/cmd/tether/config"
	"github.com/tetherproxy/tether/pkg/backgroundsync"
	"github.com/tetherproxy/tether/pkg/broadcast"
	"github.com/tetherproxy/tether/pkg/cache/memory"
	"github.com/tetherproxy/tether/pkg/connectivity"
	"github.com/tetherproxy/tether/pkg/lifecycle"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/tracing"
	tr "github.com/tetherproxy/tether/pkg/observability/tracing/registration"
	"github.com/tetherproxy/tether/pkg/proxy/engines"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher"
	"github.com/tetherproxy/tether/pkg/push"
	"github.com/tetherproxy/tether/pkg/storage"
	sr "github.com/tetherproxy/tether/pkg/storage/registration"
	"github.com/tetherproxy/tether/pkg/warmup"
)

const cacheName = "default"

// components are built once at startup and survive config reloads
type components struct {
	tracer      *tracing.Tracer
	store       storage.Store
	cache       *memory.Cache
	fetcher     *fetcher.HTTPFetcher
	broadcaster *broadcast.Broadcaster
	monitor     *connectivity.Monitor
	sync        *backgroundsync.Manager
	lifecycle   *lifecycle.Controller
	engine      *engines.Engine
	warmer      *warmup.Warmer
	push        *push.Hook
}

func newComponents(conf *config.Config, logger *logging.Logger) (*components, error) {
	c := &components{}
	var err error

	c.tracer, err = tr.GetTracer(conf.Tracing, logger)
	if err != nil {
		return nil, err
	}

	c.store, err = sr.LoadStore(config.DefaultStoreName, conf.Storage, logger)
	if err != nil {
		c.close(logger)
		return nil, err
	}

	c.cache = memory.New(cacheName, conf.Cache, logger)
	c.cache.Connect()

	c.fetcher, err = fetcher.New(conf.Origin, c.tracer, logger)
	if err != nil {
		c.close(logger)
		return nil, err
	}

	c.broadcaster = broadcast.New(logger)
	c.monitor = connectivity.New(conf.Connectivity, c.fetcher, c.broadcaster, logger)

	c.sync, err = backgroundsync.New(conf.Sync, c.store, c.fetcher, c.monitor,
		c.broadcaster, logger)
	if err != nil {
		c.close(logger)
		return nil, err
	}

	c.lifecycle = lifecycle.New(conf.Main.CacheVersion, c.broadcaster, logger)

	c.engine, err = engines.New(conf.Strategies, c.cache, c.fetcher,
		engines.WithStore(c.store),
		engines.WithQueue(c.sync),
		engines.WithObserver(c.monitor),
		engines.WithVersions(c.lifecycle),
		engines.WithTracer(c.tracer),
		engines.WithLogger(logger),
	)
	if err != nil {
		c.close(logger)
		return nil, err
	}
	// responses cached under the previous version are no longer reachable
	c.lifecycle.OnActivate(func(previous, active string) {
		n := c.engine.Purge(previous)
		logger.Info("purged previous cache version",
			logging.Pairs{"previous": previous, "active": active, "purged": n})
	})

	c.warmer, err = warmup.New(conf.Warmup, c.cache, c.store, c.fetcher, logger)
	if err != nil {
		c.close(logger)
		return nil, err
	}

	c.push = push.New(c.broadcaster)

	c.monitor.Start()
	c.sync.Start()
	c.warmer.Start()
	return c, nil
}

// close stops the components in reverse order of their construction
func (c *components) close(logger *logging.Logger) {
	if c == nil {
		return
	}
	if c.warmer != nil {
		c.warmer.Close()
	}
	if c.engine != nil {
		c.engine.Close()
	}
	if c.sync != nil {
		c.sync.Close()
	}
	if c.monitor != nil {
		c.monitor.Stop()
	}
	if c.broadcaster != nil {
		c.broadcaster.Close()
	}
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			logger.Error("store close failed", logging.Pairs{"detail": err.Error()})
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.tracer.Shutdown(ctx); err != nil {
		logger.Error("tracer shutdown failed", logging.Pairs{"detail": err.Error()})
	}
}
