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

// Package registration constructs the configured persistent Store
package registration

import (
	"fmt"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/badger"
	"github.com/tetherproxy/tether/pkg/storage/bbolt"
	"github.com/tetherproxy/tether/pkg/storage/etcd"
	"github.com/tetherproxy/tether/pkg/storage/filesystem"
	"github.com/tetherproxy/tether/pkg/storage/memory"
	"github.com/tetherproxy/tether/pkg/storage/options"
	"github.com/tetherproxy/tether/pkg/storage/redis"
)

// NewStore returns an unconnected Store for the configured provider
func NewStore(name string, o *options.Options, logger *logging.Logger) (storage.Store, error) {
	if o == nil {
		o = options.New()
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	switch o.Provider {
	case "memory":
		return memory.New(name), nil
	case "filesystem":
		return filesystem.New(name, o.Filesystem, logger), nil
	case "bbolt":
		return bbolt.New(name, o.BBolt, logger), nil
	case "badger":
		return badger.New(name, o.Badger, logger), nil
	case "redis":
		return redis.New(name, o.Redis, logger), nil
	case "etcd":
		return etcd.New(name, o.Etcd, logger), nil
	}
	return nil, fmt.Errorf("unsupported storage provider: %s", o.Provider)
}

// LoadStore returns a connected Store for the configured provider
func LoadStore(name string, o *options.Options, logger *logging.Logger) (storage.Store, error) {
	s, err := NewStore(name, o, logger)
	if err != nil {
		return nil, err
	}
	if err = s.Connect(); err != nil {
		logger.Error("store connection failed", logging.Pairs{"name": name,
			"provider": o.Provider, "detail": err.Error()})
		return nil, err
	}
	return s, nil
}
