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
	"errors"
	"strings"

	"github.com/tetherproxy/tether/pkg/cache/status"
	"github.com/tetherproxy/tether/pkg/encoding"
	terr "github.com/tetherproxy/tether/pkg/errors"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/storage"
)

// keyLister is implemented by caches that can enumerate their keys
type keyLister interface {
	Keys() []string
}

// lookup returns the cached Document for key. An expired Document still in
// memory is returned as a stale hit. When the memory cache misses and
// responses are persisted, the persisted copy is returned: a fresh copy is
// restored into memory as a hit, an expired one is served as a stale hit.
func (e *Engine) lookup(key string) (*Document, status.LookupStatus) {
	ro, ls, err := e.cache.RetrieveStaleReference(key)
	if err == nil {
		if d, ok := ro.(*Document); ok {
			return d, ls
		}
	}
	if !e.options.PersistResponses || e.store == nil {
		return nil, ls
	}
	d, err := e.readPersisted(key)
	if err != nil {
		if !errors.Is(err, storage.ErrKNF) {
			e.logger.Warn("could not read persisted response", logging.Pairs{"cacheKey": key,
				"detail": terr.NewStorageError("get", key, err).Error()})
		}
		return nil, ls
	}
	if rem := d.Remaining(e.now()); rem > 0 {
		e.cache.StoreReference(key, d, rem)
		return d, status.LookupStatusHit
	}
	return d, status.LookupStatusStaleHit
}

// writeCache stamps d and stores it in memory and, when enabled, the persistent store
func (e *Engine) writeCache(key string, d *Document) {
	d.StoredAt = e.now()
	d.TTL = e.options.CacheTTL
	if err := e.cache.StoreReference(key, d, d.TTL); err != nil {
		e.logger.Warn("could not cache response", logging.Pairs{"cacheKey": key, "detail": err.Error()})
	}
	if e.options.PersistResponses && e.store != nil {
		if err := e.writePersisted(key, d); err != nil {
			e.logger.Warn("could not persist response", logging.Pairs{"cacheKey": key,
				"detail": terr.NewStorageError("set", key, err).Error()})
		}
	}
}

func (e *Engine) writePersisted(key string, d *Document) error {
	buf, err := d.MarshalMsg(getMarshalBuf())
	if err != nil {
		putMarshalBuf(buf)
		return err
	}
	// Encode copies, so buf can go back to the pool
	b, err := encoding.Encode(e.codec, buf)
	putMarshalBuf(buf)
	if err != nil {
		return err
	}
	// persisted responses outlive their ttl so they can answer while offline
	return e.store.SetItem(persistKey(e.version(), key), b, 0)
}

func (e *Engine) readPersisted(key string) (*Document, error) {
	b, err := e.store.GetItem(persistKey(e.version(), key))
	if err != nil {
		return nil, err
	}
	b, err = encoding.Decode(b)
	if err != nil {
		return nil, err
	}
	d := &Document{}
	if _, err = d.UnmarshalMsg(b); err != nil {
		return nil, err
	}
	return d, nil
}

// Purge removes the cached and persisted responses of a cache version and
// returns how many entries were removed
func (e *Engine) Purge(version string) int {
	var n int
	if kl, ok := e.cache.(keyLister); ok {
		prefix := version + "."
		var keys []string
		for _, k := range kl.Keys() {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			e.cache.Remove(keys...)
			n += len(keys)
		}
	}
	if e.store != nil {
		keys, err := e.store.Keys(persistPrefix(version))
		if err == nil && len(keys) > 0 {
			err = e.store.RemoveItem(keys...)
			if err == nil {
				n += len(keys)
			}
		}
		if err != nil {
			e.logger.Warn("could not purge persisted responses", logging.Pairs{"version": version,
				"detail": terr.NewStorageError("remove", persistPrefix(version), err).Error()})
		}
	}
	e.logger.Info("purged cache version", logging.Pairs{"version": version, "entries": n})
	return n
}
