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
	"hash/fnv"
	"net/http"
	"strconv"

	"github.com/tetherproxy/tether/pkg/storage"
)

// DeriveCacheKey calculates the cache key of a request under the provided cache version.
// Query parameters are sorted so equivalent URLs share a key.
func DeriveCacheKey(version string, r *http.Request) string {
	path := r.URL.EscapedPath()
	if path == "" {
		path = "/"
	}
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.Query().Encode()
	}
	return version + "." + path
}

// ShellKey returns the cache key of the application shell under the provided cache version
func ShellKey(version, shellPath string) string {
	return version + "." + shellPath
}

// persistKey returns the storage key used for a persisted document
func persistKey(version, cacheKey string) string {
	h := fnv.New64a()
	h.Write([]byte(cacheKey))
	return persistPrefix(version) + strconv.FormatUint(h.Sum64(), 16)
}

func persistPrefix(version string) string {
	return storage.ResponsePrefix + version + "_"
}
