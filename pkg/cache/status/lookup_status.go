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

// Package status governs the possible Cache Lookup Status values
package status

import "strconv"

// LookupStatus defines the possible status of a cache lookup
type LookupStatus int

const (
	// LookupStatusHit indicates a fresh cache hit on lookup
	LookupStatusHit = LookupStatus(iota)
	// LookupStatusStaleHit indicates an entry past its ttl was served while a refresh runs
	LookupStatusStaleHit
	// LookupStatusKeyMiss indicates a full key miss (cache key does not exist) on lookup
	LookupStatusKeyMiss
	// LookupStatusExpired indicates the key existed but had outlived its ttl, and was evicted
	LookupStatusExpired
	// LookupStatusProxyOnly indicates that the response came from the origin without using the cache
	LookupStatusProxyOnly
	// LookupStatusProxyError indicates that the origin could not produce a usable response
	LookupStatusProxyError
	// LookupStatusShell indicates a navigation was answered with the cached application shell
	LookupStatusShell
	// LookupStatusOffline indicates the synthetic offline response was served
	LookupStatusOffline
	// LookupStatusQueued indicates a mutation was accepted into the background sync queue
	LookupStatusQueued
	// LookupStatusError indicates that there was an error looking up the object in the cache
	LookupStatusError
)

var cacheLookupStatusNames = map[string]LookupStatus{
	"hit":         LookupStatusHit,
	"stale":       LookupStatusStaleHit,
	"kmiss":       LookupStatusKeyMiss,
	"expired":     LookupStatusExpired,
	"proxy-only":  LookupStatusProxyOnly,
	"proxy-error": LookupStatusProxyError,
	"shell":       LookupStatusShell,
	"offline":     LookupStatusOffline,
	"queued":      LookupStatusQueued,
	"error":       LookupStatusError,
}

var cacheLookupStatusValues = make(map[LookupStatus]string, len(cacheLookupStatusNames))

func init() {
	for k, v := range cacheLookupStatusNames {
		cacheLookupStatusValues[v] = k
	}
}

func (s LookupStatus) String() string {
	if v, ok := cacheLookupStatusValues[s]; ok {
		return v
	}
	return strconv.Itoa(int(s))
}

// Parse returns the LookupStatus for the provided name
func Parse(name string) (LookupStatus, bool) {
	s, ok := cacheLookupStatusNames[name]
	return s, ok
}
