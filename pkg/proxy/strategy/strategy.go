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

// Package strategy enumerates the cache/network policies applied to proxied requests
package strategy

import "strconv"

// Strategy enumerates the request handling strategies
type Strategy int

const (
	// StaleWhileRevalidate serves any cached copy immediately while refreshing it
	StaleWhileRevalidate = Strategy(iota)
	// CacheFirst serves a cached copy when present and refreshes in the background
	CacheFirst
	// NetworkFirst prefers the origin and falls back to the cache on failure
	NetworkFirst
	// NavigationWithTimeout races the origin against a timeout for page loads
	NavigationWithTimeout
)

// Names is a map of strategies keyed by name
var Names = map[string]Strategy{
	"stale-while-revalidate": StaleWhileRevalidate,
	"cache-first":            CacheFirst,
	"network-first":          NetworkFirst,
	"navigation":             NavigationWithTimeout,
}

// Values is a map of strategies keyed by internal id
var Values = make(map[Strategy]string)

func init() {
	for k, v := range Names {
		Values[v] = k
	}
}

func (s Strategy) String() string {
	if v, ok := Values[s]; ok {
		return v
	}
	return strconv.Itoa(int(s))
}

// Parse returns the Strategy for the provided name, and false if the name is invalid
func Parse(name string) (Strategy, bool) {
	s, ok := Names[name]
	return s, ok
}
