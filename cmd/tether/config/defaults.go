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

package config

const (
	// DefaultConfigPath is the default location of the Tether config file
	DefaultConfigPath = "/etc/tether/tether.yaml"
	// DefaultManagementBasePath is the default path prefix of the management API
	DefaultManagementBasePath = "/tether"
	// DefaultCacheVersion is the cache version used when none is configured
	DefaultCacheVersion = "v1"
	// DefaultPprofServerName defines the default Pprof Server Name
	DefaultPprofServerName = "metrics"
	// DefaultConfigRateLimitMS is the minimum interval between config file staleness checks
	DefaultConfigRateLimitMS = 3000
	// DefaultStoreName names the persistent store in logs and metrics
	DefaultStoreName = "default"
)
