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
	"fmt"

	"github.com/tetherproxy/tether/pkg/runtime"
)

const usageText = `
Tether Usage:

 You must provide -version, -config or -origin-url.

 Print Version Info:
 tether -version

 Validate a configuration file:
  tether -config /path/to/tether.yaml -validate-config

 Using a configuration file:
  tether -config /path/to/tether.yaml [-log-level debug|info|warn|error] [-proxy-port 8480] [-metrics-port 8481]

 Using origin-url:
  tether -origin-url https://api.example.com [-log-level debug|info|warn|error] [-proxy-port 8480] [-metrics-port 8481]

------

 Offline-capable proxy for an API listening on 8080, persisting to bbolt:
   tether -origin-url https://api.example.com/ -proxy-port 8080 -storage-provider bbolt

 Start serving a new cache version once clients send SKIP_WAITING:
   tether -config /path/to/tether.yaml -cache-version v2

------

Tether listens on port 8480 by default. Set in a config file, or override using -proxy-port.

Default log level is info. Set in a config file, or override with -log-level.

The management API is served under /tether on the proxy port, and metrics are
served at /metrics on the metrics port (8481 by default). Send SIGHUP or POST
/tether/reload to reload a changed configuration file.
`

func version() string {
	return fmt.Sprintf("Tether version: %s, buildInfo: %s %s, goVersion: %s",
		runtime.ApplicationVersion,
		applicationBuildTime, applicationGitCommitID,
		applicationGoVersion,
	)
}

// PrintVersion prints the version information to stdout
func PrintVersion() {
	fmt.Println(version())
}

// PrintUsage prints the usage text to stdout
func PrintUsage() {
	fmt.Println()
	fmt.Println(version())
	fmt.Print(usageText + "\n")
}
