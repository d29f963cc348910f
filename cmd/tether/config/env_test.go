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

import (
	"testing"
)

func TestLoadEnvVars(t *testing.T) {

	t.Setenv(evOriginURL, "http://1.1.1.1:9090/some/path")
	t.Setenv(evProxyPort, "4001")
	t.Setenv(evMetricsPort, "4002")
	t.Setenv(evLogLevel, "debug")
	t.Setenv(evCacheVersion, "v3")
	t.Setenv(evStorageProvider, "filesystem")

	conf, _, err := Load("tether-test", "0", []string{"-config", writeConfig(t, "")})
	if err != nil {
		t.Fatal(err)
	}

	if conf.Frontend.ListenPort != 4001 {
		t.Errorf("expected %d got %d", 4001, conf.Frontend.ListenPort)
	}

	if conf.Metrics.ListenPort != 4002 {
		t.Errorf("expected %d got %d", 4002, conf.Metrics.ListenPort)
	}

	u := conf.Origin.ParsedURL
	if u.Scheme != "http" {
		t.Errorf("expected %s got %s", "http", u.Scheme)
	}

	if u.Host != "1.1.1.1:9090" {
		t.Errorf("expected %s got %s", "1.1.1.1:9090", u.Host)
	}

	if u.Path != "/some/path" {
		t.Errorf("expected %s got %s", "/some/path", u.Path)
	}

	if conf.Logging.LogLevel != "debug" {
		t.Errorf("expected %s got %s", "debug", conf.Logging.LogLevel)
	}

	if conf.Main.CacheVersion != "v3" {
		t.Errorf("expected %s got %s", "v3", conf.Main.CacheVersion)
	}

	if conf.Storage.Provider != "filesystem" {
		t.Errorf("expected %s got %s", "filesystem", conf.Storage.Provider)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv(evProxyPort, "4001")
	conf, _, err := Load("tether-test", "0", []string{"-config", writeConfig(t, ""),
		"-origin-url", "http://origin", "-proxy-port", "5001"})
	if err != nil {
		t.Fatal(err)
	}
	if conf.Frontend.ListenPort != 5001 {
		t.Errorf("expected %d got %d", 5001, conf.Frontend.ListenPort)
	}
}
