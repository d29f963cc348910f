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

// Package config provides Tether configuration abilities, including
// parsing and printing configuration files, command line parameters, and
// environment variables, as well as default values and state.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	bso "github.com/tetherproxy/tether/pkg/backgroundsync/options"
	mco "github.com/tetherproxy/tether/pkg/cache/memory/options"
	co "github.com/tetherproxy/tether/pkg/connectivity/options"
	terr "github.com/tetherproxy/tether/pkg/errors"
	fropt "github.com/tetherproxy/tether/pkg/frontend/options"
	lo "github.com/tetherproxy/tether/pkg/observability/logging/options"
	mo "github.com/tetherproxy/tether/pkg/observability/metrics/options"
	tracing "github.com/tetherproxy/tether/pkg/observability/tracing/options"
	fo "github.com/tetherproxy/tether/pkg/proxy/fetcher/options"
	sto "github.com/tetherproxy/tether/pkg/proxy/strategy/options"
	so "github.com/tetherproxy/tether/pkg/storage/options"
	wo "github.com/tetherproxy/tether/pkg/warmup/options"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration object
type Config struct {
	// Main is the primary MainConfig section
	Main *MainConfig `yaml:"main,omitempty"`
	// Frontend provides configurations about the Proxy Front End
	Frontend *fropt.Options `yaml:"frontend,omitempty"`
	// Origin is the upstream every proxied request is sent to
	Origin *fo.Options `yaml:"origin,omitempty"`
	// Logging provides configurations that affect logging behavior
	Logging *lo.Options `yaml:"logging,omitempty"`
	// Metrics provides configurations for collecting Metrics about the application
	Metrics *mo.Options `yaml:"metrics,omitempty"`
	// Tracing provides the distributed tracing configuration
	Tracing *tracing.Options `yaml:"tracing,omitempty"`
	// Cache configures the in-memory TTL cache
	Cache *mco.Options `yaml:"cache,omitempty"`
	// Storage configures the persistent store
	Storage *so.Options `yaml:"storage,omitempty"`
	// Strategies maps request paths to caching strategies
	Strategies *sto.Options `yaml:"strategies,omitempty"`
	// Sync configures the mutation queue
	Sync *bso.Options `yaml:"sync,omitempty"`
	// Warmup configures the cache warmer
	Warmup *wo.Options `yaml:"warmup,omitempty"`
	// Connectivity configures the online/offline monitor
	Connectivity *co.Options `yaml:"connectivity,omitempty"`

	// Resources holds runtime resources uses by the Config
	Resources *Resources `yaml:"-"`

	LoaderWarnings []string `yaml:"-"`
}

// MainConfig is a collection of general configuration values.
type MainConfig struct {
	// InstanceID represents a unique ID for the current instance, when multiple instances on the same host
	InstanceID int `yaml:"instance_id,omitempty"`
	// CacheVersion namespaces cache keys. Changing it on reload stages a new version
	// that is activated when a client sends SKIP_WAITING.
	CacheVersion string `yaml:"cache_version,omitempty"`
	// ManagementBasePath is the path prefix of the management API
	ManagementBasePath string `yaml:"management_base_path,omitempty"`
	// PprofServer provides the name of the http listener that will host the pprof debugging routes
	// Options are: "metrics" or "off"; default is metrics
	PprofServer string `yaml:"pprof_server,omitempty"`
	// ServerName represents the server name that is conveyed in Via headers to upstream origins
	// defaults to os.Hostname
	ServerName string `yaml:"server_name,omitempty"`
	// ConfigRateLimitMS is the minimum interval between config file staleness checks
	ConfigRateLimitMS int `yaml:"config_rate_limit_ms,omitempty"`

	// ReloaderLock is used to lock the config for reloading
	ReloaderLock sync.Mutex `yaml:"-"`

	configFilePath      string
	configLastModified  time.Time
	configRateLimitTime time.Time
	stalenessCheckLock  sync.Mutex
}

// SetStalenessInfo sets the values used to determine if the config file has changed
func (mc *MainConfig) SetStalenessInfo(fp string, lm, rlt time.Time) {
	mc.configFilePath = fp
	mc.configLastModified = lm
	mc.configRateLimitTime = rlt
}

// Resources is a collection of values used by configs at runtime that are not part of the config itself
type Resources struct {
	QuitChan chan bool `yaml:"-"`
}

// ErrInvalidPprofServerName returns an error for invalid pprof server name
var ErrInvalidPprofServerName = errors.New("invalid pprof server name")

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true,
	"error": true, "none": true}

// NewConfig returns a Config initialized with default values.
func NewConfig() *Config {
	hn, _ := os.Hostname()
	return &Config{
		Main: &MainConfig{
			CacheVersion:       DefaultCacheVersion,
			ManagementBasePath: DefaultManagementBasePath,
			PprofServer:        DefaultPprofServerName,
			ServerName:         hn,
			ConfigRateLimitMS:  DefaultConfigRateLimitMS,
		},
		Frontend:       fropt.New(),
		Origin:         fo.New(),
		Logging:        lo.New(),
		Metrics:        mo.New(),
		Tracing:        tracing.New(),
		Cache:          mco.New(),
		Storage:        so.New(),
		Strategies:     sto.New(),
		Sync:           bso.New(),
		Warmup:         wo.New(),
		Connectivity:   co.New(),
		LoaderWarnings: make([]string, 0),
		Resources: &Resources{
			QuitChan: make(chan bool, 1),
		},
	}
}

// loadFile loads application configuration from a YAML-formatted file.
func (c *Config) loadFile(flags *Flags) error {
	b, err := os.ReadFile(flags.ConfigPath)
	if err != nil {
		return err
	}
	if err = c.loadYAMLConfig(b); err != nil {
		return fmt.Errorf("%s: %w", flags.ConfigPath, err)
	}
	c.Main.configFilePath = flags.ConfigPath
	c.Main.configLastModified = c.CheckFileLastModified()
	return nil
}

// loadYAMLConfig loads application configuration from a YAML-formatted byte slice.
// Unknown keys are rejected.
func (c *Config) loadYAMLConfig(b []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// CheckFileLastModified returns the last modified date of the running config file, if present
func (c *Config) CheckFileLastModified() time.Time {
	if c.Main == nil || c.Main.configFilePath == "" {
		return time.Time{}
	}
	file, err := os.Stat(c.Main.configFilePath)
	if err != nil {
		return time.Time{}
	}
	return file.ModTime()
}

// Validate checks every section and derives their runtime values
func (c *Config) Validate() error {
	if c.Main == nil {
		c.Main = NewConfig().Main
	}
	if err := c.processPprofConfig(); err != nil {
		return err
	}
	if c.Main.CacheVersion == "" {
		c.Main.CacheVersion = DefaultCacheVersion
	}
	if c.Main.ManagementBasePath == "" {
		c.Main.ManagementBasePath = DefaultManagementBasePath
	}
	if !strings.HasPrefix(c.Main.ManagementBasePath, "/") ||
		c.Main.ManagementBasePath == "/" {
		return fmt.Errorf("%w: management_base_path must be an absolute, non-root path",
			terr.ErrInvalidOptions)
	}
	c.Main.ManagementBasePath = strings.TrimSuffix(c.Main.ManagementBasePath, "/")
	if c.Main.ConfigRateLimitMS <= 0 {
		c.Main.ConfigRateLimitMS = DefaultConfigRateLimitMS
	}

	if c.Logging == nil {
		c.Logging = lo.New()
	}
	if !logLevels[strings.ToLower(c.Logging.LogLevel)] {
		c.LoaderWarnings = append(c.LoaderWarnings,
			fmt.Sprintf("unknown log level %q, using %s", c.Logging.LogLevel, lo.DefaultLogLevel))
		c.Logging.LogLevel = lo.DefaultLogLevel
	}
	if c.Metrics == nil {
		c.Metrics = mo.New()
	}

	if c.Frontend == nil {
		c.Frontend = fropt.New()
	}
	if c.Origin == nil {
		c.Origin = fo.New()
	}
	if c.Tracing == nil {
		c.Tracing = tracing.New()
	}
	if c.Cache == nil {
		c.Cache = mco.New()
	}
	if c.Storage == nil {
		c.Storage = so.New()
	}
	if c.Strategies == nil {
		c.Strategies = sto.New()
	}
	if c.Sync == nil {
		c.Sync = bso.New()
	}
	if c.Warmup == nil {
		c.Warmup = wo.New()
	}
	if c.Connectivity == nil {
		c.Connectivity = co.New()
	}

	for _, v := range []interface{ Validate() error }{
		c.Frontend, c.Origin, c.Tracing, c.Cache, c.Storage,
		c.Strategies, c.Sync, c.Warmup, c.Connectivity,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) processPprofConfig() error {
	switch c.Main.PprofServer {
	case "metrics", "off":
		return nil
	case "":
		c.Main.PprofServer = DefaultPprofServerName
		return nil
	}
	return ErrInvalidPprofServerName
}

// Clone returns an exact copy of the subject *Config
func (c *Config) Clone() *Config {

	nc := NewConfig()

	nc.Main.InstanceID = c.Main.InstanceID
	nc.Main.CacheVersion = c.Main.CacheVersion
	nc.Main.ManagementBasePath = c.Main.ManagementBasePath
	nc.Main.PprofServer = c.Main.PprofServer
	nc.Main.ServerName = c.Main.ServerName
	nc.Main.ConfigRateLimitMS = c.Main.ConfigRateLimitMS

	nc.Main.configFilePath = c.Main.configFilePath
	nc.Main.configLastModified = c.Main.configLastModified
	nc.Main.configRateLimitTime = c.Main.configRateLimitTime

	if c.Frontend != nil {
		nc.Frontend = c.Frontend.Clone()
	}
	if c.Origin != nil {
		nc.Origin = c.Origin.Clone()
	}
	if c.Logging != nil {
		nc.Logging = c.Logging.Clone()
	}
	if c.Metrics != nil {
		nc.Metrics = c.Metrics.Clone()
	}
	if c.Tracing != nil {
		nc.Tracing = c.Tracing.Clone()
	}
	if c.Cache != nil {
		nc.Cache = c.Cache.Clone()
	}
	if c.Storage != nil {
		nc.Storage = c.Storage.Clone()
	}
	if c.Strategies != nil {
		nc.Strategies = c.Strategies.Clone()
	}
	if c.Sync != nil {
		nc.Sync = c.Sync.Clone()
	}
	if c.Warmup != nil {
		nc.Warmup = c.Warmup.Clone()
	}
	if c.Connectivity != nil {
		nc.Connectivity = c.Connectivity.Clone()
	}
	nc.LoaderWarnings = append(nc.LoaderWarnings, c.LoaderWarnings...)

	return nc
}

// IsStale returns true if the running config is stale versus the file it was loaded from
func (c *Config) IsStale() bool {

	if c.Main == nil {
		return false
	}

	c.Main.stalenessCheckLock.Lock()
	defer c.Main.stalenessCheckLock.Unlock()

	if c.Main.configFilePath == "" ||
		time.Now().Before(c.Main.configRateLimitTime) {
		return false
	}

	c.Main.configRateLimitTime =
		time.Now().Add(time.Millisecond * time.Duration(c.Main.ConfigRateLimitMS))
	t := c.CheckFileLastModified()
	if t.IsZero() {
		return false
	}
	return t != c.Main.configLastModified
}

const masked = "*****"

func (c *Config) String() string {
	cp := c.Clone()

	// strip secrets
	if cp.Storage != nil {
		if cp.Storage.Redis != nil && cp.Storage.Redis.Password != "" {
			cp.Storage.Redis.Password = masked
		}
		if cp.Storage.Etcd != nil && cp.Storage.Etcd.Password != "" {
			cp.Storage.Etcd.Password = masked
		}
	}
	if cp.Tracing != nil && cp.Tracing.CollectorPass != "" {
		cp.Tracing.CollectorPass = masked
	}

	b, err := yaml.Marshal(cp)
	if err == nil {
		return string(b)
	}

	return ""

}

// ConfigFilePath returns the file path from which this configuration is based
func (c *Config) ConfigFilePath() string {
	if c.Main != nil {
		return c.Main.configFilePath
	}
	return ""
}
