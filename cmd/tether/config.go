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
	"os"
	"sync"
	"time"

	"github.com/tetherproxy/tether/cmd/tether/config"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
	"github.com/tetherproxy/tether/pkg/proxy/handlers"
	"github.com/tetherproxy/tether/pkg/runtime"
)

var cfgLock = &sync.Mutex{}

func runConfig(oldConf *config.Config, wg *sync.WaitGroup, logger *logging.Logger,
	comps *components, args []string, errorsFatal bool) error {

	metrics.BuildInfo.WithLabelValues(applicationGoVersion,
		applicationGitCommitID, runtime.ApplicationVersion).Set(1)

	cfgLock.Lock()
	defer cfgLock.Unlock()

	// load the config
	conf, flags, err := config.Load(runtime.ApplicationName, runtime.ApplicationVersion, args)
	if err != nil {
		fmt.Println("\nERROR: Could not load configuration:", err.Error())
		if flags != nil && !flags.ValidateConfig && oldConf == nil {
			PrintUsage()
		}
		handleStartupIssue("", nil, logger, errorsFatal)
		return err
	}

	// if it's a -version command, print version and exit
	if flags.PrintVersion {
		PrintVersion()
		os.Exit(0)
	}

	if flags.ValidateConfig {
		for _, w := range conf.LoaderWarnings {
			fmt.Println(w)
		}
		fmt.Println("Tether configuration validation succeeded.")
		os.Exit(0)
	}

	return applyConfig(conf, oldConf, wg, logger, comps, args, errorsFatal)
}

func applyConfig(conf, oldConf *config.Config, wg *sync.WaitGroup, logger *logging.Logger,
	comps *components, args []string, errorsFatal bool) error {

	if conf == nil {
		return nil
	}

	logger = applyLoggingConfig(conf, oldConf, logger)

	for _, w := range conf.LoaderWarnings {
		logger.Warn(w, logging.Pairs{})
	}

	if comps == nil {
		var err error
		comps, err = newComponents(conf, logger)
		if err != nil {
			handleStartupIssue("component startup failed",
				logging.Pairs{"detail": err.Error()}, logger, errorsFatal)
			return err
		}
		startShutdownMonitor(time.Duration(conf.Frontend.DrainTimeoutMS)*time.Millisecond,
			wg, logger, comps)
	} else {
		applyComponentConfig(conf, oldConf, comps, logger)
	}

	// every config (re)load is a new router
	router := handlers.NewRouter(&handlers.Management{
		BasePath:    conf.Main.ManagementBasePath,
		Config:      conf.String,
		Reloader:    reloader(conf, wg, logger, comps, args),
		Cache:       comps.cache,
		Engine:      comps.engine,
		Sync:        comps.sync,
		Warmer:      comps.warmer,
		Monitor:     comps.monitor,
		Lifecycle:   comps.lifecycle,
		Broadcaster: comps.broadcaster,
		Push:        comps.push,
		KeepAlive:   time.Duration(conf.Frontend.SSEKeepAliveMS) * time.Millisecond,
		Logger:      logger,
	}, comps.engine)

	applyListenerConfigs(conf, oldConf, router, metricsRouter(conf, logger), logger)

	metrics.LastReloadSuccessfulTimestamp.Set(float64(time.Now().Unix()))
	metrics.LastReloadSuccessful.Set(1)
	// add Config Reload HUP Signal Monitor
	if oldConf != nil && oldConf.Resources != nil {
		oldConf.Resources.QuitChan <- true // this signals the old hup monitor goroutine to exit
	}
	startHupMonitor(conf, wg, logger, comps, args)
	return nil
}

// applyComponentConfig applies the parts of a reloaded config that running
// components can adopt, and warns about the parts that need a restart
func applyComponentConfig(conf, oldConf *config.Config, comps *components,
	logger *logging.Logger) {
	if oldConf == nil {
		return
	}
	if conf.Main.CacheVersion != oldConf.Main.CacheVersion {
		// clients promote the staged version with SKIP_WAITING
		comps.lifecycle.Stage(conf.Main.CacheVersion)
	}
	oc, nc := oldConf, conf
	sections := []struct {
		name    string
		changed bool
	}{
		{"origin", oc.Origin.URL != nc.Origin.URL || oc.Origin.TimeoutMS != nc.Origin.TimeoutMS},
		{"cache", !oc.Cache.Equal(nc.Cache)},
		{"storage", oc.Storage.Provider != nc.Storage.Provider},
		{"tracing", oc.Tracing.Provider != nc.Tracing.Provider ||
			oc.Tracing.CollectorURL != nc.Tracing.CollectorURL},
		{"strategies", len(oc.Strategies.Rules) != len(nc.Strategies.Rules) ||
			oc.Strategies.CacheTTLMS != nc.Strategies.CacheTTLMS},
		{"sync", oc.Sync.BatchSize != nc.Sync.BatchSize ||
			oc.Sync.MaxAttempts != nc.Sync.MaxAttempts},
		{"connectivity", oc.Connectivity.ProbeIntervalMS != nc.Connectivity.ProbeIntervalMS},
	}
	for _, s := range sections {
		if s.changed {
			logger.Warn("config section change requires a process restart. components not updated.",
				logging.Pairs{"section": s.name})
		}
	}
}

func reloader(conf *config.Config, wg *sync.WaitGroup, logger *logging.Logger,
	comps *components, args []string) handlers.ReloaderFunc {
	return func(source string) (bool, error) {
		conf.Main.ReloaderLock.Lock()
		defer conf.Main.ReloaderLock.Unlock()
		if !conf.IsStale() {
			return false, nil
		}
		logger.Warn("configuration reload starting now", logging.Pairs{"source": source})
		if err := runConfig(conf, wg, logger, comps, args, false); err != nil {
			return false, err
		}
		return true, nil
	}
}

func applyLoggingConfig(c, oc *config.Config, oldLog *logging.Logger) *logging.Logger {

	if c == nil || c.Logging == nil {
		return oldLog
	}

	if oldLog == nil || oc == nil || oc.Logging == nil {
		return initLogger(c)
	}

	if c.Logging.LogFile != oc.Logging.LogFile {
		// components hold the running logger, so the file cannot be swapped
		oldLog.Warn("log file change requires a process restart. logger not updated.",
			logging.Pairs{"oldLogFile": oc.Logging.LogFile, "newLogFile": c.Logging.LogFile})
	}
	if c.Logging.LogLevel != oc.Logging.LogLevel {
		// the only change is the log level, so update it and return the original logger
		oldLog.SetLogLevel(c.Logging.LogLevel)
	}
	return oldLog
}

func initLogger(c *config.Config) *logging.Logger {
	logger := logging.New(c.Logging, c.Main.InstanceID)
	logger.Info("application loaded from configuration",
		logging.Pairs{
			"name":      runtime.ApplicationName,
			"version":   runtime.ApplicationVersion,
			"goVersion": applicationGoVersion,
			"goArch":    applicationGoArch,
			"commitID":  applicationGitCommitID,
			"buildTime": applicationBuildTime,
			"logLevel":  c.Logging.LogLevel,
			"config":    c.ConfigFilePath(),
		},
	)
	return logger
}

func handleStartupIssue(event string, detail logging.Pairs, logger *logging.Logger, exitFatal bool) {
	metrics.LastReloadSuccessful.Set(0)
	if event != "" {
		if logger != nil {
			if exitFatal {
				logger.Fatal(1, event, detail)
				return
			}
			logger.Error(event, detail)
			return
		}
		fmt.Println(event)
	}
	if exitFatal {
		os.Exit(1)
	}
}
