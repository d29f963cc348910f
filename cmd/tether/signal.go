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
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tetherproxy/tether/cmd/tether/config"
	"github.com/tetherproxy/tether/pkg/observability/logging"
)

var hups = make(chan os.Signal, 1)
var terms = make(chan os.Signal, 1)

func init() {
	signal.Notify(hups, syscall.SIGHUP)
	signal.Notify(terms, os.Interrupt, syscall.SIGTERM)
}

func startHupMonitor(conf *config.Config, wg *sync.WaitGroup, logger *logging.Logger,
	comps *components, args []string) {
	if conf == nil || conf.Resources == nil || logger == nil {
		return
	}
	reload := reloader(conf, wg, logger, comps, args)
	// assumes all parameters are instantiated
	go func() {
		for {
			select {
			case <-hups:
				reloaded, err := reload("sighup")
				if err == nil && reloaded {
					return // runConfig will start a new HupMonitor in place of this one
				}
				logger.Warn("configuration NOT reloaded", logging.Pairs{})
			case <-conf.Resources.QuitChan:
				return
			}
		}
	}()
}

// startShutdownMonitor drains the listeners and closes the components on
// SIGINT or SIGTERM. wg is held until shutdown completes.
func startShutdownMonitor(drainTimeout time.Duration, wg *sync.WaitGroup,
	logger *logging.Logger, comps *components) {
	if wg == nil {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		sig := <-terms
		logger.Info("shutdown starting now", logging.Pairs{"signal": sig.String()})
		if lg != nil {
			lg.DrainAndCloseAll(drainTimeout)
		}
		comps.close(logger)
		logger.Info("shutdown complete", logging.Pairs{})
		logger.Close()
	}()
}
