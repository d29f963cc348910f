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
	"net/http"
	"time"

	"github.com/tetherproxy/tether/cmd/tether/config"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
	"github.com/tetherproxy/tether/pkg/observability/pprof"
	"github.com/tetherproxy/tether/pkg/proxy/handlers"
	"github.com/tetherproxy/tether/pkg/proxy/listener"

	"github.com/go-chi/chi/v5"
)

const (
	httpListener    = "httpListener"
	tlsListener     = "tlsListener"
	metricsListener = "metricsListener"
)

var lg *listener.ListenerGroup

// metricsRouter serves /metrics, the running config and, when enabled, pprof
func metricsRouter(conf *config.Config, logger *logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler())
	r.Get(conf.Main.ManagementBasePath+"/config", handlers.ConfigHandleFunc(conf.String))
	if conf.Main.PprofServer == "metrics" {
		pprof.RegisterRoutes(metricsListener, r, logger)
	}
	return r
}

func startListener(name, address string, port, connectionsLimit int,
	conf *config.Config, router http.Handler, logger *logging.Logger) {
	tlsConfig, err := listener.TLSConfig(nil)
	if name == tlsListener {
		tlsConfig, err = listener.TLSConfig(conf.Frontend.TLS)
	}
	if err != nil {
		logger.Error("unable to start tls listener due to certificate error",
			logging.Pairs{"detail": err.Error()})
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		lg.StartListener(name, address, port, connectionsLimit, tlsConfig, router, nil, exitFunc)
	}()
}

func applyListenerConfigs(conf, oldConf *config.Config,
	router, metricsRouter http.Handler, logger *logging.Logger) {

	if conf == nil || conf.Frontend == nil {
		return
	}

	if lg == nil {
		lg = listener.NewListenerGroup(logger)
	}

	fc := conf.Frontend
	hasOldFC := oldConf != nil && oldConf.Frontend != nil
	hasOldMC := oldConf != nil && oldConf.Metrics != nil
	drainTimeout := time.Duration(fc.DrainTimeoutMS) * time.Millisecond

	if hasOldFC && oldConf.Frontend.ConnectionsLimit != fc.ConnectionsLimit {
		logger.Warn("connections limit change requires a process restart. listeners not updated.",
			logging.Pairs{"oldLimit": oldConf.Frontend.ConnectionsLimit,
				"newLimit": fc.ConnectionsLimit})
		lg.UpdateRouter(httpListener, router)
		lg.UpdateRouter(tlsListener, router)
		lg.UpdateRouter(metricsListener, metricsRouter)
		return
	}

	// if TLS port is configured with a valid certificate,
	// then set up the tls server listener instance
	if fc.ServeTLS && fc.TLSListenPort > 0 && (!hasOldFC ||
		!oldConf.Frontend.ServeTLS ||
		oldConf.Frontend.TLSListenAddress != fc.TLSListenAddress ||
		oldConf.Frontend.TLSListenPort != fc.TLSListenPort ||
		!oldConf.Frontend.TLS.Equal(fc.TLS)) {
		lg.DrainAndClose(tlsListener, drainTimeout)
		startListener(tlsListener, fc.TLSListenAddress, fc.TLSListenPort,
			fc.ConnectionsLimit, conf, router, logger)
	} else if !fc.ServeTLS && hasOldFC && oldConf.Frontend.ServeTLS {
		// the TLS configs have been removed between the last config load and this one,
		// the TLS listener port needs to be stopped
		lg.DrainAndClose(tlsListener, drainTimeout)
	} else {
		lg.UpdateRouter(tlsListener, router)
	}

	// if the plaintext HTTP port is configured, then set up the http listener instance
	if fc.ListenPort > 0 && (!hasOldFC ||
		oldConf.Frontend.ListenAddress != fc.ListenAddress ||
		oldConf.Frontend.ListenPort != fc.ListenPort) {
		lg.DrainAndClose(httpListener, drainTimeout)
		startListener(httpListener, fc.ListenAddress, fc.ListenPort,
			fc.ConnectionsLimit, conf, router, logger)
	} else if fc.ListenPort < 1 {
		lg.DrainAndClose(httpListener, drainTimeout)
	} else {
		lg.UpdateRouter(httpListener, router)
	}

	// if the Metrics HTTP port is configured, then set up the http listener instance
	if conf.Metrics != nil && conf.Metrics.ListenPort > 0 &&
		(!hasOldMC || conf.Metrics.ListenAddress != oldConf.Metrics.ListenAddress ||
			conf.Metrics.ListenPort != oldConf.Metrics.ListenPort) {
		lg.DrainAndClose(metricsListener, 0)
		startListener(metricsListener, conf.Metrics.ListenAddress, conf.Metrics.ListenPort,
			fc.ConnectionsLimit, conf, metricsRouter, logger)
	} else {
		lg.UpdateRouter(metricsListener, metricsRouter)
	}
}
