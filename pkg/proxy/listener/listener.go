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

// Package listener starts and manages the HTTP listeners of Tether
package listener

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
	"github.com/tetherproxy/tether/pkg/observability/tracing"
	"github.com/tetherproxy/tether/pkg/proxy/errors"
	ph "github.com/tetherproxy/tether/pkg/proxy/handlers"
	to "github.com/tetherproxy/tether/pkg/proxy/tls/options"

	"golang.org/x/net/netutil"
)

// Listener is the Tether net.Listener implementation
type Listener struct {
	net.Listener
	routeSwapper *ph.SwitchHandler
	server       *http.Server
	exitOnError  bool
}

type observedConnection struct {
	*net.TCPConn
}

func (o *observedConnection) Close() error {
	err := o.TCPConn.Close()
	metrics.ProxyActiveConnections.Dec()
	metrics.ProxyConnectionClosed.Inc()
	return err
}

// Accept implements Listener.Accept
func (l *Listener) Accept() (net.Conn, error) {
	metrics.ProxyConnectionRequested.Inc()

	c, err := l.Listener.Accept()
	if err != nil {
		metrics.ProxyConnectionFailed.Inc()
		return c, err
	}

	metrics.ProxyActiveConnections.Inc()
	metrics.ProxyConnectionAccepted.Inc()

	// this is necessary for HTTP/2 to work
	if t, ok := c.(*net.TCPConn); ok {
		return &observedConnection{t}, nil
	}
	return c, nil
}

// RouteSwapper returns the RouteSwapper reference from the Listener
func (l *Listener) RouteSwapper() *ph.SwitchHandler {
	return l.routeSwapper
}

// ListenerGroup is a collection of listeners
type ListenerGroup struct {
	members       map[string]*Listener
	listenersLock sync.Mutex
	logger        *logging.Logger
}

// NewListenerGroup returns a new ListenerGroup
func NewListenerGroup(logger *logging.Logger) *ListenerGroup {
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &ListenerGroup{
		members: make(map[string]*Listener),
		logger:  logger,
	}
}

// TLSConfig returns the server TLS configuration for validated options, or nil
// when TLS is not being served
func TLSConfig(o *to.Options) (*tls.Config, error) {
	if o == nil || !o.ServeTLS {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(o.FullChainCertPath, o.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

// NewListener creates a new network listener which obeys the configured max
// connection limit and monitors connections with prometheus metrics.
//
// The listener is wrapped with a netutil.LimitListener, which blocks waiting
// for resources to become available whenever clients go above the limit.
func NewListener(listenAddress string, listenPort, connectionsLimit int,
	tlsConfig *tls.Config, logger *logging.Logger) (net.Listener, error) {

	var listener net.Listener
	var err error

	listenerType := "http"
	addr := fmt.Sprintf("%s:%d", listenAddress, listenPort)

	if tlsConfig != nil {
		listenerType = "https"
		listener, err = tls.Listen("tcp", addr, tlsConfig)
	} else {
		listener, err = net.Listen("tcp", addr)
	}
	if err != nil {
		// so we can exit one level above, this usually means that the port is in use
		return nil, err
	}

	if connectionsLimit > 0 {
		listener = netutil.LimitListener(listener, connectionsLimit)
		metrics.ProxyMaxConnections.Set(float64(connectionsLimit))
	}

	if logger != nil {
		logger.Debug("starting proxy listener", logging.Pairs{
			"connectionsLimit": connectionsLimit,
			"scheme":           listenerType,
			"address":          listenAddress,
			"port":             listenPort,
		})
	}
	return listener, nil
}

// Get returns the listener if it exists
func (lg *ListenerGroup) Get(name string) *Listener {
	lg.listenersLock.Lock()
	l, ok := lg.members[name]
	lg.listenersLock.Unlock()
	if ok {
		return l
	}
	return nil
}

// StartListener starts a new HTTP listener and adds it to the listener group.
// It blocks until the listener stops. When f is not nil, it is called if the
// listener cannot start, and the process exits if the listener stops unexpectedly.
func (lg *ListenerGroup) StartListener(listenerName, address string, port int, connectionsLimit int,
	tlsConfig *tls.Config, router http.Handler, tracer *tracing.Tracer, f func()) error {
	l := &Listener{routeSwapper: ph.NewSwitchHandler(router), exitOnError: f != nil}

	var err error
	l.Listener, err = NewListener(address, port, connectionsLimit, tlsConfig, lg.logger)
	if err != nil {
		lg.logger.Error("http listener startup failed",
			logging.Pairs{"listenerName": listenerName, "detail": err})
		if f != nil {
			f()
		}
		return err
	}
	lg.logger.Info("http listener starting",
		logging.Pairs{"listenerName": listenerName, "port": port, "address": address})

	svr := &http.Server{
		Handler:           l.routeSwapper,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 30 * time.Second,
	}
	l.server = svr

	lg.listenersLock.Lock()
	lg.members[listenerName] = l
	lg.listenersLock.Unlock()

	// flush the tracer where the listener connection ends
	defer lg.shutdownTracer(tracer)

	err = svr.Serve(l)
	if err != nil && err != http.ErrServerClosed {
		lg.logger.Error("http listener stopping",
			logging.Pairs{"listenerName": listenerName, "detail": err})
		if l.exitOnError {
			defer func() {
				os.Exit(1) // exit via defer to allow prior defers to run
			}()
		}
	}
	return err
}

func (lg *ListenerGroup) shutdownTracer(tracer *tracing.Tracer) {
	if err := tracer.Shutdown(context.Background()); err != nil {
		lg.logger.Error("tracer shutdown failed",
			logging.Pairs{"detail": err.Error()})
	}
}

// StartListenerRouter starts a new HTTP listener with a new router, and adds it to the listener group
func (lg *ListenerGroup) StartListenerRouter(listenerName, address string, port int, connectionsLimit int,
	tlsConfig *tls.Config, path string, handler http.Handler,
	tracer *tracing.Tracer, f func()) error {
	router := http.NewServeMux()
	router.Handle(path, handler)
	return lg.StartListener(listenerName, address, port, connectionsLimit,
		tlsConfig, router, tracer, f)
}

// DrainAndClose stops the named listener, waiting up to drainWait for
// in-flight requests to complete
func (lg *ListenerGroup) DrainAndClose(listenerName string, drainWait time.Duration) error {
	lg.listenersLock.Lock()
	l, ok := lg.members[listenerName]
	if !ok || l == nil {
		lg.listenersLock.Unlock()
		return errors.ErrNoSuchListener
	}
	l.exitOnError = false
	delete(lg.members, listenerName)
	lg.listenersLock.Unlock()
	if l.Listener == nil {
		return errors.ErrNilListener
	}
	if l.server == nil {
		return l.Listener.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), drainWait)
	defer cancel()
	err := l.server.Shutdown(ctx)
	l.Listener.Close()
	if err != nil {
		l.server.Close()
		return errors.ErrDrainTimeout
	}
	return nil
}

// DrainAndCloseAll stops every listener in the group
func (lg *ListenerGroup) DrainAndCloseAll(drainWait time.Duration) {
	lg.listenersLock.Lock()
	names := make([]string, 0, len(lg.members))
	for k := range lg.members {
		names = append(names, k)
	}
	lg.listenersLock.Unlock()
	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			lg.DrainAndClose(n, drainWait)
		}(n)
	}
	wg.Wait()
}

// UpdateRouter will swap out the router for the Listener with the provided name
func (lg *ListenerGroup) UpdateRouter(listenerName string, router http.Handler) {
	lg.listenersLock.Lock()
	defer lg.listenersLock.Unlock()
	if l, ok := lg.members[listenerName]; ok {
		l.routeSwapper.Update(router)
	}
}
