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

// Package connectivity tracks whether the origin is reachable. The state can be
// set manually or maintained by a probe loop with failure and recovery thresholds.
package connectivity

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tetherproxy/tether/pkg/broadcast"
	"github.com/tetherproxy/tether/pkg/connectivity/options"
	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/observability/metrics"
	"github.com/tetherproxy/tether/pkg/proxy/fetcher"
)

// Observer reports the online state and notifies subscribers of transitions
type Observer interface {
	Online() bool
	Subscribe(func(online bool))
}

// Status is a point-in-time view of the monitor
type Status struct {
	Online       bool      `json:"online"`
	Since        time.Time `json:"since"`
	Detail       string    `json:"detail,omitempty"`
	Probing      bool      `json:"probing"`
	LastProbedAt time.Time `json:"last_probed_at,omitempty"`
}

// Monitor is the connectivity Observer used by Tether
type Monitor struct {
	online      atomic.Bool
	mtx         sync.Mutex
	since       time.Time
	detail      string
	lastProbe   time.Time
	subscribers []func(bool)

	options     *options.Options
	fetcher     fetcher.Fetcher
	broadcaster broadcast.Publisher
	logger      *logging.Logger

	// used only by the probe loop
	failCnt, successCnt int

	cancel context.CancelFunc
	done   chan struct{}
}

var _ Observer = &Monitor{}

// New returns a new Monitor. f may be nil when probing is disabled, and
// b may be nil when transitions need not be broadcast.
func New(o *options.Options, f fetcher.Fetcher, b broadcast.Publisher,
	logger *logging.Logger) *Monitor {
	if o == nil {
		o = options.New()
		o.Validate()
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	m := &Monitor{
		options:     o,
		fetcher:     f,
		broadcaster: b,
		logger:      logger,
		since:       time.Now(),
	}
	m.online.Store(!o.InitialOffline)
	setGauge(!o.InitialOffline)
	return m
}

func setGauge(online bool) {
	if online {
		metrics.Online.Set(1)
		return
	}
	metrics.Online.Set(0)
}

// Online returns true while the origin is considered reachable
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Subscribe registers fn to be called on every transition
func (m *Monitor) Subscribe(fn func(online bool)) {
	if fn == nil {
		return
	}
	m.mtx.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.mtx.Unlock()
}

// Set updates the online state. Subscribers are notified, and the change is
// broadcast, only when the state actually changes.
func (m *Monitor) Set(online bool) {
	m.set(online, "manual")
}

func (m *Monitor) set(online bool, detail string) bool {
	if m.online.Swap(online) == online {
		return false
	}
	m.mtx.Lock()
	m.since = time.Now()
	m.detail = detail
	subs := make([]func(bool), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mtx.Unlock()

	setGauge(online)
	m.logger.Info("connectivity status changed",
		logging.Pairs{"online": online, "detail": detail})
	if m.broadcaster != nil {
		m.broadcaster.Publish(broadcast.OnlineStatusChanged, map[string]bool{"online": online})
	}
	for _, fn := range subs {
		fn(online)
	}
	return true
}

// Status returns a snapshot of the monitor state
func (m *Monitor) Status() Status {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return Status{
		Online:       m.online.Load(),
		Since:        m.since,
		Detail:       m.detail,
		Probing:      m.cancel != nil,
		LastProbedAt: m.lastProbe,
	}
}

// Start begins probing the origin when a probe interval is configured
func (m *Monitor) Start() {
	if m.options.ProbeInterval <= 0 || m.fetcher == nil {
		return
	}
	m.mtx.Lock()
	if m.cancel != nil {
		m.mtx.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mtx.Unlock()
	go m.probeLoop(ctx, done)
}

// Stop halts the probe loop and waits for it to exit
func (m *Monitor) Stop() {
	m.mtx.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mtx.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) probeLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.options.ProbeInterval)
	defer ticker.Stop()
	m.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// Probe makes one request to the origin and returns true if it indicates reachability
func (m *Monitor) Probe(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, m.options.ProbeTimeout)
	defer cancel()
	r, err := http.NewRequestWithContext(ctx, m.options.ProbeMethod, m.options.ProbePath, nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := m.fetcher.Fetch(ctx, r)
	if err != nil {
		return false, fmt.Sprintf("error probing origin: %v", err)
	}
	fetcher.ReadBody(resp)
	if !m.isGoodCode(resp.StatusCode) {
		return false, fmt.Sprintf("unexpected probe status %d", resp.StatusCode)
	}
	return true, ""
}

func (m *Monitor) isGoodCode(code int) bool {
	if len(m.options.ExpectedCodes) == 0 {
		return code < http.StatusInternalServerError
	}
	for _, c := range m.options.ExpectedCodes {
		if c == code {
			return true
		}
	}
	return false
}

func (m *Monitor) probe(ctx context.Context) {
	passed, detail := m.Probe(ctx)
	if ctx.Err() != nil {
		return
	}
	m.mtx.Lock()
	m.lastProbe = time.Now()
	m.mtx.Unlock()
	if passed {
		m.successCnt++
		m.failCnt = 0
		if !m.Online() && m.successCnt >= m.options.RecoveryThreshold {
			m.set(true, "probe recovered")
		}
		return
	}
	m.failCnt++
	m.successCnt = 0
	if m.Online() && m.failCnt >= m.options.FailureThreshold {
		m.set(false, detail)
	}
}
