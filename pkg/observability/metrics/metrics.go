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

// Package metrics implements prometheus metrics and exposes the metrics HTTP listener
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricNamespace       = "tether"
	cacheSubsystem        = "cache"
	proxySubsystem        = "proxy"
	configSubsystem       = "config"
	buildSubsystem        = "build"
	frontendSubsystem     = "frontend"
	syncSubsystem         = "background_sync"
	warmupSubsystem       = "warmup"
	broadcastSubsystem    = "broadcast"
	connectivitySubsystem = "connectivity"
)

// Default histogram buckets used by tether
var (
	defaultBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 20}
)

// BuildInfo is a Gauge representing the Tether binary build information of the running server instance
var BuildInfo *prometheus.GaugeVec

// LastReloadSuccessful gauge will be set to 1 if Tether's last config reload succeeded else 0
var LastReloadSuccessful prometheus.Gauge

// LastReloadSuccessfulTimestamp gauge is the epoch time of the most recent successful config load
var LastReloadSuccessfulTimestamp prometheus.Gauge

// FrontendRequestStatus is a Counter of front end requests that have been processed with their status
var FrontendRequestStatus *prometheus.CounterVec

// FrontendRequestDuration is a histogram that tracks the time it takes to process a request
var FrontendRequestDuration *prometheus.HistogramVec

// ProxyRequestStatus is a Counter of requests handled by a strategy engine
var ProxyRequestStatus *prometheus.CounterVec

// ProxyRequestDuration is a Histogram of time required in seconds to serve a request through a strategy
var ProxyRequestDuration *prometheus.HistogramVec

// ProxyMaxConnections is a Gauge representing the max number of active concurrent connections in the server
var ProxyMaxConnections prometheus.Gauge

// ProxyActiveConnections is a Gauge representing the current number of active connections in the server
var ProxyActiveConnections prometheus.Gauge

// ProxyConnectionRequested is a counter representing the total number of connections requested by clients
var ProxyConnectionRequested prometheus.Counter

// ProxyConnectionAccepted is a counter representing the total number of connections accepted by the server
var ProxyConnectionAccepted prometheus.Counter

// ProxyConnectionClosed is a counter representing the total number of connections closed by the server
var ProxyConnectionClosed prometheus.Counter

// ProxyConnectionFailed is a counter for the total number of connections failed to connect for whatever reason
var ProxyConnectionFailed prometheus.Counter

// CacheObjectOperations is a Counter of operations (in # of objects) performed on a Tether cache
var CacheObjectOperations *prometheus.CounterVec

// CacheByteOperations is a Counter of operations (in # of bytes) performed on a Tether cache
var CacheByteOperations *prometheus.CounterVec

// CacheEvents is a Counter of events performed on a Tether cache
var CacheEvents *prometheus.CounterVec

// CacheObjects is a Gauge representing the number of objects in a Tether cache
var CacheObjects *prometheus.GaugeVec

// CacheBytes is a Gauge representing the number of bytes in a Tether cache
var CacheBytes *prometheus.GaugeVec

// CacheMaxObjects is a Gauge for the Tether cache's Max Object Threshold for triggering an eviction
var CacheMaxObjects *prometheus.GaugeVec

// SyncQueueItems is a Gauge of queued mutations by state (pending, failed)
var SyncQueueItems *prometheus.GaugeVec

// SyncAttempts is a Counter of mutation replay attempts by result
var SyncAttempts *prometheus.CounterVec

// SyncPasses is a Counter of completed processing passes
var SyncPasses prometheus.Counter

// WarmupItems is a Counter of warmup items by result
var WarmupItems *prometheus.CounterVec

// BroadcastMessages is a Counter of status messages published by type
var BroadcastMessages *prometheus.CounterVec

// Online is a Gauge set to 1 while the origin is considered reachable, else 0
var Online prometheus.Gauge

func init() {

	BuildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: buildSubsystem,
			Name:      "info",
			Help: "A metric with a constant '1' value labeled by version," +
				"revision, and goversion from which Tether was built.",
		},
		[]string{"goversion", "revision", "version"},
	)

	LastReloadSuccessfulTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: configSubsystem,
			Name:      "last_reload_success_time_seconds",
			Help:      "Timestamp of the last successful configuration reload.",
		},
	)

	LastReloadSuccessful = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: configSubsystem,
			Name:      "last_reload_successful",
			Help:      "Whether the last configuration reload attempt was successful.",
		},
	)

	FrontendRequestStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "requests_total",
			Help:      "Count of front end requests handled by Tether",
		},
		[]string{"method", "path", "http_status"},
	)

	FrontendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "requests_duration_seconds",
			Help:      "Histogram of front end request durations handled by Tether",
			Buckets:   defaultBuckets,
		},
		[]string{"method", "path", "http_status"},
	)

	ProxyRequestStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "requests_total",
			Help:      "Count of requests served through a caching strategy",
		},
		[]string{"strategy", "method", "cache_status", "http_status"},
	)

	ProxyRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "request_duration_seconds",
			Help:      "Time required in seconds to serve a request through a caching strategy.",
			Buckets:   defaultBuckets,
		},
		[]string{"strategy", "method", "cache_status", "http_status"},
	)

	ProxyMaxConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "max_connections",
			Help:      "Tether max number of active connections.",
		},
	)

	ProxyActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "active_connections",
			Help:      "Tether active connections.",
		},
	)

	ProxyConnectionRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "requested_connections_total",
			Help:      "Tether total number of connections requested by clients.",
		},
	)

	ProxyConnectionAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "accepted_connections_total",
			Help:      "Tether total number of accepted connections.",
		},
	)

	ProxyConnectionClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "closed_connections_total",
			Help:      "Tether total number of closed connections.",
		},
	)

	ProxyConnectionFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: proxySubsystem,
			Name:      "failed_connections_total",
			Help:      "Tether total number of failed connections.",
		},
	)

	CacheObjectOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "operation_objects_total",
			Help:      "Count (in # of objects) of operations performed on a Tether cache.",
		},
		[]string{"cache_name", "provider", "operation", "status"},
	)

	CacheByteOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "operation_bytes_total",
			Help:      "Count (in bytes) of operations performed on a Tether cache.",
		},
		[]string{"cache_name", "provider", "operation", "status"},
	)

	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "events_total",
			Help:      "Count of events performed on a Tether cache.",
		},
		[]string{"cache_name", "provider", "event", "reason"},
	)

	CacheObjects = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "usage_objects",
			Help:      "Number of objects in a Tether cache.",
		},
		[]string{"cache_name", "provider"},
	)

	CacheBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "usage_bytes",
			Help:      "Number of bytes in a Tether cache.",
		},
		[]string{"cache_name", "provider"},
	)

	CacheMaxObjects = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "max_usage_objects",
			Help:      "Tether cache's Max Object Threshold for triggering an eviction.",
		},
		[]string{"cache_name", "provider"},
	)

	SyncQueueItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: syncSubsystem,
			Name:      "queue_items",
			Help:      "Number of queued mutations by state.",
		},
		[]string{"state"},
	)

	SyncAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: syncSubsystem,
			Name:      "attempts_total",
			Help:      "Count of mutation replay attempts by result.",
		},
		[]string{"kind", "result"},
	)

	SyncPasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: syncSubsystem,
			Name:      "passes_total",
			Help:      "Count of completed queue processing passes.",
		},
	)

	WarmupItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: warmupSubsystem,
			Name:      "items_total",
			Help:      "Count of warmup items by priority and result.",
		},
		[]string{"priority", "result"},
	)

	BroadcastMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: broadcastSubsystem,
			Name:      "messages_total",
			Help:      "Count of status messages published by type.",
		},
		[]string{"type"},
	)

	Online = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: connectivitySubsystem,
			Name:      "online",
			Help:      "Whether the origin is currently considered reachable.",
		},
	)

	// Register Metrics
	prometheus.MustRegister(FrontendRequestStatus)
	prometheus.MustRegister(FrontendRequestDuration)
	prometheus.MustRegister(ProxyRequestStatus)
	prometheus.MustRegister(ProxyRequestDuration)
	prometheus.MustRegister(ProxyMaxConnections)
	prometheus.MustRegister(ProxyActiveConnections)
	prometheus.MustRegister(ProxyConnectionRequested)
	prometheus.MustRegister(ProxyConnectionAccepted)
	prometheus.MustRegister(ProxyConnectionClosed)
	prometheus.MustRegister(ProxyConnectionFailed)
	prometheus.MustRegister(CacheObjectOperations)
	prometheus.MustRegister(CacheByteOperations)
	prometheus.MustRegister(CacheEvents)
	prometheus.MustRegister(CacheObjects)
	prometheus.MustRegister(CacheBytes)
	prometheus.MustRegister(CacheMaxObjects)
	prometheus.MustRegister(SyncQueueItems)
	prometheus.MustRegister(SyncAttempts)
	prometheus.MustRegister(SyncPasses)
	prometheus.MustRegister(WarmupItems)
	prometheus.MustRegister(BroadcastMessages)
	prometheus.MustRegister(Online)
	prometheus.MustRegister(BuildInfo)
	prometheus.MustRegister(LastReloadSuccessful)
	prometheus.MustRegister(LastReloadSuccessfulTimestamp)
}

// Handler returns the http handler for the listener
func Handler() http.Handler {
	return promhttp.Handler()
}
