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

package metrics

import (
	"testing"

	"github.com/tetherproxy/tether/pkg/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCacheOperation(t *testing.T) {
	ObserveCacheOperation("test", "memory", "set", "none", 12)
	v := testutil.ToFloat64(metrics.CacheByteOperations.WithLabelValues("test", "memory", "set", "none"))
	if v != 12 {
		t.Errorf("expected %d got %f", 12, v)
	}
	ObserveCacheMiss("test", "memory")
	v = testutil.ToFloat64(metrics.CacheObjectOperations.WithLabelValues("test", "memory", "get", "miss"))
	if v != 1 {
		t.Errorf("expected %d got %f", 1, v)
	}
}

func TestObserveCacheSizeChange(t *testing.T) {
	ObserveCacheSizeChange("test", "memory", 100, 2)
	ObserveCacheMaxObjects("test", "memory", 10)
	if v := testutil.ToFloat64(metrics.CacheObjects.WithLabelValues("test", "memory")); v != 2 {
		t.Errorf("expected %d got %f", 2, v)
	}
	if v := testutil.ToFloat64(metrics.CacheMaxObjects.WithLabelValues("test", "memory")); v != 10 {
		t.Errorf("expected %d got %f", 10, v)
	}
	ObserveCacheEvent("test", "memory", "eviction", "max_items")
	if v := testutil.ToFloat64(metrics.CacheEvents.WithLabelValues("test", "memory", "eviction", "max_items")); v != 1 {
		t.Errorf("expected %d got %f", 1, v)
	}
}
