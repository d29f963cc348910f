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

package redis

import (
	"testing"
	"time"

	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/redis/options"
	"github.com/tetherproxy/tether/pkg/storage/storagetest"

	"github.com/alicebob/miniredis"
)

func setupRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	rs := New("test", &options.Options{Endpoint: s.Addr(), ClientType: "standard", Protocol: "tcp"}, nil)
	if err := rs.Connect(); err != nil {
		s.Close()
		t.Fatal(err)
	}
	return rs, s
}

func TestStore(t *testing.T) {
	rs, s := setupRedisStore(t)
	defer s.Close()
	defer rs.Close()
	storagetest.Run(t, rs)
}

func TestExpiry(t *testing.T) {
	rs, s := setupRedisStore(t)
	defer s.Close()
	defer rs.Close()

	rs.SetItem("expiring", []byte("x"), time.Minute)
	if _, err := rs.GetItem("expiring"); err != nil {
		t.Fatal(err)
	}
	// miniredis only expires keys when its clock is advanced
	s.FastForward(2 * time.Minute)
	if _, err := rs.GetItem("expiring"); err != storage.ErrKNF {
		t.Errorf("expected %v got %v", storage.ErrKNF, err)
	}
}

func TestClientOpts(t *testing.T) {
	rs := New("test", &options.Options{ClientType: "standard"}, nil)
	if _, err := rs.clientOpts(); err != ErrInvalidEndpointConfig {
		t.Errorf("expected %v got %v", ErrInvalidEndpointConfig, err)
	}
	rs.Config.Endpoint = "127.0.0.1:6379"
	rs.Config.DialTimeoutMS = 1500
	o, err := rs.clientOpts()
	if err != nil {
		t.Fatal(err)
	}
	if o.DialTimeout != 1500*time.Millisecond {
		t.Errorf("expected %s got %s", 1500*time.Millisecond, o.DialTimeout)
	}
}

func TestSentinelOpts(t *testing.T) {
	rs := New("test", &options.Options{ClientType: "sentinel"}, nil)
	if _, err := rs.sentinelOpts(); err != ErrInvalidEndpointsConfig {
		t.Errorf("expected %v got %v", ErrInvalidEndpointsConfig, err)
	}
	rs.Config.Endpoints = []string{"127.0.0.1:26379"}
	if _, err := rs.sentinelOpts(); err != ErrInvalidSentinalMasterConfig {
		t.Errorf("expected %v got %v", ErrInvalidSentinalMasterConfig, err)
	}
	rs.Config.SentinelMaster = "master"
	if _, err := rs.sentinelOpts(); err != nil {
		t.Error(err)
	}
}

func TestClusterOpts(t *testing.T) {
	rs := New("test", &options.Options{ClientType: "cluster"}, nil)
	if _, err := rs.clusterOpts(); err != ErrInvalidEndpointsConfig {
		t.Errorf("expected %v got %v", ErrInvalidEndpointsConfig, err)
	}
	rs.Config.Endpoints = []string{"127.0.0.1:7000"}
	rs.Config.ReadTimeoutMS = 10
	o, err := rs.clusterOpts()
	if err != nil {
		t.Fatal(err)
	}
	if o.ReadTimeout != 10*time.Millisecond {
		t.Errorf("expected %s got %s", 10*time.Millisecond, o.ReadTimeout)
	}
}

func TestNotConnected(t *testing.T) {
	rs := New("test", nil, nil)
	if _, err := rs.GetItem("k"); err != storage.ErrNotConnected {
		t.Errorf("expected %v got %v", storage.ErrNotConnected, err)
	}
	if err := rs.Close(); err != nil {
		t.Error(err)
	}
}
