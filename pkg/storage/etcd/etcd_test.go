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

package etcd

import (
	"testing"

	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/etcd/options"
)

func TestNew(t *testing.T) {
	s := New("test", nil, nil)
	if s.Config.KeyPrefix != options.DefaultKeyPrefix {
		t.Errorf("expected %s got %s", options.DefaultKeyPrefix, s.Config.KeyPrefix)
	}
	if s.key("warmup_a") != "/tether/warmup_a" {
		t.Errorf("expected %s got %s", "/tether/warmup_a", s.key("warmup_a"))
	}
}

func TestNotConnected(t *testing.T) {
	s := New("test", nil, nil)
	if _, err := s.GetItem("k"); err != storage.ErrNotConnected {
		t.Errorf("expected %v got %v", storage.ErrNotConnected, err)
	}
	if err := s.SetItem("k", []byte("v"), 0); err != storage.ErrNotConnected {
		t.Errorf("expected %v got %v", storage.ErrNotConnected, err)
	}
	if err := s.RemoveItem("k"); err != storage.ErrNotConnected {
		t.Errorf("expected %v got %v", storage.ErrNotConnected, err)
	}
	if _, err := s.Keys(""); err != storage.ErrNotConnected {
		t.Errorf("expected %v got %v", storage.ErrNotConnected, err)
	}
	if err := s.Close(); err != nil {
		t.Error(err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	o := options.New()
	// nothing listens on the discard port
	o.Endpoints = []string{"127.0.0.1:9"}
	o.DialTimeoutMS = 100
	o.RequestTimeoutMS = 100
	s := New("test", o, nil)
	if err := s.Connect(); err == nil {
		t.Error("expected error connecting to an unreachable cluster")
	}
	s.Close()
}
