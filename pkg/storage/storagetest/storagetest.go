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

// Package storagetest provides a conformance suite run against every Store provider
package storagetest

import (
	"sort"
	"testing"
	"time"

	"github.com/tetherproxy/tether/pkg/storage"
)

// Run exercises the Store contract against a connected store
func Run(t *testing.T, s storage.Store) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.GetItem("missing"); err != storage.ErrKNF {
			t.Errorf("expected %v got %v", storage.ErrKNF, err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := s.SetItem(storage.SyncQueueKey, []byte(`[{"id":"1"}]`), 0); err != nil {
			t.Fatal(err)
		}
		data, err := s.GetItem(storage.SyncQueueKey)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `[{"id":"1"}]` {
			t.Errorf("expected %s got %s", `[{"id":"1"}]`, string(data))
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		s.SetItem("overwrite", []byte("one"), 0)
		s.SetItem("overwrite", []byte("two"), 0)
		data, err := s.GetItem("overwrite")
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "two" {
			t.Errorf("expected %s got %s", "two", string(data))
		}
	})

	t.Run("keys by prefix", func(t *testing.T) {
		s.SetItem(storage.WarmupPrefix+"a", []byte("a"), time.Hour)
		s.SetItem(storage.WarmupPrefix+"b", []byte("b"), time.Hour)
		keys, err := s.Keys(storage.WarmupPrefix)
		if err != nil {
			t.Fatal(err)
		}
		sort.Strings(keys)
		if len(keys) != 2 || keys[0] != "warmup_a" || keys[1] != "warmup_b" {
			t.Errorf("unexpected keys %v", keys)
		}
		all, err := s.Keys("")
		if err != nil {
			t.Fatal(err)
		}
		if len(all) < 3 {
			t.Errorf("expected at least %d keys, got %v", 3, all)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := s.RemoveItem(storage.WarmupPrefix+"a", storage.WarmupPrefix+"b", "never-set"); err != nil {
			t.Fatal(err)
		}
		if _, err := s.GetItem(storage.WarmupPrefix + "a"); err != storage.ErrKNF {
			t.Errorf("expected %v got %v", storage.ErrKNF, err)
		}
		keys, _ := s.Keys(storage.WarmupPrefix)
		if len(keys) != 0 {
			t.Errorf("expected no keys, got %v", keys)
		}
	})
}

// RunExpiry verifies that items stored with a ttl stop being returned once it elapses
func RunExpiry(t *testing.T, s storage.Store, ttl time.Duration) {
	t.Helper()
	if err := s.SetItem("expiring", []byte("x"), ttl); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetItem("expiring"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(ttl + ttl/2)
	if _, err := s.GetItem("expiring"); err != storage.ErrKNF {
		t.Errorf("expected %v got %v", storage.ErrKNF, err)
	}
}
