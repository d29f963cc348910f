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

package bbolt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/bbolt/options"
	"github.com/tetherproxy/tether/pkg/storage/storagetest"
)

func newTestStore(t *testing.T) (*Store, string) {
	fn := filepath.Join(t.TempDir(), "tether_test.db")
	s := New("test", &options.Options{Filename: fn, Bucket: "tether_test"}, nil)
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	return s, fn
}

func TestStore(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()
	storagetest.Run(t, s)
	storagetest.RunExpiry(t, s, 20*time.Millisecond)
}

func TestNotConnected(t *testing.T) {
	s := New("test", nil, nil)
	if _, err := s.GetItem("k"); err != storage.ErrNotConnected {
		t.Errorf("expected %v got %v", storage.ErrNotConnected, err)
	}
	if err := s.SetItem("k", nil, 0); err != storage.ErrNotConnected {
		t.Errorf("expected %v got %v", storage.ErrNotConnected, err)
	}
	if err := s.Close(); err != nil {
		t.Error(err)
	}
}

func TestSurvivesReopen(t *testing.T) {
	s, fn := newTestStore(t)
	s.SetItem(storage.SyncQueueKey, []byte("queue"), 0)
	s.Close()

	s2 := New("test", &options.Options{Filename: fn, Bucket: "tether_test"}, nil)
	if err := s2.Connect(); err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	data, err := s2.GetItem(storage.SyncQueueKey)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "queue" {
		t.Errorf("expected %s got %s", "queue", string(data))
	}
}

func TestConnectBadPath(t *testing.T) {
	s := New("test", &options.Options{Filename: "/nonexistent/dir/x.db", Bucket: "b"}, nil)
	if err := s.Connect(); err == nil {
		t.Error("expected error for invalid path")
	}
}
