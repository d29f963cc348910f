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

package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/filesystem/options"
	"github.com/tetherproxy/tether/pkg/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	s := New("test", &options.Options{StoragePath: t.TempDir()}, nil)
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	storagetest.Run(t, s)
	storagetest.RunExpiry(t, s, 20*time.Millisecond)
}

func TestKeyEncoding(t *testing.T) {
	s := newTestStore(t)
	key := storage.ResponsePrefix + "../etc/passwd~x.y"
	if err := s.SetItem(key, []byte("data"), 0); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(s.Config.StoragePath)
	if len(entries) != 1 {
		t.Fatalf("expected %d file got %d", 1, len(entries))
	}
	if filepath.Dir(s.getFileName(key)) != filepath.Clean(s.Config.StoragePath) {
		t.Error("expected key to stay within the storage path")
	}
	keys, err := s.Keys(storage.ResponsePrefix)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("expected [%s] got %v", key, keys)
	}
}

func TestSetItemEmptyKey(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetItem("", []byte("x"), 0); err != ErrKeyRequired {
		t.Errorf("expected %v got %v", ErrKeyRequired, err)
	}
}

func TestConnectUnwritable(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "file")
	os.WriteFile(fn, []byte("x"), 0o600)
	s := New("test", &options.Options{StoragePath: filepath.Join(fn, "sub")}, nil)
	if err := s.Connect(); err == nil {
		t.Error("expected error")
	}
}
