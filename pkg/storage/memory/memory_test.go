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

package memory

import (
	"testing"
	"time"

	"github.com/tetherproxy/tether/pkg/storage/storagetest"
)

func TestStore(t *testing.T) {
	s := New("test")
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	storagetest.Run(t, s)
	storagetest.RunExpiry(t, s, 20*time.Millisecond)
}

func TestGetItemReturnsCopy(t *testing.T) {
	s := New("test")
	s.SetItem("k", []byte("abc"), 0)
	b, _ := s.GetItem("k")
	b[0] = 'z'
	b2, _ := s.GetItem("k")
	if string(b2) != "abc" {
		t.Errorf("expected %s got %s", "abc", string(b2))
	}
}
