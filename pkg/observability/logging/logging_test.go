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

package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/tetherproxy/tether/pkg/observability/logging/options"
)

func TestConsoleLogger(t *testing.T) {
	testCases := []string{
		"debug",
		"info",
		"warn",
		"error",
		"none",
	}
	// it should create a logger for each level
	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			l := ConsoleLogger(tc)
			if l.level != tc {
				t.Errorf("mismatch in log level: expected=%s actual=%s", tc, l.level)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := New(&options.Options{LogLevel: "info"}, 0)
	if logger.Level() != "info" {
		t.Errorf("expected %s got %s", "info", logger.Level())
	}
	logger.Close()
}

func TestNewLogger_LogFile(t *testing.T) {
	td := t.TempDir()
	fileName := td + "/out.log"
	instanceFileName := td + "/out.1.log"
	logger := New(&options.Options{LogFile: fileName, LogLevel: "info"}, 1)
	logger.Info("test entry", Pairs{"testKey": "testVal"})
	if _, err := os.Stat(instanceFileName); err != nil {
		t.Error(err)
	}
	logger.Close()
}

func TestStreamLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := StreamLogger(buf, "warn")
	logger.Debug("debug entry", nil)
	logger.Info("info entry", nil)
	if buf.Len() != 0 {
		t.Errorf("expected empty output, got %s", buf.String())
	}
	logger.Warn("warn entry", Pairs{"testKey": "testVal"})
	out := buf.String()
	if !strings.Contains(out, `event="warn entry"`) {
		t.Errorf("expected warn event in output, got %s", out)
	}
	if !strings.Contains(out, "testKey=testVal") {
		t.Errorf("expected detail pair in output, got %s", out)
	}
	if !strings.Contains(out, "level=warn") {
		t.Errorf("expected level in output, got %s", out)
	}

	buf.Reset()
	logger.SetLogLevel("debug")
	logger.Debug("debug entry", nil)
	if !strings.Contains(buf.String(), "level=debug") {
		t.Errorf("expected debug event after level change, got %s", buf.String())
	}
}

func TestWarnOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := StreamLogger(buf, "x")
	key := "warnonce-test-key"

	if logger.HasWarnedOnce(key) {
		t.Errorf("expected %t got %t", false, true)
	}
	ok := logger.WarnOnce(key, "test entry", Pairs{"testKey": "testVal"})
	if !ok {
		t.Errorf("expected %t got %t", true, ok)
	}
	if !logger.HasWarnedOnce(key) {
		t.Errorf("expected %t got %t", true, false)
	}
	ok = logger.WarnOnce(key, "test entry", Pairs{"testKey": "testVal"})
	if ok {
		t.Errorf("expected %t got %t", false, ok)
	}
	if n := strings.Count(buf.String(), "test entry"); n != 1 {
		t.Errorf("expected %d got %d", 1, n)
	}
}

func TestInfoAndErrorOnce(t *testing.T) {
	logger := StreamLogger(&bytes.Buffer{}, "debug")
	if !logger.InfoOnce("k", "first", nil) {
		t.Error("expected true")
	}
	if logger.InfoOnce("k", "second", nil) {
		t.Error("expected false")
	}
	if !logger.ErrorOnce("k", "first", nil) {
		t.Error("expected true")
	}
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	l.Error("nothing", Pairs{"a": 1})
	if l.Level() != "none" {
		t.Errorf("expected %s got %s", "none", l.Level())
	}
	l.Close()
}

func TestMapToArray(t *testing.T) {
	a := mapToArray("evt", Pairs{"level": "info", "k": "v"})
	if len(a) != 6 {
		t.Fatalf("expected %d got %d", 6, len(a))
	}
	if a[0] != "level" || a[2] != "event" || a[3] != "evt" {
		t.Errorf("unexpected ordering: %v", a)
	}
}
