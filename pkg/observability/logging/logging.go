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

// Package logging provides logging functionality to Tether
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/tetherproxy/tether/pkg/observability/logging/options"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-stack/stack"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Pairs represents a key=value pair that helps to describe a log event
type Pairs map[string]interface{}

// Logger is a container for the underlying log provider
type Logger struct {
	base   log.Logger
	logger log.Logger
	closer io.Closer
	level  string

	onceMutex      sync.Mutex
	onceRanEntries map[string]bool
}

func mapToArray(event string, detail Pairs) []interface{} {
	a := make([]interface{}, (len(detail)*2)+2)
	var i int

	// Ensure the log level is the first Pair in the output order (after prefixes)
	if level, ok := detail["level"]; ok {
		a[0] = "level"
		a[1] = level
		delete(detail, "level")
		i += 2
	}

	// Ensure the event description is the second Pair in the output order (after prefixes)
	a[i] = "event"
	a[i+1] = event
	i += 2

	for k, v := range detail {
		a[i] = k
		a[i+1] = v
		i += 2
	}
	return a[:i]
}

func newLogger() *Logger {
	return &Logger{onceRanEntries: make(map[string]bool)}
}

// DefaultLogger returns the default logger, which is the console logger at level "info"
func DefaultLogger() *Logger {
	return ConsoleLogger("info")
}

// NoopLogger returns a Logger that discards all events
func NoopLogger() *Logger {
	l := newLogger()
	l.base = log.NewNopLogger()
	l.logger = l.base
	l.level = "none"
	return l
}

// ConsoleLogger returns a Logger that prints log events to the Console
func ConsoleLogger(logLevel string) *Logger {
	return StreamLogger(os.Stdout, logLevel)
}

// StreamLogger returns a Logger that prints log events to the provided writer
func StreamLogger(w io.Writer, logLevel string) *Logger {
	l := newLogger()
	l.setWriter(w, logLevel)
	return l
}

// New returns a Logger for the provided logging configuration. The returned Logger
// will write to files distinguished from other Loggers by the instance id.
func New(o *options.Options, instanceID int) *Logger {
	if o == nil {
		o = options.New()
	}
	l := newLogger()
	var wr io.Writer
	if o.LogFile == "" {
		wr = os.Stdout
	} else {
		logFile := o.LogFile
		if instanceID > 0 {
			logFile = strings.Replace(logFile, ".log", "."+strconv.Itoa(instanceID)+".log", 1)
		}
		wr = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    256,  // megabytes
			MaxBackups: 80,   // 256 megs @ 80 backups is 20GB of Logs
			MaxAge:     7,    // days
			Compress:   true, // Compress Rolled Backups
		}
	}
	l.setWriter(wr, o.LogLevel)
	if c, ok := wr.(io.Closer); ok && c != nil {
		l.closer = c
	}
	return l
}

func (l *Logger) setWriter(wr io.Writer, logLevel string) {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(wr))
	logger = log.With(logger,
		"time", log.DefaultTimestampUTC,
		"app", "tether",
		"caller", log.Valuer(func() interface{} {
			return pkgCaller{stack.Caller(6)}
		}),
	)
	l.base = logger
	l.level = strings.ToLower(logLevel)
	l.logger = filter(logger, l.level)
}

// wrap logger depending on log level
func filter(logger log.Logger, logLevel string) log.Logger {
	switch logLevel {
	case "debug":
		return level.NewFilter(logger, level.AllowDebug())
	case "warn":
		return level.NewFilter(logger, level.AllowWarn())
	case "error":
		return level.NewFilter(logger, level.AllowError())
	case "none":
		return level.NewFilter(logger, level.AllowNone())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// Debug sends a "DEBUG" event to the Logger
func (l *Logger) Debug(event string, detail Pairs) {
	level.Debug(l.logger).Log(mapToArray(event, detail)...)
}

// Info sends an "INFO" event to the Logger
func (l *Logger) Info(event string, detail Pairs) {
	level.Info(l.logger).Log(mapToArray(event, detail)...)
}

// Warn sends a "WARN" event to the Logger
func (l *Logger) Warn(event string, detail Pairs) {
	level.Warn(l.logger).Log(mapToArray(event, detail)...)
}

// Error sends an "ERROR" event to the Logger
func (l *Logger) Error(event string, detail Pairs) {
	level.Error(l.logger).Log(mapToArray(event, detail)...)
}

// Fatal sends a "FATAL" event to the Logger and exits the program with the provided exit code
func (l *Logger) Fatal(code int, event string, detail Pairs) {
	// go-kit/log/level does not support Fatal, so implemented separately here
	if detail == nil {
		detail = Pairs{}
	}
	detail["level"] = "fatal"
	l.logger.Log(mapToArray(event, detail)...)
	if code >= 0 {
		os.Exit(code)
	}
}

func (l *Logger) once(prefix, key string, f func()) bool {
	l.onceMutex.Lock()
	defer l.onceMutex.Unlock()
	key = prefix + "." + key
	if _, ok := l.onceRanEntries[key]; ok {
		return false
	}
	l.onceRanEntries[key] = true
	f()
	return true
}

// InfoOnce sends an "INFO" event to the Logger only once per key.
// Returns true if this invocation was the first, and thus sent to the Logger
func (l *Logger) InfoOnce(key string, event string, detail Pairs) bool {
	return l.once("info", key, func() { l.Info(event, detail) })
}

// WarnOnce sends a "WARN" event to the Logger only once per key.
// Returns true if this invocation was the first, and thus sent to the Logger
func (l *Logger) WarnOnce(key string, event string, detail Pairs) bool {
	return l.once("warn", key, func() { l.Warn(event, detail) })
}

// ErrorOnce sends an "ERROR" event to the Logger only once per key
// Returns true if this invocation was the first, and thus sent to the Logger
func (l *Logger) ErrorOnce(key string, event string, detail Pairs) bool {
	return l.once("error", key, func() { l.Error(event, detail) })
}

// HasWarnedOnce returns true if a warning for the key has already been sent to the Logger
func (l *Logger) HasWarnedOnce(key string) bool {
	l.onceMutex.Lock()
	defer l.onceMutex.Unlock()
	_, ok := l.onceRanEntries["warn."+key]
	return ok
}

// Level returns the configured Log Level
func (l *Logger) Level() string {
	return l.level
}

// SetLogLevel re-filters the logger at the provided level
func (l *Logger) SetLogLevel(logLevel string) {
	l.level = strings.ToLower(logLevel)
	l.logger = filter(l.base, l.level)
}

// Close closes any opened file handles that were used for logging.
func (l *Logger) Close() {
	if l.closer != nil {
		l.closer.Close()
	}
}

// pkgCaller wraps a stack.Call to make the default string output include the
// package path.
type pkgCaller struct {
	c stack.Call
}

// String returns a path from the call stack that is relative to the root of the project
func (pc pkgCaller) String() string {
	return strings.TrimPrefix(fmt.Sprintf("%+v", pc.c), "github.com/tetherproxy/tether/pkg/")
}
