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

// Package priority enumerates the priorities of queued mutations and warmup items
package priority

import (
	"fmt"
	"strconv"
)

// Priority orders queued work; higher values are served first
type Priority int

const (
	// Low priority
	Low = Priority(iota)
	// Normal priority
	Normal
	// High priority
	High
)

// Names is a map of priorities keyed by name
var Names = map[string]Priority{
	"low":    Low,
	"normal": Normal,
	"high":   High,
}

// Values is a map of priorities keyed by internal id
var Values = make(map[Priority]string)

func init() {
	for k, v := range Names {
		Values[v] = k
	}
}

func (p Priority) String() string {
	if v, ok := Values[p]; ok {
		return v
	}
	return strconv.Itoa(int(p))
}

// Parse returns the Priority for the provided name. An empty name is Normal.
func Parse(name string) (Priority, error) {
	if name == "" {
		return Normal, nil
	}
	if p, ok := Names[name]; ok {
		return p, nil
	}
	return Normal, fmt.Errorf("invalid priority: %s", name)
}

// MarshalText implements encoding.TextMarshaler
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Priority) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
