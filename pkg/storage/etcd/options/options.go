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

// Package options provides the configuration options for the etcd store
package options

const (
	// DefaultEndpoint is the default etcd endpoint
	DefaultEndpoint = "127.0.0.1:2379"
	// DefaultDialTimeoutMS is the default dial timeout
	DefaultDialTimeoutMS = 5000
	// DefaultRequestTimeoutMS is the default timeout of a single request
	DefaultRequestTimeoutMS = 5000
	// DefaultKeyPrefix namespaces Tether's keys within the etcd keyspace
	DefaultKeyPrefix = "/tether/"
)

// Options is a collection of Configurations for storing data in etcd
type Options struct {
	// Endpoints is the list of etcd cluster members
	Endpoints []string `yaml:"endpoints,omitempty"`
	// Username and Password are set when etcd authentication is enabled
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	// DialTimeoutMS is the timeout for establishing the client connection
	DialTimeoutMS int `yaml:"dial_timeout_ms,omitempty"`
	// RequestTimeoutMS bounds each Get, Put or Delete
	RequestTimeoutMS int `yaml:"request_timeout_ms,omitempty"`
	// KeyPrefix is prepended to every key
	KeyPrefix string `yaml:"key_prefix,omitempty"`
}

// New returns a reference to a new etcd Options
func New() *Options {
	return &Options{
		Endpoints:        []string{DefaultEndpoint},
		DialTimeoutMS:    DefaultDialTimeoutMS,
		RequestTimeoutMS: DefaultRequestTimeoutMS,
		KeyPrefix:        DefaultKeyPrefix,
	}
}
