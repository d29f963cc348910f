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

// Package options provides the configuration options for the filesystem store
package options

// DefaultStoragePath is the default directory holding persisted items
const DefaultStoragePath = "/tmp/tether/store"

// Options is a collection of Configurations for storing data on the Filesystem
type Options struct {
	// StoragePath represents the path on disk where persisted items will live
	StoragePath string `yaml:"storage_path,omitempty"`
}

// New returns a reference to a new Filesystem Options
func New() *Options {
	return &Options{StoragePath: DefaultStoragePath}
}
