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

// Package options provides the configuration options for the persistent store
package options

import (
	"fmt"

	badger "github.com/tetherproxy/tether/pkg/storage/badger/options"
	bbolt "github.com/tetherproxy/tether/pkg/storage/bbolt/options"
	etcd "github.com/tetherproxy/tether/pkg/storage/etcd/options"
	filesystem "github.com/tetherproxy/tether/pkg/storage/filesystem/options"
	redis "github.com/tetherproxy/tether/pkg/storage/redis/options"

	terr "github.com/tetherproxy/tether/pkg/errors"
)

// DefaultProvider is the default storage provider
const DefaultProvider = "memory"

// Providers is the list of supported storage providers
var Providers = map[string]bool{
	"memory":     true,
	"filesystem": true,
	"bbolt":      true,
	"badger":     true,
	"redis":      true,
	"etcd":       true,
}

// Options is a collection of persistent store configurations
type Options struct {
	// Provider selects the storage implementation
	Provider string `yaml:"provider,omitempty"`

	Filesystem *filesystem.Options `yaml:"filesystem,omitempty"`
	BBolt      *bbolt.Options      `yaml:"bbolt,omitempty"`
	Badger     *badger.Options     `yaml:"badger,omitempty"`
	Redis      *redis.Options      `yaml:"redis,omitempty"`
	Etcd       *etcd.Options       `yaml:"etcd,omitempty"`
}

// New returns a new Options with default values
func New() *Options {
	return &Options{
		Provider:   DefaultProvider,
		Filesystem: filesystem.New(),
		BBolt:      bbolt.New(),
		Badger:     badger.New(),
		Redis:      redis.New(),
		Etcd:       etcd.New(),
	}
}

// Clone returns a deep copy of the Options
func (o *Options) Clone() *Options {
	o2 := &Options{Provider: o.Provider}
	if o.Filesystem != nil {
		v := *o.Filesystem
		o2.Filesystem = &v
	}
	if o.BBolt != nil {
		v := *o.BBolt
		o2.BBolt = &v
	}
	if o.Badger != nil {
		v := *o.Badger
		o2.Badger = &v
	}
	if o.Redis != nil {
		v := *o.Redis
		v.Endpoints = append([]string(nil), o.Redis.Endpoints...)
		o2.Redis = &v
	}
	if o.Etcd != nil {
		v := *o.Etcd
		v.Endpoints = append([]string(nil), o.Etcd.Endpoints...)
		o2.Etcd = &v
	}
	return o2
}

// Validate checks that the provider is known and has its options populated
func (o *Options) Validate() error {
	if o.Provider == "" {
		o.Provider = DefaultProvider
	}
	if !Providers[o.Provider] {
		return fmt.Errorf("%w: invalid storage provider %s", terr.ErrInvalidOptions, o.Provider)
	}
	if o.Filesystem == nil {
		o.Filesystem = filesystem.New()
	}
	if o.BBolt == nil {
		o.BBolt = bbolt.New()
	}
	if o.Badger == nil {
		o.Badger = badger.New()
	}
	if o.Redis == nil {
		o.Redis = redis.New()
	}
	if o.Etcd == nil {
		o.Etcd = etcd.New()
	}
	return nil
}

// UnmarshalYAML applies defaults before overlaying YAML-parsed values.
func (o *Options) UnmarshalYAML(unmarshal func(any) error) error {
	type loadOptions Options
	lo := loadOptions(*(New()))
	if err := unmarshal(&lo); err != nil {
		return err
	}
	*o = Options(lo)
	return nil
}
