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

// Package etcd is the etcd implementation of the Tether Store. Item expiry is
// implemented with etcd leases.
package etcd

import (
	"context"
	"strings"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/etcd/options"

	clientv3 "go.etcd.io/etcd/client/v3"
)

var _ storage.Store = &Store{}

// Store describes an etcd Store
type Store struct {
	Name   string
	Config *options.Options
	client *clientv3.Client
	logger *logging.Logger
}

// New returns a new etcd store as a Tether Store Interface type
func New(name string, cfg *options.Options, logger *logging.Logger) *Store {
	if cfg == nil {
		cfg = options.New()
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &Store{Name: name, Config: cfg, logger: logger}
}

// Connect dials the configured etcd cluster
func (s *Store) Connect() error {
	s.logger.Info("connecting to etcd", logging.Pairs{"name": s.Name,
		"endpoints": strings.Join(s.Config.Endpoints, ",")})
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   s.Config.Endpoints,
		DialTimeout: time.Duration(s.Config.DialTimeoutMS) * time.Millisecond,
		Username:    s.Config.Username,
		Password:    s.Config.Password,
	})
	if err != nil {
		return err
	}
	s.client = c
	ctx, cancel := s.requestContext()
	defer cancel()
	// verify the cluster answers before reporting success
	_, err = c.Get(ctx, s.Config.KeyPrefix, clientv3.WithCountOnly())
	return err
}

// Close closes the etcd client
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(),
		time.Duration(s.Config.RequestTimeoutMS)*time.Millisecond)
}

func (s *Store) key(k string) string {
	return s.Config.KeyPrefix + k
}

// SetItem puts data under key, attached to a lease when ttl is set
func (s *Store) SetItem(key string, data []byte, ttl time.Duration) error {
	if s.client == nil {
		return storage.ErrNotConnected
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	var opts []clientv3.OpOption
	if ttl > 0 {
		secs := int64((ttl + time.Second - 1) / time.Second)
		lease, err := s.client.Grant(ctx, secs)
		if err != nil {
			return err
		}
		opts = append(opts, clientv3.WithLease(lease.ID))
	}
	_, err := s.client.Put(ctx, s.key(key), string(data), opts...)
	return err
}

// GetItem reads the data stored under key
func (s *Store) GetItem(key string) ([]byte, error) {
	if s.client == nil {
		return nil, storage.ErrNotConnected
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	resp, err := s.client.Get(ctx, s.key(key))
	if err != nil {
		return nil, err
	}
	if len(resp.Kvs) == 0 {
		return nil, storage.ErrKNF
	}
	return resp.Kvs[0].Value, nil
}

// RemoveItem deletes the provided keys
func (s *Store) RemoveItem(keys ...string) error {
	if s.client == nil {
		return storage.ErrNotConnected
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	for _, k := range keys {
		if _, err := s.client.Delete(ctx, s.key(k)); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the keys beginning with prefix
func (s *Store) Keys(prefix string) ([]string, error) {
	if s.client == nil {
		return nil, storage.ErrNotConnected
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	resp, err := s.client.Get(ctx, s.key(prefix), clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(resp.Kvs))
	for i, kv := range resp.Kvs {
		keys[i] = strings.TrimPrefix(string(kv.Key), s.Config.KeyPrefix)
	}
	return keys, nil
}
