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

// Package redis is the redis implementation of the Tether Store
// and supports Standalone, Sentinel and Cluster
package redis

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tetherproxy/tether/pkg/observability/logging"
	"github.com/tetherproxy/tether/pkg/storage"
	"github.com/tetherproxy/tether/pkg/storage/redis/options"

	"github.com/go-redis/redis"
)

var (
	// Store implements the storage.Store interface
	_ storage.Store = &Store{}
)

// ErrInvalidEndpointConfig indicates an invalid endpoint config
var ErrInvalidEndpointConfig = errors.New("invalid 'endpoint' config")

// ErrInvalidEndpointsConfig indicates an invalid endpoints config
var ErrInvalidEndpointsConfig = errors.New("invalid 'endpoints' config")

// ErrInvalidSentinalMasterConfig indicates an invalid sentinel_master config
var ErrInvalidSentinalMasterConfig = errors.New("invalid 'sentinel_master' config")

const scanCount = 100

// Store represents a redis client that conforms to the storage.Store interface
type Store struct {
	Name   string
	Config *options.Options
	client redis.Cmdable
	closer func() error
	// cluster is set when keys must be scanned on every master
	cluster *redis.ClusterClient
	logger  *logging.Logger
}

// New returns a new redis store as a Tether Store Interface type
func New(name string, cfg *options.Options, logger *logging.Logger) *Store {
	if cfg == nil {
		cfg = options.New()
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &Store{Name: name, Config: cfg, logger: logger}
}

// Connect connects to the configured Redis endpoint
func (s *Store) Connect() error {
	s.logger.Info("connecting to redis", logging.Pairs{"name": s.Name,
		"clientType": s.Config.ClientType})
	switch s.Config.ClientType {
	case "sentinel":
		opts, err := s.sentinelOpts()
		if err != nil {
			return err
		}
		client := redis.NewFailoverClient(opts)
		s.closer = client.Close
		s.client = client
	case "cluster":
		opts, err := s.clusterOpts()
		if err != nil {
			return err
		}
		client := redis.NewClusterClient(opts)
		s.closer = client.Close
		s.client = client
		s.cluster = client
	default:
		opts, err := s.clientOpts()
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		s.closer = client.Close
		s.client = client
	}
	return s.client.Ping().Err()
}

// Close closes the redis client
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// SetItem places the data into Redis using the provided key and ttl
func (s *Store) SetItem(key string, data []byte, ttl time.Duration) error {
	if s.client == nil {
		return storage.ErrNotConnected
	}
	return s.client.Set(key, data, ttl).Err()
}

// GetItem gets data from Redis using the provided key.
// Redis manages item expiration internally.
func (s *Store) GetItem(key string) ([]byte, error) {
	if s.client == nil {
		return nil, storage.ErrNotConnected
	}
	data, err := s.client.Get(key).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrKNF
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// RemoveItem deletes the provided keys
func (s *Store) RemoveItem(keys ...string) error {
	if s.client == nil {
		return storage.ErrNotConnected
	}
	if len(keys) == 0 {
		return nil
	}
	if s.cluster != nil {
		// multi-key DEL must not cross hash slots
		for _, k := range keys {
			if err := s.client.Del(k).Err(); err != nil {
				return err
			}
		}
		return nil
	}
	return s.client.Del(keys...).Err()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Keys returns the keys beginning with prefix
func (s *Store) Keys(prefix string) ([]string, error) {
	if s.client == nil {
		return nil, storage.ErrNotConnected
	}
	match := globEscaper.Replace(prefix) + "*"
	if s.cluster == nil {
		return scanKeys(s.client, match)
	}
	var mtx sync.Mutex
	keys := make([]string, 0)
	err := s.cluster.ForEachMaster(func(c *redis.Client) error {
		k, err := scanKeys(c, match)
		if err != nil {
			return err
		}
		mtx.Lock()
		keys = append(keys, k...)
		mtx.Unlock()
		return nil
	})
	return keys, err
}

func scanKeys(c redis.Cmdable, match string) ([]string, error) {
	keys := make([]string, 0)
	iter := c.Scan(0, match, scanCount).Iterator()
	for iter.Next() {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func durationFromMS(input int) time.Duration {
	return time.Duration(int64(input)) * time.Millisecond
}

func (s *Store) clientOpts() (*redis.Options, error) {
	if s.Config.Endpoint == "" {
		return nil, ErrInvalidEndpointConfig
	}
	o := &redis.Options{
		Addr:         s.Config.Endpoint,
		Network:      s.Config.Protocol,
		Password:     s.Config.Password,
		DB:           s.Config.DB,
		MaxRetries:   s.Config.MaxRetries,
		PoolSize:     s.Config.PoolSize,
		MinIdleConns: s.Config.MinIdleConns,
	}
	if s.Config.DialTimeoutMS != 0 {
		o.DialTimeout = durationFromMS(s.Config.DialTimeoutMS)
	}
	if s.Config.ReadTimeoutMS != 0 {
		o.ReadTimeout = durationFromMS(s.Config.ReadTimeoutMS)
	}
	if s.Config.WriteTimeoutMS != 0 {
		o.WriteTimeout = durationFromMS(s.Config.WriteTimeoutMS)
	}
	if s.Config.IdleTimeoutMS != 0 {
		o.IdleTimeout = durationFromMS(s.Config.IdleTimeoutMS)
	}
	return o, nil
}

func (s *Store) sentinelOpts() (*redis.FailoverOptions, error) {
	if len(s.Config.Endpoints) == 0 {
		return nil, ErrInvalidEndpointsConfig
	}
	if s.Config.SentinelMaster == "" {
		return nil, ErrInvalidSentinalMasterConfig
	}
	o := &redis.FailoverOptions{
		SentinelAddrs: s.Config.Endpoints,
		MasterName:    s.Config.SentinelMaster,
		Password:      s.Config.Password,
		DB:            s.Config.DB,
		MaxRetries:    s.Config.MaxRetries,
		PoolSize:      s.Config.PoolSize,
		MinIdleConns:  s.Config.MinIdleConns,
	}
	if s.Config.DialTimeoutMS != 0 {
		o.DialTimeout = durationFromMS(s.Config.DialTimeoutMS)
	}
	if s.Config.ReadTimeoutMS != 0 {
		o.ReadTimeout = durationFromMS(s.Config.ReadTimeoutMS)
	}
	if s.Config.WriteTimeoutMS != 0 {
		o.WriteTimeout = durationFromMS(s.Config.WriteTimeoutMS)
	}
	if s.Config.IdleTimeoutMS != 0 {
		o.IdleTimeout = durationFromMS(s.Config.IdleTimeoutMS)
	}
	return o, nil
}

func (s *Store) clusterOpts() (*redis.ClusterOptions, error) {
	if len(s.Config.Endpoints) == 0 {
		return nil, ErrInvalidEndpointsConfig
	}
	o := &redis.ClusterOptions{
		Addrs:        s.Config.Endpoints,
		Password:     s.Config.Password,
		MaxRetries:   s.Config.MaxRetries,
		PoolSize:     s.Config.PoolSize,
		MinIdleConns: s.Config.MinIdleConns,
	}
	if s.Config.DialTimeoutMS != 0 {
		o.DialTimeout = durationFromMS(s.Config.DialTimeoutMS)
	}
	if s.Config.ReadTimeoutMS != 0 {
		o.ReadTimeout = durationFromMS(s.Config.ReadTimeoutMS)
	}
	if s.Config.WriteTimeoutMS != 0 {
		o.WriteTimeout = durationFromMS(s.Config.WriteTimeoutMS)
	}
	if s.Config.IdleTimeoutMS != 0 {
		o.IdleTimeout = durationFromMS(s.Config.IdleTimeoutMS)
	}
	return o, nil
}
