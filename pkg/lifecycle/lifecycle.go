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

// Package lifecycle manages the active cache version. Cached responses are
// namespaced by the active version; a new version loaded by configuration
// waits as pending until a client asks for it to be activated.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tetherproxy/tether/pkg/broadcast"
	"github.com/tetherproxy/tether/pkg/observability/logging"
)

// ErrUnknownMessage is returned for a client message type the controller does not handle
var ErrUnknownMessage = errors.New("unknown client message type")

// ClientMessage is a message sent by a client to the controller
type ClientMessage struct {
	Type    broadcast.MessageType `json:"type"`
	Version string                `json:"version,omitempty"`
}

// ActivateFunc is called after a pending version becomes active
type ActivateFunc func(previous, active string)

// Controller tracks the active and pending cache versions
type Controller struct {
	mtx         sync.Mutex
	active      string
	pending     string
	onActivate  []ActivateFunc
	broadcaster broadcast.Publisher
	logger      *logging.Logger
}

// New returns a Controller with the provided active version
func New(version string, b broadcast.Publisher, logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.NoopLogger()
	}
	return &Controller{active: version, broadcaster: b, logger: logger}
}

// Active returns the active version
func (c *Controller) Active() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.active
}

// Pending returns the pending version, or an empty string when none is waiting
func (c *Controller) Pending() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.pending
}

// OnActivate registers fn to be called after each activation
func (c *Controller) OnActivate(fn ActivateFunc) {
	if fn == nil {
		return
	}
	c.mtx.Lock()
	c.onActivate = append(c.onActivate, fn)
	c.mtx.Unlock()
}

// Stage records version as pending. Staging the active version clears any pending one.
func (c *Controller) Stage(version string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if version == c.active {
		c.pending = ""
		return
	}
	if version != c.pending {
		c.pending = version
		c.logger.Info("cache version staged",
			logging.Pairs{"active": c.active, "pending": version})
	}
}

// Activate promotes the pending version. It returns the active version and
// whether a promotion took place.
func (c *Controller) Activate() (string, bool) {
	c.mtx.Lock()
	if c.pending == "" {
		v := c.active
		c.mtx.Unlock()
		return v, false
	}
	previous := c.active
	c.active, c.pending = c.pending, ""
	active := c.active
	hooks := make([]ActivateFunc, len(c.onActivate))
	copy(hooks, c.onActivate)
	c.mtx.Unlock()

	c.logger.Info("cache version activated",
		logging.Pairs{"previous": previous, "active": active})
	for _, fn := range hooks {
		fn(previous, active)
	}
	if c.broadcaster != nil {
		c.broadcaster.Publish(broadcast.VersionActivated,
			map[string]string{"previous": previous, "version": active})
	}
	return active, true
}

// HandleMessage processes a client message and returns the reply for the sender
func (c *Controller) HandleMessage(m ClientMessage) (*broadcast.Message, error) {
	switch m.Type {
	case broadcast.SkipWaiting:
		v, activated := c.Activate()
		return &broadcast.Message{Type: broadcast.Version,
			Payload: map[string]interface{}{"version": v, "activated": activated}}, nil
	case broadcast.GetVersion:
		active := c.Active()
		payload := map[string]string{"version": active}
		if c.broadcaster != nil {
			c.broadcaster.Publish(broadcast.Version, payload)
			if m.Version != "" && m.Version != active {
				c.broadcaster.Publish(broadcast.VersionMismatch,
					map[string]string{"client": m.Version, "version": active})
			}
		}
		return &broadcast.Message{Type: broadcast.Version, Payload: payload}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, m.Type)
}
