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

// Package push turns push hooks into broadcast notifications and resolves
// notification clicks
package push

import (
	"errors"

	"github.com/tetherproxy/tether/pkg/broadcast"
)

const (
	// ActionView opens the notification's url
	ActionView = "view"
	// ActionDismiss closes the notification
	ActionDismiss = "dismiss"

	// DefaultTitle is used for notifications pushed without a title
	DefaultTitle = "Tether"
	// DefaultURL is opened by a view click whose data has no url
	DefaultURL = "/"
)

// ErrUnknownAction is returned for a click with an unrecognized action
var ErrUnknownAction = errors.New("unknown notification action")

// Action is a button shown with a notification
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is the payload of a push hook
type Notification struct {
	Title   string                 `json:"title"`
	Body    string                 `json:"body"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Actions []Action               `json:"actions,omitempty"`
}

// Click describes a user's interaction with a notification
type Click struct {
	Action string                 `json:"action"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// ClickResult tells the client what to open, if anything
type ClickResult struct {
	Open string `json:"open,omitempty"`
}

// Hook publishes notifications through a broadcaster
type Hook struct {
	broadcaster broadcast.Publisher
}

// New returns a Hook publishing through b
func New(b broadcast.Publisher) *Hook {
	return &Hook{broadcaster: b}
}

// Push completes n with the default title and actions, publishes it, and returns it
func (h *Hook) Push(n Notification) Notification {
	if n.Title == "" {
		n.Title = DefaultTitle
	}
	if len(n.Actions) == 0 {
		n.Actions = []Action{
			{Action: ActionView, Title: "View"},
			{Action: ActionDismiss, Title: "Dismiss"},
		}
	}
	if h.broadcaster != nil {
		h.broadcaster.Publish(broadcast.PushNotification, n)
	}
	return n
}

// HandleClick resolves a click. A view opens data.url, or DefaultURL when it
// is absent; a dismiss, or a click on the notification body, opens nothing.
func (h *Hook) HandleClick(c Click) (ClickResult, error) {
	switch c.Action {
	case ActionView:
		if u, ok := c.Data["url"].(string); ok && u != "" {
			return ClickResult{Open: u}, nil
		}
		return ClickResult{Open: DefaultURL}, nil
	case ActionDismiss, "":
		return ClickResult{}, nil
	}
	return ClickResult{}, ErrUnknownAction
}
