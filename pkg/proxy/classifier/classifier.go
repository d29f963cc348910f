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

// Package classifier selects the strategy used to serve each proxied request
package classifier

import (
	"net/http"

	"github.com/tetherproxy/tether/pkg/proxy/headers"
	"github.com/tetherproxy/tether/pkg/proxy/strategy"
	"github.com/tetherproxy/tether/pkg/proxy/strategy/options"
)

// Classifier maps requests to strategies using an ordered rule list
type Classifier struct {
	rules []*options.Rule
}

// New returns a Classifier for the provided validated rules. The rule order
// is fixed for the life of the Classifier.
func New(rules []*options.Rule) *Classifier {
	r := make([]*options.Rule, 0, len(rules))
	for _, rule := range rules {
		if rule != nil && rule.Regexp != nil {
			r = append(r, rule)
		}
	}
	return &Classifier{rules: r}
}

// Classify returns the strategy for r. Navigations always use
// NavigationWithTimeout; otherwise the first rule matching the request path
// wins, and StaleWhileRevalidate applies when no rule matches.
func (c *Classifier) Classify(r *http.Request) strategy.Strategy {
	if headers.IsNavigation(r) {
		return strategy.NavigationWithTimeout
	}
	if r == nil || r.URL == nil {
		return strategy.StaleWhileRevalidate
	}
	return c.ClassifyPath(r.URL.Path)
}

// ClassifyPath returns the strategy of the first rule matching path
func (c *Classifier) ClassifyPath(path string) strategy.Strategy {
	for _, rule := range c.rules {
		if rule.Regexp.MatchString(path) {
			return rule.StrategyType
		}
	}
	return strategy.StaleWhileRevalidate
}
