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

package headers

import (
	"net/http"
	"strings"
)

// ResultHeaderParts defines the components for building the Tether Result Header
type ResultHeaderParts struct {
	Engine string
	Status string
	Queued string
}

func (p ResultHeaderParts) String() string {
	var sb strings.Builder
	sb.WriteString("engine=" + p.Engine)
	if p.Status != "" {
		sb.WriteString("; status=" + p.Status)
	}
	if p.Queued != "" {
		sb.WriteString("; queued=" + p.Queued)
	}
	return sb.String()
}

// SetResultsHeader adds a response header summarizing Tether's handling of the HTTP request
func SetResultsHeader(headers http.Header, engine, status string) {
	if headers == nil || engine == "" {
		return
	}
	p := ResultHeaderParts{Engine: engine, Status: status}
	headers.Set(NameTetherResult, p.String())
}

// SetQueuedResultsHeader adds a result header that names the queue item created for the request
func SetQueuedResultsHeader(headers http.Header, engine, status, id string) {
	if headers == nil || engine == "" {
		return
	}
	p := ResultHeaderParts{Engine: engine, Status: status, Queued: id}
	headers.Set(NameTetherResult, p.String())
}

// ParseResultHeader parses a Tether Result Header value into its parts
func ParseResultHeader(h string) ResultHeaderParts {
	r := ResultHeaderParts{}
	for _, part := range strings.Split(h, "; ") {
		i := strings.Index(part, "=")
		if i <= 0 || i == len(part)-1 {
			continue
		}
		val := part[i+1:]
		switch part[0:i] {
		case "engine":
			r.Engine = val
		case "status":
			r.Status = val
		case "queued":
			r.Queued = val
		}
	}
	return r
}
