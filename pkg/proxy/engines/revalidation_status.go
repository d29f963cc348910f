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

package engines

import "strconv"

// RevalidationStatus enumerates the possible outcomes of a background refresh
type RevalidationStatus int

const (
	// RevalStatusNone indicates the object will not undergo revalidation against the origin
	RevalStatusNone = RevalidationStatus(iota)
	// RevalStatusInProgress indicates the object is currently being revalidated against the origin
	RevalStatusInProgress
	// RevalStatusOK indicates the origin returned a new object that replaced the cached version
	RevalStatusOK
	// RevalStatusUncacheable indicates the origin responded, but not with a cacheable response
	RevalStatusUncacheable
	// RevalStatusFailed indicates the origin could not be reached and the cached version was kept
	RevalStatusFailed
)

var revalidationStatusNames = map[string]RevalidationStatus{
	"none":         RevalStatusNone,
	"revalidating": RevalStatusInProgress,
	"revalidated":  RevalStatusOK,
	"uncacheable":  RevalStatusUncacheable,
	"failed":       RevalStatusFailed,
}

var revalidationStatusValues = make(map[RevalidationStatus]string, len(revalidationStatusNames))

func init() {
	for k, v := range revalidationStatusNames {
		revalidationStatusValues[v] = k
	}
}

func (s RevalidationStatus) String() string {
	if v, ok := revalidationStatusValues[s]; ok {
		return v
	}
	return strconv.Itoa(int(s))
}
