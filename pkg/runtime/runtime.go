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

// Package runtime holds the identity of the running binary
package runtime

// ApplicationName is the name of the running binary
var ApplicationName string

// ApplicationVersion is the version of the running binary
var ApplicationVersion string

// Product returns the name/version token used in Via headers. The version is
// omitted when unset.
func Product() string {
	if ApplicationVersion == "" {
		return ApplicationName
	}
	return ApplicationName + "/" + ApplicationVersion
}
