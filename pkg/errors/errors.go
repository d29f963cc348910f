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

// Package errors provides the error taxonomy shared across Tether
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOptions is an error for when a configuration is invalid
var ErrInvalidOptions = errors.New("invalid options")

// ErrInvalidPath is an error for when a configuration's path is invalid
var ErrInvalidPath = errors.New("invalid path value in config")

// ErrNilStore indicates a persistence operation was attempted without a Store
var ErrNilStore = errors.New("nil store")

// ErrNilFetcher indicates a network operation was attempted without a Fetcher
var ErrNilFetcher = errors.New("nil fetcher")

// ErrNilCache indicates a caching component was built without a Cache
var ErrNilCache = errors.New("nil cache")

// ErrEmptyQueue indicates there was nothing to process
var ErrEmptyQueue = errors.New("queue is empty")

// NetworkError indicates a fetch was rejected or aborted before a response arrived
type NetworkError struct {
	URL string
	Err error
}

// NewNetworkError returns a NetworkError for the url and cause
func NewNetworkError(url string, err error) *NetworkError {
	return &NetworkError{URL: url, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates an operation exceeded its configured budget
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

// NewTimeoutError returns a TimeoutError for the url and budget
func NewTimeoutError(url string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{URL: url, Timeout: timeout}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s fetching %s", e.Timeout, e.URL)
}

// HTTPError indicates the origin answered with a non-2xx status
type HTTPError struct {
	URL        string
	StatusCode int
}

// NewHTTPError returns an HTTPError for the url and status code
func NewHTTPError(url string, statusCode int) *HTTPError {
	return &HTTPError{URL: url, StatusCode: statusCode}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// StorageError indicates a persistence read or write failed
type StorageError struct {
	Op  string
	Key string
	Err error
}

// NewStorageError returns a StorageError for the operation, key and cause
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// OfflineError indicates an operation was attempted while known to be offline
type OfflineError struct {
	Op string
}

// NewOfflineError returns an OfflineError for the operation
func NewOfflineError(op string) *OfflineError {
	return &OfflineError{Op: op}
}

func (e *OfflineError) Error() string {
	return fmt.Sprintf("cannot %s while offline", e.Op)
}

// IsRetryable returns true when the error is a transient network, timeout or http failure
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	var te *TimeoutError
	var he *HTTPError
	return errors.As(err, &ne) || errors.As(err, &te) || errors.As(err, &he)
}

// IsOffline returns true when the error is an OfflineError
func IsOffline(err error) bool {
	var oe *OfflineError
	return errors.As(err, &oe)
}

// IsUnreachable returns true when the error indicates the origin could not be reached at all
func IsUnreachable(err error) bool {
	var ne *NetworkError
	var te *TimeoutError
	return errors.As(err, &ne) || errors.As(err, &te)
}
