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

package storage

import (
	"encoding/binary"
	"errors"
	"time"
)

// ErrShortItem indicates a stored item is too short to hold its expiration header
var ErrShortItem = errors.New("stored item is truncated")

const itemHeaderLen = 8

// EncodeItem prefixes data with its expiration time for providers that do not
// expire keys natively. A ttl of 0 never expires.
func EncodeItem(data []byte, ttl time.Duration, now time.Time) []byte {
	b := make([]byte, itemHeaderLen+len(data))
	var exp int64
	if ttl > 0 {
		exp = now.Add(ttl).UnixNano()
	}
	binary.BigEndian.PutUint64(b, uint64(exp))
	copy(b[itemHeaderLen:], data)
	return b
}

// DecodeItem returns the payload of an encoded item, or ErrKNF if it has expired
func DecodeItem(b []byte, now time.Time) ([]byte, error) {
	if len(b) < itemHeaderLen {
		return nil, ErrShortItem
	}
	exp := int64(binary.BigEndian.Uint64(b))
	if exp > 0 && now.UnixNano() > exp {
		return nil, ErrKNF
	}
	return b[itemHeaderLen:], nil
}
