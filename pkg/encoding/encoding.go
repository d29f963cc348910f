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

// Package encoding compresses payloads written to the persistent store. Each
// encoded payload begins with a marker byte naming its codec, so payloads
// written under one setting stay readable after the setting changes.
package encoding

import (
	"errors"
	"fmt"

	"github.com/tetherproxy/tether/pkg/encoding/brotli"
	"github.com/tetherproxy/tether/pkg/encoding/gzip"
	"github.com/tetherproxy/tether/pkg/encoding/snappy"
	"github.com/tetherproxy/tether/pkg/encoding/zstd"
)

// Provider identifies a compression codec
type Provider byte

const (
	// None stores the payload as-is
	None Provider = iota
	// Brotli compresses with brotli
	Brotli
	// Snappy compresses with snappy
	Snappy
	// Zstd compresses with zstandard
	Zstd
	// Gzip compresses with gzip
	Gzip
)

// ErrEmptyPayload indicates a payload too short to carry its marker byte
var ErrEmptyPayload = errors.New("empty encoded payload")

// ErrUnsupportedEncoding indicates an unknown codec name or marker
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

var providerNames = map[string]Provider{
	"":       None,
	"none":   None,
	"br":     Brotli,
	"brotli": Brotli,
	"snappy": Snappy,
	"zstd":   Zstd,
	"gzip":   Gzip,
}

var providerValues = map[Provider]string{
	None:   "none",
	Brotli: "brotli",
	Snappy: "snappy",
	Zstd:   "zstd",
	Gzip:   "gzip",
}

func (p Provider) String() string {
	if v, ok := providerValues[p]; ok {
		return v
	}
	return fmt.Sprintf("unknown(%d)", byte(p))
}

// Parse returns the Provider for the provided codec name
func Parse(name string) (Provider, error) {
	if p, ok := providerNames[name]; ok {
		return p, nil
	}
	return None, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
}

// Encode compresses in with the provider and prefixes the marker byte
func Encode(p Provider, in []byte) ([]byte, error) {
	var body []byte
	var err error
	switch p {
	case None:
		body = in
	case Brotli:
		body, err = brotli.Encode(in)
	case Snappy:
		body, err = snappy.Encode(in)
	case Zstd:
		body, err = zstd.Encode(in)
	case Gzip:
		body, err = gzip.Encode(in)
	default:
		return nil, ErrUnsupportedEncoding
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(body)+1)
	out[0] = byte(p)
	copy(out[1:], body)
	return out, nil
}

// Decode reads the marker byte and decompresses the remainder accordingly
func Decode(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return nil, ErrEmptyPayload
	}
	body := in[1:]
	switch Provider(in[0]) {
	case None:
		return body, nil
	case Brotli:
		return brotli.Decode(body)
	case Snappy:
		return snappy.Decode(body)
	case Zstd:
		return zstd.Decode(body)
	case Gzip:
		return gzip.Decode(body)
	}
	return nil, fmt.Errorf("%w: marker %d", ErrUnsupportedEncoding, in[0])
}
