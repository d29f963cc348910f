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

package encoding

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"error":"Offline","message":"Not cached."}`), 50)
	for _, name := range []string{"none", "brotli", "snappy", "zstd", "gzip"} {
		t.Run(name, func(t *testing.T) {
			p, err := Parse(name)
			if err != nil {
				t.Fatal(err)
			}
			if p.String() != name {
				t.Errorf("expected %s got %s", name, p.String())
			}
			enc, err := Encode(p, payload)
			if err != nil {
				t.Fatal(err)
			}
			if enc[0] != byte(p) {
				t.Errorf("expected marker %d got %d", p, enc[0])
			}
			if p != None && len(enc) >= len(payload) {
				t.Errorf("expected compression, got %d bytes from %d", len(enc), len(payload))
			}
			dec, err := Decode(enc)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(dec, payload) {
				t.Error("decoded payload mismatch")
			}
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	if _, err := Parse("lzma"); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("expected %v got %v", ErrUnsupportedEncoding, err)
	}
	if p, _ := Parse("br"); p != Brotli {
		t.Errorf("expected %s got %s", Brotli, p)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(nil); err != ErrEmptyPayload {
		t.Errorf("expected %v got %v", ErrEmptyPayload, err)
	}
	if _, err := Decode([]byte{99, 1, 2}); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("expected %v got %v", ErrUnsupportedEncoding, err)
	}
	if _, err := Encode(Provider(99), []byte("x")); err != ErrUnsupportedEncoding {
		t.Errorf("expected %v got %v", ErrUnsupportedEncoding, err)
	}
	if Provider(99).String() != "unknown(99)" {
		t.Errorf("unexpected string %s", Provider(99).String())
	}
}
