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

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/tetherproxy/tether/pkg/proxy/headers"

	"github.com/tinylib/msgp/msgp"
)

// Document represents a full HTTP Response/Cache Document with a buffered body
type Document struct {
	StatusCode int                 `msg:"status_code"`
	Headers    map[string][]string `msg:"headers"`
	Body       []byte              `msg:"body"`
	URL        string              `msg:"url"`
	StoredAt   time.Time           `msg:"stored_at"`
	TTL        time.Duration       `msg:"ttl"`

	headerLock sync.Mutex
}

// DocumentFromHTTPResponse returns a Document from the provided response and body
func DocumentFromHTTPResponse(resp *http.Response, body []byte, url string) *Document {
	d := &Document{StatusCode: resp.StatusCode, URL: url, Body: body}
	if resp.Header != nil {
		d.Headers = resp.Header.Clone()
	} else {
		d.Headers = make(http.Header)
	}
	// the stored body is always complete and unencoded by the transport
	http.Header(d.Headers).Del(headers.NameContentLength)
	http.Header(d.Headers).Del(headers.NameTransferEncoding)
	return d
}

// SafeHeaderClone returns a threadsafe copy of the Document Header
func (d *Document) SafeHeaderClone() http.Header {
	d.headerLock.Lock()
	h := http.Header(d.Headers).Clone()
	d.headerLock.Unlock()
	if h == nil {
		h = make(http.Header)
	}
	return h
}

// Size returns the approximate size of the Document's headers and body
func (d *Document) Size() int {
	d.headerLock.Lock()
	i := len(headers.String(http.Header(d.Headers)))
	d.headerLock.Unlock()
	return i + len(d.Body) + len(d.URL)
}

// Fresh returns true when the document is within its ttl at now
func (d *Document) Fresh(now time.Time) bool {
	return d.TTL > 0 && now.Sub(d.StoredAt) <= d.TTL
}

// Remaining returns the ttl left at now, or 0 when the document is not fresh
func (d *Document) Remaining(now time.Time) time.Duration {
	if !d.Fresh(now) {
		return 0
	}
	return d.TTL - now.Sub(d.StoredAt)
}

// Response returns a new http.Response for the request, built from the Document
func (d *Document) Response(r *http.Request) *http.Response {
	h := d.SafeHeaderClone()
	h.Set(headers.NameContentLength, strconv.Itoa(len(d.Body)))
	return &http.Response{
		Status:        strconv.Itoa(d.StatusCode) + " " + http.StatusText(d.StatusCode),
		StatusCode:    d.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(d.Body)),
		ContentLength: int64(len(d.Body)),
		Request:       r,
	}
}

// MarshalMsg implements msgp.Marshaler
func (d *Document) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, d.Msgsize())
	o = msgp.AppendMapHeader(o, 6)
	o = msgp.AppendString(o, "status_code")
	o = msgp.AppendInt(o, d.StatusCode)
	o = msgp.AppendString(o, "headers")
	d.headerLock.Lock()
	o = msgp.AppendMapHeader(o, uint32(len(d.Headers)))
	for k, vals := range d.Headers {
		o = msgp.AppendString(o, k)
		o = msgp.AppendArrayHeader(o, uint32(len(vals)))
		for _, v := range vals {
			o = msgp.AppendString(o, v)
		}
	}
	d.headerLock.Unlock()
	o = msgp.AppendString(o, "body")
	o = msgp.AppendBytes(o, d.Body)
	o = msgp.AppendString(o, "url")
	o = msgp.AppendString(o, d.URL)
	o = msgp.AppendString(o, "stored_at")
	o = msgp.AppendInt64(o, d.StoredAt.UnixNano())
	o = msgp.AppendString(o, "ttl")
	o = msgp.AppendInt64(o, int64(d.TTL))
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (d *Document) UnmarshalMsg(bts []byte) ([]byte, error) {
	var field []byte
	var zb0001 uint32
	zb0001, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err)
	}
	for zb0001 > 0 {
		zb0001--
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, msgp.WrapError(err)
		}
		switch msgp.UnsafeString(field) {
		case "status_code":
			d.StatusCode, bts, err = msgp.ReadIntBytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "StatusCode")
			}
		case "headers":
			var zb0002 uint32
			zb0002, bts, err = msgp.ReadMapHeaderBytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "Headers")
			}
			d.Headers = make(map[string][]string, zb0002)
			for zb0002 > 0 {
				zb0002--
				var k string
				k, bts, err = msgp.ReadStringBytes(bts)
				if err != nil {
					return bts, msgp.WrapError(err, "Headers")
				}
				var zb0003 uint32
				zb0003, bts, err = msgp.ReadArrayHeaderBytes(bts)
				if err != nil {
					return bts, msgp.WrapError(err, "Headers", k)
				}
				vals := make([]string, zb0003)
				for i := range vals {
					vals[i], bts, err = msgp.ReadStringBytes(bts)
					if err != nil {
						return bts, msgp.WrapError(err, "Headers", k, i)
					}
				}
				d.Headers[k] = vals
			}
		case "body":
			d.Body, bts, err = msgp.ReadBytesBytes(bts, d.Body)
			if err != nil {
				return bts, msgp.WrapError(err, "Body")
			}
		case "url":
			d.URL, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "URL")
			}
		case "stored_at":
			var ns int64
			ns, bts, err = msgp.ReadInt64Bytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "StoredAt")
			}
			d.StoredAt = time.Unix(0, ns)
		case "ttl":
			var ttl int64
			ttl, bts, err = msgp.ReadInt64Bytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "TTL")
			}
			d.TTL = time.Duration(ttl)
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				return bts, msgp.WrapError(err)
			}
		}
	}
	return bts, nil
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (d *Document) Msgsize() int {
	s := msgp.MapHeaderSize + 12 + msgp.IntSize + 8 + msgp.MapHeaderSize
	d.headerLock.Lock()
	for k, vals := range d.Headers {
		s += msgp.StringPrefixSize + len(k) + msgp.ArrayHeaderSize
		for _, v := range vals {
			s += msgp.StringPrefixSize + len(v)
		}
	}
	d.headerLock.Unlock()
	s += 5 + msgp.BytesPrefixSize + len(d.Body) + 4 + msgp.StringPrefixSize + len(d.URL) +
		10 + msgp.Int64Size + 4 + msgp.Int64Size
	return s
}
