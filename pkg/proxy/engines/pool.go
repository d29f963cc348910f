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

import "sync"

// maxMarshalBufferSize is the maximum buffer capacity to allow back into the pool.
// Buffers that grew beyond this are discarded to prevent pool bloat.
const maxMarshalBufferSize = 1 << 20 // 1 MB

var marshalBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4096)
		return &b
	},
}

func getMarshalBuf() []byte {
	return (*marshalBufPool.Get().(*[]byte))[:0]
}

func putMarshalBuf(b []byte) {
	if b == nil || cap(b) > maxMarshalBufferSize {
		return
	}
	b = b[:0]
	marshalBufPool.Put(&b)
}
