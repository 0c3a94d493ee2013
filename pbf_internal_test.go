// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pbf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"

	"google.golang.org/protobuf/encoding/protowire"
)

func tagVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func tagBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendFrame writes one length-prefixed BlobHeader+Blob frame to buf, where
// payload is raw bytes for the named blob type, using the raw (uncompressed)
// variant.
func appendFrame(buf *bytes.Buffer, blobType string, payload []byte) {
	appendFrameVariant(buf, blobType, payload, false)
}

// appendZlibFrame writes a frame whose payload is zlib-compressed.
func appendZlibFrame(buf *bytes.Buffer, blobType string, payload []byte) {
	appendFrameVariant(buf, blobType, payload, true)
}

func appendFrameVariant(buf *bytes.Buffer, blobType string, payload []byte, zlibCompress bool) {
	var blob []byte

	if zlibCompress {
		var compressed bytes.Buffer

		w := zlib.NewWriter(&compressed)
		_, _ = w.Write(payload)
		_ = w.Close()

		blob = tagVarint(blob, 2, uint64(len(payload)))
		blob = tagBytes(blob, 3, compressed.Bytes())
	} else {
		blob = tagBytes(blob, 1, payload)
	}

	var header []byte
	header = tagBytes(header, 1, []byte(blobType))
	header = tagVarint(header, 3, uint64(len(blob)))

	var sizePrefix [4]byte
	binary.BigEndian.PutUint32(sizePrefix[:], uint32(len(header)))

	buf.Write(sizePrefix[:])
	buf.Write(header)
	buf.Write(blob)
}

// minimalHeaderBlockBytes builds an OSMHeader payload with no required
// features, suitable for framing with appendFrame.
func minimalHeaderBlockBytes() []byte {
	var b []byte
	b = tagBytes(b, 16, []byte("test-writer/1.0"))

	return b
}

// minimalPrimitiveBlockBytes builds an OSMData payload containing a single
// string table and an empty primitive group.
func minimalPrimitiveBlockBytes() []byte {
	var st []byte
	st = tagBytes(st, 1, []byte(""))

	var group []byte

	var b []byte
	b = tagBytes(b, 1, st)
	b = tagBytes(b, 2, group)

	return b
}
