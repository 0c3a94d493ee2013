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

package decoder

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz/lzma"

	"go.pbfreader.dev/pbf/internal/core"
	"go.pbfreader.dev/pbf/internal/pb"
)

// Unpack returns a blob's decompressed payload, growing buf to fit it. Raw
// blobs are returned as-is without touching buf. maxSize bounds the number
// of decompressed bytes read regardless of which codec produced them — the
// same decompression-bomb guard applies whether the wire format's own
// raw_size field is honest or not.
func Unpack(buf *core.PooledBuffer, blob *pb.Blob, maxSize int32) ([]byte, error) {
	var factory func() (io.Reader, error)

	switch blob.Variant {
	case pb.BlobEmpty:
		return nil, nil
	case pb.BlobRaw:
		return blob.Raw, nil
	case pb.BlobZlib:
		factory = func() (io.Reader, error) {
			return zlib.NewReader(bytes.NewReader(blob.ZlibData))
		}
	case pb.BlobLzma:
		factory = func() (io.Reader, error) {
			return lzma.NewReader(bytes.NewReader(blob.LzmaData))
		}
	case pb.BlobLZ4:
		factory = func() (io.Reader, error) {
			return lz4.NewReader(bytes.NewReader(blob.Lz4Data)), nil
		}
	case pb.BlobZstd:
		factory = func() (io.Reader, error) {
			return zstd.NewReader(bytes.NewReader(blob.ZstdData))
		}
	case pb.BlobBzip2:
		return nil, fmt.Errorf("%w: bzip2", ErrUnsupportedEncoding)
	default:
		return nil, fmt.Errorf("%w: unrecognized blob variant %d", ErrUnsupportedEncoding, blob.Variant)
	}

	rawBufferSize := int(blob.RawSize) + bytes.MinRead
	if limit := int(maxSize) + bytes.MinRead; rawBufferSize > limit {
		rawBufferSize = limit
	}

	if rawBufferSize > buf.Cap() {
		buf.Grow(rawBufferSize)
	}

	rdr, err := factory()
	if err != nil {
		return nil, fmt.Errorf("pbf: decompressor init: %w", err)
	}

	bounded := io.LimitReader(rdr, int64(maxSize)+1)

	n, err := buf.ReadFrom(bounded)
	if err != nil {
		return nil, fmt.Errorf("pbf: decompress blob: %w", err)
	}

	if n > int64(maxSize) {
		return nil, fmt.Errorf("pbf: decompressed blob exceeds %d bytes", maxSize)
	}

	// raw_size is optional and producers vary in how faithfully they report
	// it; a mismatch is logged, not fatal.
	if blob.HasRawSize && n != int64(blob.RawSize) {
		slog.Warn("decompressed size does not match declared raw_size", "got", n, "raw_size", blob.RawSize)
	}

	return buf.Bytes(), nil
}
