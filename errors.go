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
	"errors"
	"fmt"

	"go.pbfreader.dev/pbf/internal/decoder"
)

// MaxBlobHeaderSize is the largest a BlobHeader's encoded length prefix may
// declare before a reader refuses to continue.
const MaxBlobHeaderSize = 64 * 1024

// MaxUncompressedDataSize is the largest a blob's decompressed payload may
// be, regardless of which codec produced it.
const MaxUncompressedDataSize = 32 * 1024 * 1024

// ErrUnexpectedEOF means the underlying reader ended in the middle of a
// frame — a partial BlobHeader or Blob — rather than cleanly between blobs.
var ErrUnexpectedEOF = errors.New("pbf: unexpected EOF mid-frame")

// ErrNotSeekable means Rewind was called on a Reader whose source is not an
// io.Seeker.
var ErrNotSeekable = errors.New("pbf: source is not seekable")

// ErrUnsupportedEncoding means a blob declared a compression variant this
// reader has no decoder for (bzip2).
var ErrUnsupportedEncoding = decoder.ErrUnsupportedEncoding

// ErrProtobufParse wraps a failure to walk a message's protobuf wire bytes.
var ErrProtobufParse = decoder.ErrProtobufParse

// BlobHeaderTooLargeError means a BlobHeader's declared length exceeded
// MaxBlobHeaderSize. A declared length of zero is rejected with this error
// too.
type BlobHeaderTooLargeError struct {
	Size int32
}

func (e *BlobHeaderTooLargeError) Error() string {
	return fmt.Sprintf("pbf: blob header size %d exceeds %d byte limit", e.Size, MaxBlobHeaderSize)
}

// BlobDataTooLargeError means a BlobHeader's declared datasize exceeded
// MaxUncompressedDataSize. A payload that decompresses to more than that
// limit fails Decode with a plain error, not with this type.
type BlobDataTooLargeError struct {
	Size int32
}

func (e *BlobDataTooLargeError) Error() string {
	return fmt.Sprintf("pbf: blob data size %d exceeds %d byte limit", e.Size, MaxUncompressedDataSize)
}

// UnexpectedBlobTypeError means a blob's type string didn't match what the
// caller's operation required ("OSMHeader" vs "OSMData").
type UnexpectedBlobTypeError struct {
	Want string
	Got  string
}

func (e *UnexpectedBlobTypeError) Error() string {
	return fmt.Sprintf("pbf: expected blob type %q, got %q", e.Want, e.Got)
}
