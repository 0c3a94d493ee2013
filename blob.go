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
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.pbfreader.dev/pbf/internal/core"
	"go.pbfreader.dev/pbf/internal/decoder"
	"go.pbfreader.dev/pbf/internal/pb"
	"go.pbfreader.dev/pbf/model"
)

// readBlobHeader reads the 4-byte big-endian length prefix and the
// BlobHeader message it introduces. A clean end of stream (the prefix
// itself missing) is reported as io.EOF; anything else that cuts a frame
// short is ErrUnexpectedEOF.
func readBlobHeader(r io.Reader) (*pb.BlobHeader, error) {
	var sizeBuf [4]byte

	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrUnexpectedEOF
		}

		return nil, fmt.Errorf("pbf: read blob header length: %w", err)
	}

	size := int32(binary.BigEndian.Uint32(sizeBuf[:]))
	if size <= 0 || size > MaxBlobHeaderSize {
		return nil, &BlobHeaderTooLargeError{Size: size}
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrUnexpectedEOF
		}

		return nil, fmt.Errorf("pbf: read blob header: %w", err)
	}

	header, err := pb.UnmarshalBlobHeader(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtobufParse, err)
	}

	return header, nil
}

// readBlobData reads a Blob message's bytes into a freshly checked-out
// pooled buffer and parses it. The caller owns the returned buffer and must
// Close it once the blob's variant payload is no longer needed — that
// payload aliases the buffer's backing array.
func readBlobData(r io.Reader, header *pb.BlobHeader) (*pb.Blob, *core.PooledBuffer, error) {
	if header.Datasize < 0 || header.Datasize > MaxUncompressedDataSize {
		return nil, nil, &BlobDataTooLargeError{Size: header.Datasize}
	}

	buf := core.NewPooledBuffer()

	if _, err := io.CopyN(buf, r, int64(header.Datasize)); err != nil {
		buf.Close()

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, ErrUnexpectedEOF
		}

		return nil, nil, fmt.Errorf("pbf: read blob data: %w", err)
	}

	blob, err := pb.UnmarshalBlob(buf.Bytes())
	if err != nil {
		buf.Close()

		return nil, nil, fmt.Errorf("%w: %w", ErrProtobufParse, err)
	}

	return blob, buf, nil
}

// LazyBlock is a blob that has been framed and its container message parsed,
// but whose payload has not yet been decompressed or interpreted as a
// PrimitiveBlock. It is a one-way value: once Decode succeeds it caches and
// returns the same *model.PrimitiveBlock on every subsequent call, and its
// backing buffer is released back to the pool.
type LazyBlock struct {
	header  *pb.BlobHeader
	blob    *pb.Blob
	buf     *core.PooledBuffer
	decoded *model.PrimitiveBlock
	closed  bool
}

// Type reports the blob's declared type string ("OSMHeader" or "OSMData").
func (lb *LazyBlock) Type() string {
	return lb.header.Type
}

// Decode decompresses and parses the blob as a PrimitiveBlock. It fails if
// the blob's declared type isn't "OSMData".
func (lb *LazyBlock) Decode() (*model.PrimitiveBlock, error) {
	if lb.decoded != nil {
		return lb.decoded, nil
	}

	if lb.closed {
		return nil, errors.New("pbf: blob already closed")
	}

	if lb.header.Type != "OSMData" {
		return nil, &UnexpectedBlobTypeError{Want: "OSMData", Got: lb.header.Type}
	}

	dataBuf := core.NewPooledBuffer()
	defer dataBuf.Close()

	raw, err := decoder.Unpack(dataBuf, lb.blob, MaxUncompressedDataSize)
	if err != nil {
		return nil, err
	}

	blk, err := decoder.DecodePrimitiveBlock(raw)
	if err != nil {
		return nil, err
	}

	lb.decoded = blk
	lb.release()

	return blk, nil
}

// Close releases the blob's pooled buffer without decoding it. Calling
// Decode after Close is an error; calling Close after a successful Decode,
// or more than once, is a no-op.
func (lb *LazyBlock) Close() {
	lb.release()
}

func (lb *LazyBlock) release() {
	lb.closed = true

	if lb.buf != nil {
		lb.buf.Close()
		lb.buf = nil
	}
}
