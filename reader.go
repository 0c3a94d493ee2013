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

// Package pbf streams OpenStreetMap PBF files: it frames and decompresses
// "OSMHeader"/"OSMData" blobs and walks their primitives without ever
// materializing a whole file in memory. A Reader is single-threaded and not
// safe for concurrent use — hand off a decoded *model.PrimitiveBlock to a
// worker goroutine once NextPrimitiveBlockDecoded returns it, rather than
// sharing the Reader itself.
package pbf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.pbfreader.dev/pbf/internal/core"
	"go.pbfreader.dev/pbf/internal/decoder"
	"go.pbfreader.dev/pbf/internal/pb"
	"go.pbfreader.dev/pbf/model"
)

// Reader walks the blobs of a single OpenStreetMap PBF source in order.
type Reader struct {
	r      io.Reader
	closer io.Closer

	headerRead bool
	header     *model.Header
	headerErr  error
}

// Open wraps an arbitrary io.Reader. If r also implements io.Seeker, Rewind
// becomes available.
func Open(r io.Reader) (*Reader, error) {
	return &Reader{r: r}, nil
}

// OpenBytes wraps an in-memory PBF file. The returned Reader's source is
// always seekable.
func OpenBytes(b []byte) (*Reader, error) {
	return Open(bytes.NewReader(b))
}

// OpenFile opens the named PBF file. The Reader takes ownership of the file
// handle; closing the Reader closes it.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pbf: open %s: %w", path, err)
	}

	rd, err := Open(f)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	rd.closer = f

	return rd, nil
}

// Close releases any resources the Reader opened itself (OpenFile's file
// handle). It does not close a source the caller passed to Open directly.
func (rd *Reader) Close() error {
	if rd.closer != nil {
		return rd.closer.Close()
	}

	return nil
}

// Header reads and returns the file's header block, parsing it on first
// call and caching the result (and any error) for subsequent calls. It
// fails with an error satisfying errors.As(err, *model.ErrUnknownRequiredFeature)
// if the header lists a required feature this reader doesn't implement.
func (rd *Reader) Header() (*model.Header, error) {
	if rd.headerRead {
		return rd.header, rd.headerErr
	}

	rd.headerRead = true

	header, blob, buf, err := rd.readFrame()
	if err != nil {
		rd.headerErr = err

		return nil, err
	}

	defer buf.Close()

	if header.Type != "OSMHeader" {
		rd.headerErr = &UnexpectedBlobTypeError{Want: "OSMHeader", Got: header.Type}

		return nil, rd.headerErr
	}

	dataBuf := core.NewPooledBuffer()
	defer dataBuf.Close()

	raw, err := decoder.Unpack(dataBuf, blob, MaxUncompressedDataSize)
	if err != nil {
		rd.headerErr = err

		return nil, err
	}

	h, err := decoder.DecodeHeaderBlock(raw)
	if err != nil {
		rd.headerErr = err

		return nil, err
	}

	if bad := h.CheckRequiredFeatures(); bad != "" {
		rd.headerErr = &model.ErrUnknownRequiredFeature{Feature: bad}

		return nil, rd.headerErr
	}

	rd.header = h

	return h, nil
}

// NextBlob advances to and returns the next blob in the stream, whatever
// its declared type. It returns io.EOF once the stream is cleanly
// exhausted. The caller must call Decode or Close on the returned
// *LazyBlock to release its pooled buffer.
func (rd *Reader) NextBlob() (*LazyBlock, error) {
	header, blob, buf, err := rd.readFrame()
	if err != nil {
		return nil, err
	}

	return &LazyBlock{header: header, blob: blob, buf: buf}, nil
}

// NextPrimitiveBlock advances to the next blob and returns it as a
// *LazyBlock, failing with *UnexpectedBlobTypeError if it isn't "OSMData".
func (rd *Reader) NextPrimitiveBlock() (*LazyBlock, error) {
	lb, err := rd.NextBlob()
	if err != nil {
		return nil, err
	}

	if lb.Type() != "OSMData" {
		lb.Close()

		return nil, &UnexpectedBlobTypeError{Want: "OSMData", Got: lb.Type()}
	}

	return lb, nil
}

// NextPrimitiveBlockDecoded advances to the next blob and fully decodes it
// as a *model.PrimitiveBlock in one step.
func (rd *Reader) NextPrimitiveBlockDecoded() (*model.PrimitiveBlock, error) {
	lb, err := rd.NextPrimitiveBlock()
	if err != nil {
		return nil, err
	}

	return lb.Decode()
}

// Rewind seeks the source back to the start of the file and forgets any
// cached header, so the next Header/NextBlob call re-reads from the
// beginning. It fails with ErrNotSeekable if the source isn't an io.Seeker.
func (rd *Reader) Rewind() error {
	seeker, ok := rd.r.(io.Seeker)
	if !ok {
		return ErrNotSeekable
	}

	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("pbf: rewind: %w", err)
	}

	rd.headerRead = false
	rd.header = nil
	rd.headerErr = nil

	return nil
}

func (rd *Reader) readFrame() (*pb.BlobHeader, *pb.Blob, *core.PooledBuffer, error) {
	header, err := readBlobHeader(rd.r)
	if err != nil {
		return nil, nil, nil, err
	}

	blob, buf, err := readBlobData(rd.r, header)
	if err != nil {
		return nil, nil, nil, err
	}

	return header, blob, buf, nil
}
