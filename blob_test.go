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
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBlobHeader_TooLarge(t *testing.T) {
	var sizePrefix [4]byte
	binary.BigEndian.PutUint32(sizePrefix[:], uint32(MaxBlobHeaderSize+1))

	_, err := readBlobHeader(bytes.NewReader(sizePrefix[:]))

	var tooLarge *BlobHeaderTooLargeError

	require.ErrorAs(t, err, &tooLarge)
}

func TestReadBlobData_TooLarge(t *testing.T) {
	var header []byte
	header = tagBytes(header, 1, []byte("OSMData"))
	header = tagVarint(header, 3, uint64(MaxUncompressedDataSize+1))

	var sizePrefix [4]byte
	binary.BigEndian.PutUint32(sizePrefix[:], uint32(len(header)))

	var buf bytes.Buffer
	buf.Write(sizePrefix[:])
	buf.Write(header)

	rd, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	_, err = rd.NextBlob()

	var tooLarge *BlobDataTooLargeError

	require.ErrorAs(t, err, &tooLarge)
}

func TestLazyBlock_DecodeAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	appendFrame(&buf, "OSMData", minimalPrimitiveBlockBytes())

	rd, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	lb, err := rd.NextPrimitiveBlock()
	require.NoError(t, err)

	lb.Close()

	_, err = lb.Decode()
	assert.Error(t, err)
}

func TestLazyBlock_DecodeCachesResult(t *testing.T) {
	var buf bytes.Buffer
	appendFrame(&buf, "OSMData", minimalPrimitiveBlockBytes())

	rd, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	lb, err := rd.NextPrimitiveBlock()
	require.NoError(t, err)

	blk1, err := lb.Decode()
	require.NoError(t, err)

	blk2, err := lb.Decode()
	require.NoError(t, err)

	assert.Same(t, blk1, blk2)
}

func TestLazyBlock_DecodeWrongType(t *testing.T) {
	var buf bytes.Buffer
	appendFrame(&buf, "OSMHeader", minimalHeaderBlockBytes())

	rd, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	lb, err := rd.NextBlob()
	require.NoError(t, err)

	_, err = lb.Decode()

	var typeErr *UnexpectedBlobTypeError

	require.ErrorAs(t, err, &typeErr)
}

func TestUnpack_UnsupportedEncodingSurfacesThroughDecode(t *testing.T) {
	var blob []byte
	blob = tagVarint(blob, 2, 4)
	blob = tagBytes(blob, 5, []byte("xxxx")) // bzip2_data, reserved/unsupported

	var header []byte
	header = tagBytes(header, 1, []byte("OSMData"))
	header = tagVarint(header, 3, uint64(len(blob)))

	var sizePrefix [4]byte
	binary.BigEndian.PutUint32(sizePrefix[:], uint32(len(header)))

	var buf bytes.Buffer
	buf.Write(sizePrefix[:])
	buf.Write(header)
	buf.Write(blob)

	rd, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	lb, err := rd.NextPrimitiveBlock()
	require.NoError(t, err)

	_, err = lb.Decode()
	assert.True(t, errors.Is(err, ErrUnsupportedEncoding))
}
