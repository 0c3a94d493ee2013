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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pbfreader.dev/pbf/internal/core"
	"go.pbfreader.dev/pbf/internal/pb"
)

func TestUnpack_Raw(t *testing.T) {
	buf := core.NewPooledBuffer()
	defer buf.Close()

	got, err := Unpack(buf, &pb.Blob{Variant: pb.BlobRaw, Raw: []byte("hello")}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestUnpack_Zlib(t *testing.T) {
	var compressed bytes.Buffer

	w := zlib.NewWriter(&compressed)
	_, err := w.Write([]byte("the quick brown fox"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	buf := core.NewPooledBuffer()
	defer buf.Close()

	got, err := Unpack(buf, &pb.Blob{
		Variant:    pb.BlobZlib,
		ZlibData:   compressed.Bytes(),
		RawSize:    int32(len("the quick brown fox")),
		HasRawSize: true,
	}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, []byte("the quick brown fox"), got)
}

func TestUnpack_Bzip2Unsupported(t *testing.T) {
	buf := core.NewPooledBuffer()
	defer buf.Close()

	_, err := Unpack(buf, &pb.Blob{Variant: pb.BlobBzip2, Bzip2: []byte{1, 2, 3}}, 1<<20)
	assert.True(t, errors.Is(err, ErrUnsupportedEncoding))
}

func TestUnpack_RawSizeMismatch(t *testing.T) {
	var compressed bytes.Buffer

	w := zlib.NewWriter(&compressed)
	_, err := w.Write([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	buf := core.NewPooledBuffer()
	defer buf.Close()

	// A mismatched raw_size is logged, not fatal: producers vary in how
	// faithfully they report it.
	got, err := Unpack(buf, &pb.Blob{
		Variant:    pb.BlobZlib,
		ZlibData:   compressed.Bytes(),
		RawSize:    9999,
		HasRawSize: true,
	}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), got)
}

func TestUnpack_RawSizeAbsentSkipsCheck(t *testing.T) {
	var compressed bytes.Buffer

	w := zlib.NewWriter(&compressed)
	_, err := w.Write([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	buf := core.NewPooledBuffer()
	defer buf.Close()

	got, err := Unpack(buf, &pb.Blob{
		Variant:  pb.BlobZlib,
		ZlibData: compressed.Bytes(),
	}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), got)
}

func TestUnpack_ExceedsMaxSize(t *testing.T) {
	payload := bytes.Repeat([]byte{'a'}, 100)

	var compressed bytes.Buffer

	w := zlib.NewWriter(&compressed)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	buf := core.NewPooledBuffer()
	defer buf.Close()

	_, err = Unpack(buf, &pb.Blob{
		Variant:    pb.BlobZlib,
		ZlibData:   compressed.Bytes(),
		RawSize:    int32(len(payload)),
		HasRawSize: true,
	}, 10)
	assert.Error(t, err)
}
