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

package pb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalBlobHeader(t *testing.T) {
	var b []byte
	b = appendTagBytes(b, 1, []byte("OSMData"))
	b = appendTagVarint(b, 3, 4096)

	h, err := UnmarshalBlobHeader(b)
	require.NoError(t, err)
	assert.Equal(t, "OSMData", h.Type)
	assert.Equal(t, int32(4096), h.Datasize)
}

func TestUnmarshalBlob_Variants(t *testing.T) {
	t.Run("raw", func(t *testing.T) {
		var b []byte
		b = appendTagBytes(b, 1, []byte("hello"))
		b = appendTagVarint(b, 2, 5)

		blob, err := UnmarshalBlob(b)
		require.NoError(t, err)
		assert.Equal(t, BlobRaw, blob.Variant)
		assert.Equal(t, []byte("hello"), blob.Raw)
		assert.Equal(t, int32(5), blob.RawSize)
	})

	t.Run("zlib", func(t *testing.T) {
		var b []byte
		b = appendTagBytes(b, 3, []byte{0x1, 0x2, 0x3})
		b = appendTagVarint(b, 2, 100)

		blob, err := UnmarshalBlob(b)
		require.NoError(t, err)
		assert.Equal(t, BlobZlib, blob.Variant)
		assert.Equal(t, []byte{0x1, 0x2, 0x3}, blob.ZlibData)
	})

	t.Run("zstd", func(t *testing.T) {
		var b []byte
		b = appendTagBytes(b, 7, []byte{0xAA})

		blob, err := UnmarshalBlob(b)
		require.NoError(t, err)
		assert.Equal(t, BlobZstd, blob.Variant)
		assert.Equal(t, []byte{0xAA}, blob.ZstdData)
	})
}
