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
	"google.golang.org/protobuf/encoding/protowire"
)

func appendTagVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendTagZigZag(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

func appendTagBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func TestForEachField_UnknownFieldPassedThrough(t *testing.T) {
	var b []byte
	b = appendTagVarint(b, 99, 12345)
	b = appendTagVarint(b, 1, 7)

	var seen []protowire.Number

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		seen = append(seen, num)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []protowire.Number{99, 1}, seen)
}

func TestForEachField_Truncated(t *testing.T) {
	b := []byte{0x08} // tag for field 1, varint type, with no value bytes
	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		return nil
	})
	assert.Error(t, err)
}

func TestZigZagRoundTrip(t *testing.T) {
	for _, want := range []int64{0, 1, -1, 1000000000, -1000000000} {
		var b []byte
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(want))

		got, err := zigzag(b)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPackedVarintsAndZigZags(t *testing.T) {
	var packed []byte
	packed = protowire.AppendVarint(packed, 1)
	packed = protowire.AppendVarint(packed, 2)
	packed = protowire.AppendVarint(packed, 3)

	vs, err := packedVarints(packed)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, vs)

	var zpacked []byte
	zpacked = protowire.AppendVarint(zpacked, protowire.EncodeZigZag(-5))
	zpacked = protowire.AppendVarint(zpacked, protowire.EncodeZigZag(5))

	zs, err := packedZigZags(zpacked)
	require.NoError(t, err)
	assert.Equal(t, []int64{-5, 5}, zs)
}
