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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"go.pbfreader.dev/pbf/model"
)

func TestDecodePrimitiveBlock(t *testing.T) {
	var st []byte
	st = tagBytes(st, 1, []byte(""))
	st = tagBytes(st, 1, []byte("highway"))
	st = tagBytes(st, 1, []byte("primary"))

	var node []byte
	node = tag(node, 1, protowire.EncodeZigZag(42))
	node = tagBytes(node, 2, mustPackedVarint(1))
	node = tagBytes(node, 3, mustPackedVarint(2))
	node = tag(node, 8, protowire.EncodeZigZag(100))
	node = tag(node, 9, protowire.EncodeZigZag(200))

	var group []byte
	group = tagBytes(group, 1, node)

	var b []byte
	b = tagBytes(b, 1, st)
	b = tagBytes(b, 2, group)

	blk, err := DecodePrimitiveBlock(b)
	require.NoError(t, err)
	require.Len(t, blk.Groups, 1)

	it := blk.Primitives()

	p, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, model.ID(42), p.Node.ID)
	assert.Equal(t, map[string]string{"highway": "primary"}, p.Node.Tags)
}

func mustPackedVarint(v uint64) []byte {
	return protowire.AppendVarint(nil, v)
}
