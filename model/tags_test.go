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

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pbfreader.dev/pbf/model"
)

func strTable() model.StringTable {
	return model.NewStringTable([][]byte{
		[]byte(""),
		[]byte("highway"),
		[]byte("primary"),
		{0xff, 0xfe}, // invalid UTF-8
		[]byte("name"),
	})
}

func TestTags_Normal(t *testing.T) {
	tags := model.NewTags(strTable(), []uint32{1, 4}, []uint32{2, 2})

	got := tags.Map()
	assert.Equal(t, map[string]string{"highway": "primary", "name": "primary"}, got)
}

func TestTags_Get(t *testing.T) {
	tags := model.NewTags(strTable(), []uint32{1, 4}, []uint32{2, 2})

	v, ok := tags.Get("highway")
	assert.True(t, ok)
	assert.Equal(t, "primary", v)

	_, ok = tags.Get("missing")
	assert.False(t, ok)
}

func TestTags_SkipsInvalidUTF8AndOutOfRange(t *testing.T) {
	// key index 3 is invalid UTF-8; key index 99 is out of range.
	tags := model.NewTags(strTable(), []uint32{3, 99, 1}, []uint32{2, 2, 2})

	got := tags.Map()
	assert.Equal(t, map[string]string{"highway": "primary"}, got)
}

func TestTags_Dense(t *testing.T) {
	tags := model.NewDenseTags(strTable(), []int32{1, 2, 4, 2})

	got := tags.Map()
	assert.Equal(t, map[string]string{"highway": "primary", "name": "primary"}, got)
}

func TestTags_EmptyYieldsNilMap(t *testing.T) {
	tags := model.NewTags(strTable(), nil, nil)
	assert.Nil(t, tags.Map())
}

func TestTags_All(t *testing.T) {
	tags := model.NewTags(strTable(), []uint32{1, 4}, []uint32{2, 2})

	var keys []string

	for k := range tags.All() {
		keys = append(keys, k)
	}

	assert.ElementsMatch(t, []string{"highway", "name"}, keys)
}
