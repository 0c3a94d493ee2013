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

package model

import "iter"

type tagsLayout int

const (
	tagsNormal tagsLayout = iota
	tagsDense
)

// Tags is a lazy cursor over one entity's key/value pairs, backed by the
// owning PrimitiveBlock's StringTable rather than a materialized map. Nodes
// and ways carry parallel Keys/Vals index slices; DenseNodes carries a flat,
// zero-terminated run per node instead, so Tags normalizes both into the
// same cursor shape.
type Tags struct {
	strings StringTable
	layout  tagsLayout

	keys, vals []uint32 // tagsNormal
	kv         []int32  // tagsDense: this entity's run, terminator already excluded

	pos int
}

// NewTags builds a Tags cursor over a Node or Way's parallel key/value index
// slices.
func NewTags(strings StringTable, keys, vals []uint32) Tags {
	return Tags{strings: strings, layout: tagsNormal, keys: keys, vals: vals}
}

// NewDenseTags builds a Tags cursor over one DenseNodes entry's slice of the
// shared keys_vals stream, with the 0 terminator already stripped.
func NewDenseTags(strings StringTable, kv []int32) Tags {
	return Tags{strings: strings, layout: tagsDense, kv: kv}
}

func (t *Tags) nextIndices() (key, val uint32, ok bool) {
	switch t.layout {
	case tagsNormal:
		if t.pos >= len(t.keys) || t.pos >= len(t.vals) {
			return 0, 0, false
		}

		key, val = t.keys[t.pos], t.vals[t.pos]
		t.pos++

		return key, val, true
	case tagsDense:
		if t.pos+1 >= len(t.kv) {
			return 0, 0, false
		}

		key, val = uint32(t.kv[t.pos]), uint32(t.kv[t.pos+1])
		t.pos += 2

		return key, val, true
	default:
		return 0, 0, false
	}
}

// Next advances the cursor to the next well-formed pair, silently skipping
// any index that is out of range or whose bytes are not valid UTF-8. It
// reports ok=false once the cursor is exhausted.
func (t *Tags) Next() (key, value string, ok bool) {
	for {
		ki, vi, has := t.nextIndices()
		if !has {
			return "", "", false
		}

		ks, kok := t.strings.GetString(int(ki))
		if !kok {
			continue
		}

		vs, vok := t.strings.GetString(int(vi))
		if !vok {
			continue
		}

		return ks, vs, true
	}
}

// All ranges over every well-formed (key, value) pair from the start of the
// cursor. It does not share position with Next/Get calls made on t.
func (t Tags) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		cur := t
		cur.pos = 0

		for {
			k, v, ok := cur.Next()
			if !ok {
				return
			}

			if !yield(k, v) {
				return
			}
		}
	}
}

// Get performs a linear scan for key, stopping at the first match. It
// operates on a copy of the cursor, so it does not disturb t's position.
func (t Tags) Get(key string) (string, bool) {
	cur := t
	cur.pos = 0

	for {
		k, v, ok := cur.Next()
		if !ok {
			return "", false
		}

		if k == key {
			return v, true
		}
	}
}

// Map materializes every well-formed pair into a map, the representation an
// eagerly decoded entity's Tags field uses. It returns nil rather than an
// empty map when there are no tags, matching how absent tag lists read back
// from the wire.
func (t Tags) Map() map[string]string {
	var m map[string]string

	for k, v := range t.All() {
		if m == nil {
			m = make(map[string]string)
		}

		m[k] = v
	}

	return m
}
