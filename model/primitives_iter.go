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

import (
	"iter"
	"time"

	"go.pbfreader.dev/pbf/internal/pb"
)

// Primitive is a single tagged-variant entity yielded by a PrimitivesIter.
// Exactly one of the pointer fields is non-nil, matching Type.
type Primitive struct {
	Type      PrimitiveType
	Node      *Node
	Way       *Way
	Relation  *Relation
	ChangeSet *ChangeSet
}

// denseState is the explicit, resumable decumulation state for walking a
// single group's DenseNodes array: the running id/lat/lon deltas, the
// cursor position within the flat keys_vals stream, and the running metadata
// deltas from DenseInfo. It is reset whenever iteration moves to a new
// group, since delta coding restarts at zero per group.
type denseState struct {
	idx       int
	id        int64
	lat       int64
	lon       int64
	kvPos     int
	timestamp int64
	changeset int64
	uid       int32
	userSid   int32
}

// PrimitivesIter walks the primitives of one or more PrimitiveGroups in
// order: within a group, nodes, then dense nodes, then ways, then relations,
// then changesets. Its position is explicit state (groupIdx plus one cursor
// per primitive category) rather than a suspended goroutine or recursive
// generator, so a caller can hold one across many Next calls without
// worrying about concurrent access to the block.
type PrimitivesIter struct {
	block  *PrimitiveBlock
	groups []*PrimitiveGroup
	filter PrimitiveType

	groupIdx int
	nodeIdx  int
	wayIdx   int
	relIdx   int
	csIdx    int
	dense    denseState
}

func newPrimitivesIter(block *PrimitiveBlock, groups []*PrimitiveGroup) *PrimitivesIter {
	return &PrimitivesIter{block: block, groups: groups, filter: PrimitiveDefault}
}

// FilterTypes restricts the iterator to only the primitive kinds set in
// mask. It returns the iterator itself so calls can be chained onto the
// constructor, and it is only meaningful before the first Next call for a
// given group — narrowing the filter mid-group does not retroactively
// re-walk primitive kinds already passed over.
func (it *PrimitivesIter) FilterTypes(mask PrimitiveType) *PrimitivesIter {
	it.filter = mask
	return it
}

// Next returns the next primitive in the iteration order, or ok=false once
// every group has been exhausted. Once exhausted, an iterator stays
// exhausted — further Next calls keep returning ok=false.
func (it *PrimitivesIter) Next() (Primitive, bool) {
	for it.groupIdx < len(it.groups) {
		g := it.groups[it.groupIdx]

		if it.filter&PrimitiveNode != 0 {
			if it.nodeIdx < len(g.raw.Nodes) {
				n := g.node(it.nodeIdx)
				it.nodeIdx++

				return Primitive{Type: PrimitiveNode, Node: &n}, true
			}

			if p, ok := it.nextDense(g); ok {
				return p, true
			}
		}

		if it.filter&PrimitiveWay != 0 && it.wayIdx < len(g.raw.Ways) {
			w := g.way(it.wayIdx)
			it.wayIdx++

			return Primitive{Type: PrimitiveWay, Way: &w}, true
		}

		if it.filter&PrimitiveRelation != 0 && it.relIdx < len(g.raw.Relations) {
			r := g.relation(it.relIdx)
			it.relIdx++

			return Primitive{Type: PrimitiveRelation, Relation: &r}, true
		}

		if it.filter&PrimitiveChangeSet != 0 && it.csIdx < len(g.raw.ChangeSets) {
			cs := g.changeSet(it.csIdx)
			it.csIdx++

			return Primitive{Type: PrimitiveChangeSet, ChangeSet: &cs}, true
		}

		it.groupIdx++
		it.nodeIdx, it.wayIdx, it.relIdx, it.csIdx = 0, 0, 0, 0
		it.dense = denseState{}
	}

	return Primitive{}, false
}

func (it *PrimitivesIter) nextDense(g *PrimitiveGroup) (Primitive, bool) {
	dn := g.raw.Dense
	if dn == nil || it.dense.idx >= len(dn.ID) {
		return Primitive{}, false
	}

	i := it.dense.idx
	it.dense.id += dn.ID[i]

	if i < len(dn.Lat) {
		it.dense.lat += dn.Lat[i]
	}

	if i < len(dn.Lon) {
		it.dense.lon += dn.Lon[i]
	}

	start := it.dense.kvPos

	end := start
	for end < len(dn.KeysVals) && dn.KeysVals[end] != 0 {
		end += 2
	}

	var tags map[string]string
	if end > start {
		tags = NewDenseTags(g.block.Strings, dn.KeysVals[start:end]).Map()
	}

	if end < len(dn.KeysVals) {
		it.dense.kvPos = end + 1 // consume the 0 terminator
	} else {
		it.dense.kvPos = end
	}

	var info *Info
	if dn.DenseInfo != nil {
		info = it.denseInfoAt(g.block, dn.DenseInfo, i)
	}

	n := Node{
		ID:   ID(it.dense.id),
		Tags: tags,
		Info: info,
		Lat:  g.block.rescaleLat(it.dense.lat),
		Lon:  g.block.rescaleLon(it.dense.lon),
	}

	it.dense.idx++

	return Primitive{Type: PrimitiveNode, Node: &n}, true
}

func (it *PrimitivesIter) denseInfoAt(block *PrimitiveBlock, di *pb.DenseInfo, i int) *Info {
	info := &Info{Visible: true}

	if i < len(di.Version) {
		info.Version = di.Version[i]
	} else {
		info.Version = -1
	}

	if i < len(di.Timestamp) {
		it.dense.timestamp += di.Timestamp[i]
		info.Timestamp = time.UnixMilli(block.toTimestamp(it.dense.timestamp)).UTC()
	}

	if i < len(di.Changeset) {
		it.dense.changeset += di.Changeset[i]
		info.Changeset = it.dense.changeset
	}

	if i < len(di.UID) {
		it.dense.uid += di.UID[i]
		info.UID = UID(it.dense.uid)
	}

	if i < len(di.UserSid) {
		it.dense.userSid += di.UserSid[i]
		info.User, _ = block.Strings.GetString(int(it.dense.userSid))
	}

	if i < len(di.Visible) {
		info.Visible = di.Visible[i]
	}

	return info
}

// All ranges over every primitive the iterator would otherwise yield via
// Next, for range-over-func use.
func (it *PrimitivesIter) All() iter.Seq[Primitive] {
	return func(yield func(Primitive) bool) {
		for {
			p, ok := it.Next()
			if !ok {
				return
			}

			if !yield(p) {
				return
			}
		}
	}
}
