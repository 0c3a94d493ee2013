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
	"go.pbfreader.dev/pbf/internal/pb"
)

// PrimitiveBlock is a decoded "OSMData" blob: a string table shared by every
// primitive in the block, the coordinate rescaling parameters, and the
// primitive groups themselves. Unlike the eagerly materialized Node/Way/
// Relation values Primitives() yields, a PrimitiveBlock's groups are the raw,
// still delta-coded wire arrays — walking them is what Primitives() and
// PrimitiveGroup.Primitives() do.
type PrimitiveBlock struct {
	Strings         StringTable
	Granularity     int32
	LatOffset       int64
	LonOffset       int64
	DateGranularity int32
	Groups          []*PrimitiveGroup
}

// NewPrimitiveBlockFromWire adapts a hand-decoded wire PrimitiveBlock into
// the shape the rest of this package iterates over.
func NewPrimitiveBlockFromWire(w *pb.PrimitiveBlock) *PrimitiveBlock {
	blk := &PrimitiveBlock{
		Strings:         NewStringTable(w.Stringtable.S),
		Granularity:     w.Granularity,
		LatOffset:       w.LatOffset,
		LonOffset:       w.LonOffset,
		DateGranularity: w.DateGranularity,
	}

	blk.Groups = make([]*PrimitiveGroup, len(w.Primitivegroup))
	for i, g := range w.Primitivegroup {
		blk.Groups[i] = &PrimitiveGroup{block: blk, raw: g}
	}

	return blk
}

// Primitives returns an iterator over every primitive in the block, walking
// groups in wire order and, within a group, nodes then dense nodes then ways
// then relations then changesets.
func (b *PrimitiveBlock) Primitives() *PrimitivesIter {
	return newPrimitivesIter(b, b.Groups)
}

// rescale converts a raw, granularity-scaled coordinate into Degrees using
// this block's offset and granularity.
func (b *PrimitiveBlock) rescaleLat(coordinate int64) Degrees {
	return ToDegrees(b.LatOffset, b.Granularity, coordinate)
}

func (b *PrimitiveBlock) rescaleLon(coordinate int64) Degrees {
	return ToDegrees(b.LonOffset, b.Granularity, coordinate)
}

func (b *PrimitiveBlock) toTimestamp(raw int64) int64 {
	granularity := b.DateGranularity
	if granularity == 0 {
		granularity = 1000
	}

	return raw * int64(granularity)
}
