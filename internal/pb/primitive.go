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
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// StringTable is osmformat.proto's StringTable message: a flat list of byte
// strings referenced by index from every tag, user name, and role in the
// block that owns it. Index 0 is conventionally empty/unused.
type StringTable struct {
	S [][]byte
}

func unmarshalStringTable(b []byte) (*StringTable, error) {
	st := &StringTable{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num == 1 {
			// v aliases the parent buffer; copy so later buffer reuse
			// (pooled blob buffers) can't corrupt a retained string.
			cp := make([]byte, len(v))
			copy(cp, v)
			st.S = append(st.S, cp)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal StringTable: %w", err)
	}

	return st, nil
}

// Info is osmformat.proto's Info message, the per-entity metadata record.
type Info struct {
	Version      int32
	HasVersion   bool
	Timestamp    int64
	HasTimestamp bool
	Changeset    int64
	HasChangeset bool
	UID          int32
	HasUID       bool
	UserSid      uint32
	HasUserSid   bool
	Visible      bool
	HasVisible   bool
}

func unmarshalInfo(b []byte) (*Info, error) {
	info := &Info{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			n, err := varint(v)
			if err != nil {
				return err
			}

			info.Version = int32(n)
			info.HasVersion = true
		case 2:
			n, err := varint(v)
			if err != nil {
				return err
			}

			info.Timestamp = int64(n)
			info.HasTimestamp = true
		case 3:
			n, err := varint(v)
			if err != nil {
				return err
			}

			info.Changeset = int64(n)
			info.HasChangeset = true
		case 4:
			n, err := varint(v)
			if err != nil {
				return err
			}

			info.UID = int32(n)
			info.HasUID = true
		case 5:
			n, err := varint(v)
			if err != nil {
				return err
			}

			info.UserSid = uint32(n)
			info.HasUserSid = true
		case 6:
			n, err := varint(v)
			if err != nil {
				return err
			}

			info.Visible = n != 0
			info.HasVisible = true
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal Info: %w", err)
	}

	return info, nil
}

// DenseInfo is osmformat.proto's DenseInfo message: parallel, delta-coded
// (except visible/version) metadata arrays for a DenseNodes group. Every
// slice, when present, has the same length as the owning DenseNodes' Id.
type DenseInfo struct {
	Version   []int32
	Timestamp []int64 // delta-coded
	Changeset []int64 // delta-coded
	UID       []int32 // delta-coded
	UserSid   []int32 // delta-coded
	Visible   []bool
}

func unmarshalDenseInfo(b []byte) (*DenseInfo, error) {
	di := &DenseInfo{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			vs, err := packedVarints(v)
			if err != nil {
				return err
			}

			di.Version = make([]int32, len(vs))
			for i, x := range vs {
				di.Version[i] = int32(x)
			}
		case 2:
			vs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			di.Timestamp = vs
		case 3:
			vs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			di.Changeset = vs
		case 4:
			vs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			di.UID = make([]int32, len(vs))
			for i, x := range vs {
				di.UID[i] = int32(x)
			}
		case 5:
			vs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			di.UserSid = make([]int32, len(vs))
			for i, x := range vs {
				di.UserSid[i] = int32(x)
			}
		case 6:
			vs, err := packedVarints(v)
			if err != nil {
				return err
			}

			di.Visible = make([]bool, len(vs))
			for i, x := range vs {
				di.Visible[i] = x != 0
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal DenseInfo: %w", err)
	}

	return di, nil
}

// Node is osmformat.proto's Node message: a single, non-dense node.
type Node struct {
	ID   int64
	Keys []uint32 // parallel with Vals, both index into the block's StringTable
	Vals []uint32
	Info *Info
	Lat  int64
	Lon  int64
}

func unmarshalNode(b []byte) (*Node, error) {
	n := &Node{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			x, err := zigzag(v)
			if err != nil {
				return err
			}

			n.ID = x
		case 2:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			n.Keys = toUint32s(xs)
		case 3:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			n.Vals = toUint32s(xs)
		case 4:
			info, err := unmarshalInfo(v)
			if err != nil {
				return err
			}

			n.Info = info
		case 8:
			x, err := zigzag(v)
			if err != nil {
				return err
			}

			n.Lat = x
		case 9:
			x, err := zigzag(v)
			if err != nil {
				return err
			}

			n.Lon = x
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal Node: %w", err)
	}

	return n, nil
}

// DenseNodes is osmformat.proto's DenseNodes message: parallel,
// delta-coded id/lat/lon arrays plus a flat, zero-terminated key/value
// index stream, one run per node in Id order.
type DenseNodes struct {
	ID        []int64 // delta-coded
	DenseInfo *DenseInfo
	Lat       []int64 // delta-coded
	Lon       []int64 // delta-coded
	KeysVals  []int32 // flat stream: (key,val)... 0 (key,val)... 0 ...
}

func unmarshalDenseNodes(b []byte) (*DenseNodes, error) {
	dn := &DenseNodes{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			xs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			dn.ID = xs
		case 5:
			di, err := unmarshalDenseInfo(v)
			if err != nil {
				return err
			}

			dn.DenseInfo = di
		case 8:
			xs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			dn.Lat = xs
		case 9:
			xs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			dn.Lon = xs
		case 10:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			dn.KeysVals = make([]int32, len(xs))
			for i, x := range xs {
				dn.KeysVals[i] = int32(x)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal DenseNodes: %w", err)
	}

	return dn, nil
}

// Way is osmformat.proto's Way message.
type Way struct {
	ID   int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Refs []int64 // delta-coded node ids
}

func unmarshalWay(b []byte) (*Way, error) {
	w := &Way{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			x, err := varint(v)
			if err != nil {
				return err
			}

			w.ID = int64(x)
		case 2:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			w.Keys = toUint32s(xs)
		case 3:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			w.Vals = toUint32s(xs)
		case 4:
			info, err := unmarshalInfo(v)
			if err != nil {
				return err
			}

			w.Info = info
		case 8:
			xs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			w.Refs = xs
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal Way: %w", err)
	}

	return w, nil
}

// MemberType mirrors osmformat.proto's Relation.MemberType enum. Unknown
// values must be tolerated (skipped by the caller), never treated as a
// parse error — future writers may add member kinds.
type MemberType int32

const (
	MemberNode     MemberType = 0
	MemberWay      MemberType = 1
	MemberRelation MemberType = 2
)

// Relation is osmformat.proto's Relation message.
type Relation struct {
	ID       int64
	Keys     []uint32
	Vals     []uint32
	Info     *Info
	RolesSid []int32
	Memids   []int64 // delta-coded
	Types    []int32 // raw enum ints; may contain values outside MemberType
}

func unmarshalRelation(b []byte) (*Relation, error) {
	r := &Relation{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			x, err := varint(v)
			if err != nil {
				return err
			}

			r.ID = int64(x)
		case 2:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			r.Keys = toUint32s(xs)
		case 3:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			r.Vals = toUint32s(xs)
		case 4:
			info, err := unmarshalInfo(v)
			if err != nil {
				return err
			}

			r.Info = info
		case 8:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			r.RolesSid = make([]int32, len(xs))
			for i, x := range xs {
				r.RolesSid[i] = int32(x)
			}
		case 9:
			xs, err := packedZigZags(v)
			if err != nil {
				return err
			}

			r.Memids = xs
		case 10:
			xs, err := packedVarints(v)
			if err != nil {
				return err
			}

			r.Types = make([]int32, len(xs))
			for i, x := range xs {
				r.Types[i] = int32(x)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal Relation: %w", err)
	}

	return r, nil
}

// ChangeSet is osmformat.proto's ChangeSet message. OSM producers have never
// shipped this primitive group in practice, but the wire format reserves it.
type ChangeSet struct {
	ID int64
}

func unmarshalChangeSet(b []byte) (*ChangeSet, error) {
	cs := &ChangeSet{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num == 1 {
			x, err := varint(v)
			if err != nil {
				return err
			}

			cs.ID = int64(x)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal ChangeSet: %w", err)
	}

	return cs, nil
}

// PrimitiveGroup is osmformat.proto's PrimitiveGroup message. A producer
// emits exactly one of these primitive kinds per group, but the wire format
// does not forbid mixing; callers walk whichever slices are non-empty.
type PrimitiveGroup struct {
	Nodes      []*Node
	Dense      *DenseNodes
	Ways       []*Way
	Relations  []*Relation
	ChangeSets []*ChangeSet
}

func unmarshalPrimitiveGroup(b []byte) (*PrimitiveGroup, error) {
	g := &PrimitiveGroup{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			n, err := unmarshalNode(v)
			if err != nil {
				return err
			}

			g.Nodes = append(g.Nodes, n)
		case 2:
			dn, err := unmarshalDenseNodes(v)
			if err != nil {
				return err
			}

			g.Dense = dn
		case 3:
			w, err := unmarshalWay(v)
			if err != nil {
				return err
			}

			g.Ways = append(g.Ways, w)
		case 4:
			r, err := unmarshalRelation(v)
			if err != nil {
				return err
			}

			g.Relations = append(g.Relations, r)
		case 5:
			cs, err := unmarshalChangeSet(v)
			if err != nil {
				return err
			}

			g.ChangeSets = append(g.ChangeSets, cs)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal PrimitiveGroup: %w", err)
	}

	return g, nil
}

// PrimitiveBlock is osmformat.proto's PrimitiveBlock message, the payload of
// every "OSMData" blob.
type PrimitiveBlock struct {
	Stringtable     *StringTable
	Primitivegroup  []*PrimitiveGroup
	Granularity     int32
	DateGranularity int32
	LatOffset       int64
	LonOffset       int64
}

// UnmarshalPrimitiveBlock decodes a PrimitiveBlock from its protobuf wire
// bytes, applying osmformat.proto's documented defaults (granularity=100,
// date_granularity=1000, offsets=0) for any field the wire omits.
func UnmarshalPrimitiveBlock(b []byte) (*PrimitiveBlock, error) {
	pb := &PrimitiveBlock{
		Granularity:     100,
		DateGranularity: 1000,
	}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			st, err := unmarshalStringTable(v)
			if err != nil {
				return err
			}

			pb.Stringtable = st
		case 2:
			g, err := unmarshalPrimitiveGroup(v)
			if err != nil {
				return err
			}

			pb.Primitivegroup = append(pb.Primitivegroup, g)
		case 17:
			n, err := varint(v)
			if err != nil {
				return err
			}

			pb.Granularity = int32(n)
		case 18:
			n, err := varint(v)
			if err != nil {
				return err
			}

			pb.DateGranularity = int32(n)
		case 19:
			n, err := varint(v)
			if err != nil {
				return err
			}

			pb.LatOffset = int64(n)
		case 20:
			n, err := varint(v)
			if err != nil {
				return err
			}

			pb.LonOffset = int64(n)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal PrimitiveBlock: %w", err)
	}

	if pb.Stringtable == nil {
		pb.Stringtable = &StringTable{}
	}

	return pb, nil
}

func toUint32s(xs []uint64) []uint32 {
	out := make([]uint32, len(xs))
	for i, x := range xs {
		out[i] = uint32(x)
	}

	return out
}
