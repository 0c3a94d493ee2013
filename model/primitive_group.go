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
	"time"

	"go.pbfreader.dev/pbf/internal/pb"
)

// PrimitiveGroup is one group of a PrimitiveBlock: a producer emits exactly
// one primitive kind per group in practice, but the wire format does not
// forbid mixing, so a reader walks whichever of a group's slices are
// populated.
type PrimitiveGroup struct {
	block *PrimitiveBlock
	raw   *pb.PrimitiveGroup
}

// Primitives returns an iterator scoped to just this group, in nodes, dense,
// ways, relations, changesets order.
func (g *PrimitiveGroup) Primitives() *PrimitivesIter {
	return newPrimitivesIter(g.block, []*PrimitiveGroup{g})
}

func (g *PrimitiveGroup) node(idx int) Node {
	n := g.raw.Nodes[idx]

	return Node{
		ID:   ID(n.ID),
		Tags: NewTags(g.block.Strings, n.Keys, n.Vals).Map(),
		Info: g.block.convertInfo(n.Info),
		Lat:  g.block.rescaleLat(n.Lat),
		Lon:  g.block.rescaleLon(n.Lon),
	}
}

func (g *PrimitiveGroup) way(idx int) Way {
	w := g.raw.Ways[idx]

	nodeIDs := make([]ID, len(w.Refs))

	var ref int64
	for i, delta := range w.Refs {
		ref += delta
		nodeIDs[i] = ID(ref)
	}

	return Way{
		ID:      ID(w.ID),
		Tags:    NewTags(g.block.Strings, w.Keys, w.Vals).Map(),
		Info:    g.block.convertInfo(w.Info),
		NodeIDs: nodeIDs,
	}
}

func (g *PrimitiveGroup) relation(idx int) Relation {
	r := g.raw.Relations[idx]

	members := make([]Member, 0, len(r.Memids))

	var memID int64

	for i, delta := range r.Memids {
		memID += delta

		var role string
		if i < len(r.RolesSid) {
			role, _ = g.block.Strings.GetString(int(r.RolesSid[i]))
		}

		typ := NODE
		if i < len(r.Types) {
			switch pb.MemberType(r.Types[i]) {
			case pb.MemberNode:
				typ = NODE
			case pb.MemberWay:
				typ = WAY
			case pb.MemberRelation:
				typ = RELATION
			default:
				// Unrecognized member type: a future writer's extension.
				// Skip the member rather than fail the whole relation.
				continue
			}
		}

		members = append(members, Member{ID: ID(memID), Type: typ, Role: role})
	}

	return Relation{
		ID:      ID(r.ID),
		Tags:    NewTags(g.block.Strings, r.Keys, r.Vals).Map(),
		Info:    g.block.convertInfo(r.Info),
		Members: members,
	}
}

func (g *PrimitiveGroup) changeSet(idx int) ChangeSet {
	return ChangeSet{ID: ID(g.raw.ChangeSets[idx].ID)}
}

func (b *PrimitiveBlock) convertInfo(info *pb.Info) *Info {
	if info == nil {
		return nil
	}

	out := &Info{
		Changeset: info.Changeset,
		Visible:   true, // absent visible means "visible" per osmformat.proto
	}

	if info.HasVersion {
		out.Version = info.Version
	} else {
		out.Version = -1
	}

	if info.HasUID {
		out.UID = UID(info.UID)
	}

	if info.HasTimestamp {
		out.Timestamp = time.UnixMilli(b.toTimestamp(info.Timestamp)).UTC()
	}

	if info.HasUserSid {
		out.User, _ = b.Strings.GetString(int(info.UserSid))
	}

	if info.HasVisible {
		out.Visible = info.Visible
	}

	return out
}
