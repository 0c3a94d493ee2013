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

// HeaderBBox is osmformat.proto's HeaderBBox message. Its coordinates are
// always at 1e-9 granularity regardless of the data block's granularity.
type HeaderBBox struct {
	Left, Right, Top, Bottom int64
}

func unmarshalHeaderBBox(b []byte) (*HeaderBBox, error) {
	bbox := &HeaderBBox{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		n, err := zigzag(v)
		if err != nil {
			return err
		}

		switch num {
		case 1:
			bbox.Left = n
		case 2:
			bbox.Right = n
		case 3:
			bbox.Top = n
		case 4:
			bbox.Bottom = n
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal HeaderBBox: %w", err)
	}

	return bbox, nil
}

// HeaderBlock is osmformat.proto's HeaderBlock message.
type HeaderBlock struct {
	Bbox                             *HeaderBBox
	RequiredFeatures                 []string
	OptionalFeatures                 []string
	Writingprogram                   string
	Source                           string
	OsmosisReplicationTimestamp      int64
	HasOsmosisReplicationTimestamp   bool
	OsmosisReplicationSequenceNumber int64
	OsmosisReplicationBaseUrl        string
}

// UnmarshalHeaderBlock decodes a HeaderBlock from its protobuf wire bytes.
func UnmarshalHeaderBlock(b []byte) (*HeaderBlock, error) {
	hb := &HeaderBlock{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			bbox, err := unmarshalHeaderBBox(v)
			if err != nil {
				return err
			}

			hb.Bbox = bbox
		case 4:
			hb.RequiredFeatures = append(hb.RequiredFeatures, string(v))
		case 5:
			hb.OptionalFeatures = append(hb.OptionalFeatures, string(v))
		case 16:
			hb.Writingprogram = string(v)
		case 17:
			hb.Source = string(v)
		case 32:
			n, err := varint(v)
			if err != nil {
				return err
			}

			hb.OsmosisReplicationTimestamp = int64(n)
			hb.HasOsmosisReplicationTimestamp = true
		case 33:
			n, err := varint(v)
			if err != nil {
				return err
			}

			hb.OsmosisReplicationSequenceNumber = int64(n)
		case 34:
			hb.OsmosisReplicationBaseUrl = string(v)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal HeaderBlock: %w", err)
	}

	return hb, nil
}
