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
	"fmt"
	"time"

	"go.pbfreader.dev/pbf/internal/pb"
	"go.pbfreader.dev/pbf/model"
)

// DecodeHeaderBlock parses an "OSMHeader" blob's decompressed payload into a
// model.Header.
func DecodeHeaderBlock(raw []byte) (*model.Header, error) {
	hb, err := pb.UnmarshalHeaderBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtobufParse, err)
	}

	h := &model.Header{
		RequiredFeatures:                 hb.RequiredFeatures,
		OptionalFeatures:                 hb.OptionalFeatures,
		WritingProgram:                   hb.Writingprogram,
		Source:                           hb.Source,
		OsmosisReplicationSequenceNumber: hb.OsmosisReplicationSequenceNumber,
		OsmosisReplicationBaseURL:        hb.OsmosisReplicationBaseUrl,
	}

	if hb.HasOsmosisReplicationTimestamp {
		h.OsmosisReplicationTimestamp = time.Unix(hb.OsmosisReplicationTimestamp, 0).UTC()
	}

	if hb.Bbox != nil {
		const headerBBoxGranularity = 1 // HeaderBBox coordinates are always nanodegrees.

		h.BoundingBox = &model.BoundingBox{
			Left:   model.ToDegrees(0, headerBBoxGranularity, hb.Bbox.Left),
			Right:  model.ToDegrees(0, headerBBoxGranularity, hb.Bbox.Right),
			Top:    model.ToDegrees(0, headerBBoxGranularity, hb.Bbox.Top),
			Bottom: model.ToDegrees(0, headerBBoxGranularity, hb.Bbox.Bottom),
		}
	}

	return h, nil
}
