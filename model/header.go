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
	"fmt"
	"time"
)

// Feature strings a producer may list as "required" in a header block.
// A reader that does not recognize a required feature must refuse the
// file outright, per osmformat.proto's documented contract; optional
// features may be silently ignored by a reader that doesn't understand
// them.
const (
	FeatureOsmSchemaV06    = "OsmSchema-V0.6"
	FeatureDenseNodes      = "DenseNodes"
	FeatureHistoricalInfo  = "HistoricalInformation"
	FeatureHasMetadata     = "Has_Metadata"
	FeatureSortTypeThenID  = "Sort.Type_then_ID"
	FeatureSortGeographic  = "Sort.Geographic"
	FeatureLocationsOnWays = "LocationsOnWays"
)

// supportedFeatures lists every required-feature string this reader knows
// how to honor.
var supportedFeatures = map[string]bool{
	FeatureOsmSchemaV06:   true,
	FeatureDenseNodes:     true,
	FeatureHistoricalInfo: true,
}

// Header is the contents of an OpenStreetMap PBF file's header block.
type Header struct {
	BoundingBox                      *BoundingBox `json:"bounding_box,omitempty"`
	RequiredFeatures                 []string     `json:"required_features"`
	OptionalFeatures                 []string     `json:"optional_features"`
	WritingProgram                   string       `json:"writing_program"`
	Source                           string       `json:"source,omitempty"`
	OsmosisReplicationTimestamp      time.Time    `json:"osmosis_replication_timestamp"`
	OsmosisReplicationSequenceNumber int64        `json:"osmosis_replication_sequence_number"`
	OsmosisReplicationBaseURL        string       `json:"osmosis_replication_base_url"`
}

// CheckRequiredFeatures reports the first required feature this reader does
// not understand, or "" if every required feature listed in the header is
// supported. A non-empty return means the caller must refuse to read the
// file's data blocks.
func (h Header) CheckRequiredFeatures() string {
	for _, f := range h.RequiredFeatures {
		if !supportedFeatures[f] {
			return f
		}
	}

	return ""
}

// ErrUnknownRequiredFeature reports that a header block required a feature
// this reader does not implement.
type ErrUnknownRequiredFeature struct {
	Feature string
}

func (e *ErrUnknownRequiredFeature) Error() string {
	return fmt.Sprintf("pbf: unknown required feature %q", e.Feature)
}
