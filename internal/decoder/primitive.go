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

	"go.pbfreader.dev/pbf/internal/pb"
	"go.pbfreader.dev/pbf/model"
)

// DecodePrimitiveBlock parses an "OSMData" blob's decompressed payload into
// a model.PrimitiveBlock. The result still holds raw, delta-coded group
// arrays — model.PrimitiveBlock.Primitives() is what materializes entities
// from it.
func DecodePrimitiveBlock(raw []byte) (*model.PrimitiveBlock, error) {
	wire, err := pb.UnmarshalPrimitiveBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtobufParse, err)
	}

	return model.NewPrimitiveBlockFromWire(wire), nil
}
