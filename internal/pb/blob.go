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

// BlobHeader is fileformat.proto's BlobHeader message.
type BlobHeader struct {
	Type      string
	Indexdata []byte
	Datasize  int32
}

// UnmarshalBlobHeader decodes a BlobHeader from its protobuf wire bytes.
func UnmarshalBlobHeader(b []byte) (*BlobHeader, error) {
	h := &BlobHeader{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			h.Type = string(v)
		case 2:
			h.Indexdata = v
		case 3:
			n, err := varint(v)
			if err != nil {
				return err
			}

			h.Datasize = int32(n)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal BlobHeader: %w", err)
	}

	return h, nil
}

// BlobVariant identifies which oneof-like payload field a Blob carries.
type BlobVariant int

const (
	// BlobEmpty means the blob carries no payload at all (permitted).
	BlobEmpty BlobVariant = iota
	BlobRaw
	BlobZlib
	BlobLzma
	BlobBzip2 // reserved, decoding unsupported
	BlobLZ4
	BlobZstd
)

// Blob is fileformat.proto's Blob message. Exactly one of the payload
// fields should be set; Variant records which one was seen on the wire.
type Blob struct {
	Variant    BlobVariant
	RawSize    int32
	HasRawSize bool

	Raw      []byte
	ZlibData []byte
	LzmaData []byte
	Bzip2    []byte
	Lz4Data  []byte
	ZstdData []byte
}

// UnmarshalBlob decodes a Blob from its protobuf wire bytes.
func UnmarshalBlob(b []byte) (*Blob, error) {
	blob := &Blob{}

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			blob.Raw = v
			blob.Variant = BlobRaw
		case 2:
			n, err := varint(v)
			if err != nil {
				return err
			}

			blob.RawSize = int32(n)
			blob.HasRawSize = true
		case 3:
			blob.ZlibData = v
			blob.Variant = BlobZlib
		case 4:
			blob.LzmaData = v
			blob.Variant = BlobLzma
		case 5:
			blob.Bzip2 = v
			blob.Variant = BlobBzip2
		case 6:
			blob.Lz4Data = v
			blob.Variant = BlobLZ4
		case 7:
			blob.ZstdData = v
			blob.Variant = BlobZstd
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pb: unmarshal Blob: %w", err)
	}

	return blob, nil
}
