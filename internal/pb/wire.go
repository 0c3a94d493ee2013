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

// Package pb holds hand-decoded OSM PBF wire messages (fileformat.proto and
// osmformat.proto). There is no protoc-generated code here: each message
// walks its own bytes field-by-field using google.golang.org/protobuf's
// low-level protowire primitives, the same way a generated unmarshaler
// would, but written out longhand.
package pb

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrTruncated is returned when a message's bytes end in the middle of a
// field.
var ErrTruncated = errors.New("pb: truncated message")

// forEachField walks the top-level fields of a length-delimited protobuf
// message, invoking fn with the field number, wire type, and the bytes of
// that single field's value (for varint/fixed32/fixed64 this is the encoded
// value exactly as consumed; for bytes it is the inner content). Every field
// is passed to fn, known or not; fields of the group wire types are skipped
// without calling fn. A non-nil error from fn stops the walk and is
// returned; otherwise forEachField always advances by the field's true
// encoded width.
func forEachField(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
		}

		b = b[n:]

		switch typ {
		case protowire.VarintType:
			_, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
			}

			if err := fn(num, typ, b[:n]); err != nil {
				return err
			}

			b = b[n:]
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
			}

			if err := fn(num, typ, b[:n]); err != nil {
				return err
			}

			b = b[n:]
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
			}

			if err := fn(num, typ, b[:n]); err != nil {
				return err
			}

			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
			}

			if err := fn(num, typ, v); err != nil {
				return err
			}

			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
			}

			b = b[n:]
		}
	}

	return nil
}

// varint decodes a single varint field value (as produced by forEachField
// for a VarintType field).
func varint(b []byte) (uint64, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
	}

	return v, nil
}

// zigzag decodes a single zigzag-encoded (sint32/sint64) varint field value.
func zigzag(b []byte) (int64, error) {
	v, err := varint(b)
	if err != nil {
		return 0, err
	}

	return protowire.DecodeZigZag(v), nil
}

// packedVarints decodes a packed repeated varint field's bytes (the inner
// content already stripped of its own length prefix by forEachField) into
// the plain uint64 values it contains.
func packedVarints(b []byte) ([]uint64, error) {
	out := make([]uint64, 0, len(b)/2)

	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: %w: %w", ErrTruncated, protowire.ParseError(n))
		}

		out = append(out, v)
		b = b[n:]
	}

	return out, nil
}

// packedZigZags decodes a packed repeated sint32/sint64 field.
func packedZigZags(b []byte) ([]int64, error) {
	raw, err := packedVarints(b)
	if err != nil {
		return nil, err
	}

	out := make([]int64, len(raw))
	for i, v := range raw {
		out[i] = protowire.DecodeZigZag(v)
	}

	return out, nil
}
