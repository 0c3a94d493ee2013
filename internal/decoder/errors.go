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

// Package decoder turns the raw bytes of a blob's payload into model types:
// decompression (C2's variant dispatch) and the wire-to-model translation
// for header and primitive blocks.
package decoder

import "errors"

// ErrUnsupportedEncoding means a blob's compression variant is recognized on
// the wire but this reader has no decoder for it (bzip2).
var ErrUnsupportedEncoding = errors.New("pbf: unsupported blob encoding")

// ErrProtobufParse wraps a failure to walk a message's protobuf wire bytes.
var ErrProtobufParse = errors.New("pbf: protobuf parse error")
