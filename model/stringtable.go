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

import "unicode/utf8"

// StringTable is a borrowed, zero-copy view over a PrimitiveBlock's interned
// byte strings. Index 0 is conventionally unused.
type StringTable struct {
	raw [][]byte
}

// NewStringTable wraps the raw interned byte strings of a decoded
// PrimitiveBlock.
func NewStringTable(raw [][]byte) StringTable {
	return StringTable{raw: raw}
}

// Len returns the number of entries in the table.
func (s StringTable) Len() int {
	return len(s.raw)
}

// Get returns the raw bytes at index i, or false if i is out of range.
func (s StringTable) Get(i int) ([]byte, bool) {
	if i < 0 || i >= len(s.raw) {
		return nil, false
	}

	return s.raw[i], true
}

// GetString returns the string at index i. It reports false both when the
// index is out of range and when the bytes are not valid UTF-8 — a decoder
// walking tags treats both the same way: skip the pair, don't fail the
// block.
func (s StringTable) GetString(i int) (string, bool) {
	b, ok := s.Get(i)
	if !ok || !utf8.Valid(b) {
		return "", false
	}

	return string(b), true
}
