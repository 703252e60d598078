// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package zbor

import (
	"github.com/fxamacker/cbor/v2"
)

// Codec encodes values into canonical CBOR. Canonical encoding guarantees
// that equal values always produce identical bytes, which makes the output
// suitable as hash input.
type Codec struct {
	encoder cbor.EncMode
}

// NewCodec creates a new Codec.
func NewCodec() *Codec {

	// We should never fail here if the options are valid, so use panic to keep
	// the function signature for the codec clean.
	encoder, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	c := Codec{
		encoder: encoder,
	}

	return &c
}

// Encode returns the canonical CBOR encoding of the given value.
func (c *Codec) Encode(value interface{}) ([]byte, error) {
	return c.encoder.Marshal(value)
}
