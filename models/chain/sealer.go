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

package chain

import (
	"context"
)

// Sealer represents something that can seal a batch of transfers into a
// block by searching for a nonce that satisfies the difficulty prefix.
type Sealer interface {
	Seal(ctx context.Context, index uint64, transfers []Transfer, previousHash string) (*Block, error)
	Verify(block *Block) error
}

// Codec represents something that can serialize a value into its canonical
// byte representation.
type Codec interface {
	Encode(value interface{}) ([]byte, error)
}
