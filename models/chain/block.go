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
	"strings"
)

// Block is a sealed batch of transfers, linked to its predecessor through
// its previous hash. Blocks are produced by a Sealer and are not modified
// afterwards.
type Block struct {
	Index        uint64
	Timestamp    int64 // milliseconds since epoch
	Transfers    []Transfer
	PreviousHash string
	Hash         string
	Nonce        uint64
}

// IsGenesis returns whether the block has the shape of a genesis block.
func (b *Block) IsGenesis() bool {
	return b.Index == GenesisIndex && b.PreviousHash == GenesisPreviousHash && len(b.Transfers) == 0
}

// MeetsDifficulty returns whether the block hash starts with the given prefix.
func (b *Block) MeetsDifficulty(prefix string) bool {
	return strings.HasPrefix(b.Hash, prefix)
}

// Copy returns a deep copy of the block, so that the transfer slice of the
// copy does not share memory with the original.
func (b *Block) Copy() *Block {
	dup := *b
	dup.Transfers = make([]Transfer, len(b.Transfers))
	copy(dup.Transfers, b.Transfers)
	return &dup
}
