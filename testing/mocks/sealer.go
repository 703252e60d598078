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

package mocks

import (
	"context"
	"fmt"
	"testing"

	"github.com/optakt/minichain/models/chain"
)

type Sealer struct {
	SealFunc   func(ctx context.Context, index uint64, transfers []chain.Transfer, previousHash string) (*chain.Block, error)
	VerifyFunc func(block *chain.Block) error
}

// BaselineSealer returns a sealer that links blocks without doing any work:
// the hash of a block is derived from its index only.
func BaselineSealer(t *testing.T) *Sealer {
	t.Helper()

	s := Sealer{
		SealFunc: func(_ context.Context, index uint64, transfers []chain.Transfer, previousHash string) (*chain.Block, error) {
			batch := make([]chain.Transfer, len(transfers))
			copy(batch, transfers)
			block := chain.Block{
				Index:        index,
				Timestamp:    GenericTimestamp,
				Transfers:    batch,
				PreviousHash: previousHash,
				Hash:         GenericHash(index),
				Nonce:        index,
			}
			return &block, nil
		},
		VerifyFunc: func(*chain.Block) error {
			return nil
		},
	}

	return &s
}

func (s *Sealer) Seal(ctx context.Context, index uint64, transfers []chain.Transfer, previousHash string) (*chain.Block, error) {
	return s.SealFunc(ctx, index, transfers, previousHash)
}

func (s *Sealer) Verify(block *chain.Block) error {
	return s.VerifyFunc(block)
}

// GenericHash returns a deterministic hex hash for the given index.
func GenericHash(index uint64) string {
	return fmt.Sprintf("00%062x", index)
}
