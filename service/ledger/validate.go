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

package ledger

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/optakt/minichain/models/chain"
)

// Validate checks the whole chain against itself: the genesis block shape,
// the continuity of indexes, the linkage of previous hashes and the hash of
// every block. All violations found are returned together.
func (l *Ledger) Validate() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var merr *multierror.Error

	genesis := l.blocks[0]
	if !genesis.IsGenesis() {
		merr = multierror.Append(merr, fmt.Errorf("malformed genesis block (index: %d, previous: %s, transfers: %d): %w",
			genesis.Index, genesis.PreviousHash, len(genesis.Transfers), chain.ErrInvalidBlock))
	}

	for i, block := range l.blocks {
		if block.Index != uint64(i) {
			merr = multierror.Append(merr, fmt.Errorf("unexpected index at position %d (have: %d): %w", i, block.Index, chain.ErrInvalidBlock))
		}

		if i > 0 && block.PreviousHash != l.blocks[i-1].Hash {
			merr = multierror.Append(merr, fmt.Errorf("broken link at position %d (want: %s, have: %s): %w", i, l.blocks[i-1].Hash, block.PreviousHash, chain.ErrInvalidBlock))
		}

		err := l.sealer.Verify(block)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("block at position %d failed verification (%s): %w", i, err, chain.ErrInvalidBlock))
		}
	}

	return merr.ErrorOrNil()
}
