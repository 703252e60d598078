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
	"github.com/optakt/minichain/models/chain"
)

// BalanceOf returns the balance of the given identifier, computed by replaying
// every transfer of every sealed block. Pending transfers are not counted. An
// identifier that never appears has a balance of zero.
func (l *Ledger) BalanceOf(identifier string) float64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	balance := 0.0
	for _, block := range l.blocks {
		for _, transfer := range block.Transfers {
			if transfer.Receiver == identifier {
				balance += transfer.Amount
			}
			if transfer.Sender == identifier {
				balance -= transfer.Amount
			}
		}
	}

	return balance
}

// Balances replays the chain and returns the balance of every identifier that
// appears in it, including the reserved system identifier.
func (l *Ledger) Balances() map[string]float64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	balances := make(map[string]float64)
	for _, block := range l.blocks {
		apply(balances, block)
	}

	return balances
}

// IndexedBalanceOf returns the balance of the given identifier from the
// balance index. When the index is disabled, it falls back to a full replay.
// Both always return the same value.
func (l *Ledger) IndexedBalanceOf(identifier string) float64 {
	if !l.cfg.BalanceIndex {
		return l.BalanceOf(identifier)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.balances[identifier]
}

// index applies a newly appended block to the balance index. It must be
// called with the mutex held.
func (l *Ledger) index(block *chain.Block) {
	if l.balances == nil {
		return
	}
	apply(l.balances, block)
}

// apply credits receivers and debits senders in the same order as a replay,
// so that floating point results are identical.
func apply(balances map[string]float64, block *chain.Block) {
	for _, transfer := range block.Transfers {
		balances[transfer.Receiver] += transfer.Amount
		balances[transfer.Sender] -= transfer.Amount
	}
}
