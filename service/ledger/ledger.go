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
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/optakt/minichain/models/chain"
)

// Ledger owns a chain of sealed blocks and the queue of transfers waiting to
// be included in the next one. It is safe for concurrent use.
type Ledger struct {
	log    zerolog.Logger
	sealer chain.Sealer
	cfg    Config

	sealing *sync.Mutex // serializes seals, so the tail cannot move during a search
	mutex   *sync.Mutex // guards the fields below

	blocks   []*chain.Block
	pending  *deque.Deque
	balances map[string]float64
}

// New creates a ledger and seals its genesis block with the given sealer.
func New(ctx context.Context, log zerolog.Logger, sealer chain.Sealer, options ...Option) (*Ledger, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	err := validator.New().Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger configuration: %w", err)
	}

	l := Ledger{
		log:     log.With().Str("component", "ledger").Logger(),
		sealer:  sealer,
		cfg:     cfg,
		sealing: &sync.Mutex{},
		mutex:   &sync.Mutex{},
		pending: deque.New(),
	}
	if cfg.BalanceIndex {
		l.balances = make(map[string]float64)
	}

	genesis, err := sealer.Seal(ctx, chain.GenesisIndex, []chain.Transfer{}, chain.GenesisPreviousHash)
	if err != nil {
		return nil, fmt.Errorf("could not seal genesis block: %w", err)
	}
	l.blocks = []*chain.Block{genesis}

	l.log.Info().Str("hash", genesis.Hash).Msg("genesis block sealed")

	return &l, nil
}

// Submit queues a transfer for inclusion in the next sealed block. Transfers
// are not validated in any way.
func (l *Ledger) Submit(sender string, receiver string, amount float64) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	transfer := chain.Transfer{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}
	l.pending.PushBack(transfer)

	l.log.Debug().
		Str("sender", sender).
		Str("receiver", receiver).
		Float64("amount", amount).
		Int("pending", l.pending.Len()).
		Msg("transfer submitted")
}

// SealPending seals every pending transfer, followed by a reward transfer for
// the given miner, into a new block appended to the chain. If sealing fails,
// the pending transfers stay queued and the reward is discarded. Transfers
// submitted while the search runs are kept for the next block.
func (l *Ledger) SealPending(ctx context.Context, miner string) (*chain.Block, error) {
	l.sealing.Lock()
	defer l.sealing.Unlock()

	l.mutex.Lock()
	tail := l.blocks[len(l.blocks)-1]
	count := l.pending.Len()
	batch := make([]chain.Transfer, 0, count+1)
	for i := 0; i < count; i++ {
		batch = append(batch, l.pending.At(i).(chain.Transfer))
	}
	l.mutex.Unlock()

	reward := chain.Transfer{
		Sender:   chain.SystemIdentifier,
		Receiver: miner,
		Amount:   l.cfg.MiningReward,
	}
	batch = append(batch, reward)

	block, err := l.sealer.Seal(ctx, tail.Index+1, batch, tail.Hash)
	if err != nil {
		l.log.Warn().Err(err).Int("pending", count).Msg("sealing failed, pending transfers kept")
		return nil, fmt.Errorf("could not seal pending transfers: %w", err)
	}

	err = l.check(tail, block)
	if err != nil {
		return nil, fmt.Errorf("could not append sealed block: %w", err)
	}

	l.mutex.Lock()
	l.blocks = append(l.blocks, block)
	for i := 0; i < count; i++ {
		l.pending.PopFront()
	}
	l.index(block)
	l.mutex.Unlock()

	l.log.Info().
		Uint64("index", block.Index).
		Str("hash", block.Hash).
		Str("miner", miner).
		Int("transfers", len(block.Transfers)).
		Msg("pending transfers sealed")

	return block.Copy(), nil
}

// Chain returns a copy of every block of the chain, genesis first.
func (l *Ledger) Chain() []*chain.Block {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	blocks := make([]*chain.Block, 0, len(l.blocks))
	for _, block := range l.blocks {
		blocks = append(blocks, block.Copy())
	}

	return blocks
}

// Last returns a copy of the most recently sealed block.
func (l *Ledger) Last() *chain.Block {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.blocks[len(l.blocks)-1].Copy()
}

// Height returns the index of the most recently sealed block.
func (l *Ledger) Height() uint64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.blocks[len(l.blocks)-1].Index
}

// Pending returns the transfers waiting to be sealed, in submission order.
func (l *Ledger) Pending() []chain.Transfer {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	transfers := make([]chain.Transfer, 0, l.pending.Len())
	for i := 0; i < l.pending.Len(); i++ {
		transfers = append(transfers, l.pending.At(i).(chain.Transfer))
	}

	return transfers
}

// Reward returns the amount credited to the miner of each block.
func (l *Ledger) Reward() float64 {
	return l.cfg.MiningReward
}

// check makes sure a block returned by the sealer extends the given tail.
func (l *Ledger) check(tail *chain.Block, block *chain.Block) error {
	if block.Index != tail.Index+1 {
		return fmt.Errorf("unexpected index (want: %d, have: %d): %w", tail.Index+1, block.Index, chain.ErrInvalidBlock)
	}
	if block.PreviousHash != tail.Hash {
		return fmt.Errorf("unexpected previous hash (want: %s, have: %s): %w", tail.Hash, block.PreviousHash, chain.ErrInvalidBlock)
	}
	err := l.sealer.Verify(block)
	if err != nil {
		return fmt.Errorf("sealed block failed verification (%s): %w", err, chain.ErrInvalidBlock)
	}
	return nil
}
