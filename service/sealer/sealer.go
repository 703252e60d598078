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

package sealer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/optakt/minichain/models/chain"
)

// checkInterval is the number of attempts a worker makes between two checks
// of its cancellation and deadline conditions.
const checkInterval = 1024

// errFound is used by a worker to stop its siblings once it found a valid nonce.
var errFound = errors.New("valid nonce found")

// Sealer is the component that turns a batch of transfers into a block, by
// searching for a nonce that makes the block hash start with the configured
// difficulty prefix. It holds no state besides its configuration and can be
// used concurrently.
type Sealer struct {
	log   zerolog.Logger
	codec chain.Codec
	cfg   Config
}

// New creates a new sealer that serializes transfers with the given codec.
func New(log zerolog.Logger, codec chain.Codec, options ...Option) (*Sealer, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	err := validator.New().Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid sealer configuration: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	s := Sealer{
		log:   log.With().Str("component", "sealer").Logger(),
		codec: codec,
		cfg:   cfg,
	}

	return &s, nil
}

// Prefix returns the difficulty prefix enforced by the sealer.
func (s *Sealer) Prefix() string {
	return s.cfg.DifficultyPrefix
}

// Seal searches for a nonce that satisfies the difficulty prefix for a block
// with the given index, transfers and previous hash. The block timestamp is
// taken once, when the call starts. The returned block is complete; nothing
// about the search is visible to the caller until it succeeds.
func (s *Sealer) Seal(ctx context.Context, index uint64, transfers []chain.Transfer, previousHash string) (*chain.Block, error) {

	start := time.Now()
	timestamp := s.cfg.Clock().UnixMilli()

	batch := make([]chain.Transfer, len(transfers))
	copy(batch, transfers)

	payload, err := s.codec.Encode(batch)
	if err != nil {
		return nil, fmt.Errorf("could not encode transfers: %w", err)
	}

	nonce, hash, attempts, err := s.search(ctx, header(index, timestamp, payload, previousHash))
	if err != nil {
		return nil, fmt.Errorf("could not seal block (index: %d): %w", index, err)
	}

	block := chain.Block{
		Index:        index,
		Timestamp:    timestamp,
		Transfers:    batch,
		PreviousHash: previousHash,
		Hash:         hash,
		Nonce:        nonce,
	}

	s.log.Info().
		Uint64("index", index).
		Str("hash", hash).
		Uint64("nonce", nonce).
		Uint64("attempts", attempts).
		Int("transfers", len(batch)).
		Dur("duration", time.Since(start)).
		Msg("block sealed")

	return &block, nil
}

// Hash recomputes the hash of the given block from its stored fields.
func (s *Sealer) Hash(block *chain.Block) (string, error) {

	// A nil batch and an empty batch must hash identically, as copies of a
	// block always carry a non-nil slice.
	transfers := block.Transfers
	if transfers == nil {
		transfers = []chain.Transfer{}
	}

	payload, err := s.codec.Encode(transfers)
	if err != nil {
		return "", fmt.Errorf("could not encode transfers: %w", err)
	}

	return digest(header(block.Index, block.Timestamp, payload, block.PreviousHash), block.Nonce), nil
}

// Verify checks that the block hash is consistent with the block contents and
// that it satisfies the difficulty prefix.
func (s *Sealer) Verify(block *chain.Block) error {

	hash, err := s.Hash(block)
	if err != nil {
		return fmt.Errorf("could not compute block hash: %w", err)
	}
	if hash != block.Hash {
		return fmt.Errorf("hash mismatch (index: %d, stored: %s, computed: %s)", block.Index, block.Hash, hash)
	}
	if !block.MeetsDifficulty(s.cfg.DifficultyPrefix) {
		return fmt.Errorf("hash does not meet difficulty (index: %d, hash: %s, prefix: %s)", block.Index, block.Hash, s.cfg.DifficultyPrefix)
	}

	return nil
}

// search runs the workers over interleaved slices of the nonce space until one
// of them finds a hash with the difficulty prefix, the context is canceled or
// the search budget is exhausted.
func (s *Sealer) search(ctx context.Context, base []byte) (uint64, string, uint64, error) {

	var deadline time.Time
	if s.cfg.Timeout > 0 {
		deadline = time.Now().Add(s.cfg.Timeout)
	}

	var (
		mutex    sync.Mutex
		found    bool
		nonce    uint64
		hash     string
		attempts uint64
	)

	stride := uint64(s.cfg.Workers)
	group, ctx := errgroup.WithContext(ctx)
	for worker := uint64(0); worker < stride; worker++ {
		first := worker
		group.Go(func() error {

			buf := make([]byte, len(base), len(base)+maxNonceDigits)
			copy(buf, base)

			count := uint64(0)
			defer func() {
				atomic.AddUint64(&attempts, count)
			}()

			for candidate := first; ; candidate += stride {
				if s.cfg.MaxAttempts > 0 && candidate >= s.cfg.MaxAttempts {
					return nil
				}

				if count%checkInterval == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
					if !deadline.IsZero() && time.Now().After(deadline) {
						return fmt.Errorf("no valid nonce after %s: %w", s.cfg.Timeout, chain.ErrMiningTimeout)
					}
				}

				count++
				sum := digest(buf, candidate)
				if !strings.HasPrefix(sum, s.cfg.DifficultyPrefix) {
					continue
				}

				mutex.Lock()
				if !found {
					found = true
					nonce = candidate
					hash = sum
				}
				mutex.Unlock()

				return errFound
			}
		})
	}

	err := group.Wait()
	if found {
		return nonce, hash, attempts, nil
	}
	if err == nil {
		return 0, "", attempts, fmt.Errorf("no valid nonce in %d attempts: %w", s.cfg.MaxAttempts, chain.ErrMiningTimeout)
	}

	return 0, "", attempts, err
}
