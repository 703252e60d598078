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
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/minichain/codec/zbor"
	"github.com/optakt/minichain/models/chain"
	"github.com/optakt/minichain/service/sealer"
	"github.com/optakt/minichain/testing/mocks"
)

func sealedLedger(t *testing.T, blocks int) *Ledger {
	t.Helper()

	s, err := sealer.New(mocks.NoopLogger, zbor.NewCodec())
	require.NoError(t, err)

	l, err := New(context.Background(), mocks.NoopLogger, s)
	require.NoError(t, err)

	for i := 0; i < blocks; i++ {
		l.Submit("Saad", "Y", 50)
		_, err := l.SealPending(context.Background(), mocks.GenericMiner)
		require.NoError(t, err)
	}

	return l
}

func TestLedger_Validate(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		l := sealedLedger(t, 3)

		assert.NoError(t, l.Validate())
	})

	t.Run("tampered transfer, should fail", func(t *testing.T) {
		l := sealedLedger(t, 3)
		l.blocks[2].Transfers[0].Amount = 5000

		err := l.Validate()

		require.Error(t, err)
		assert.True(t, errors.Is(err, chain.ErrInvalidBlock))
	})

	t.Run("re-sealed block breaks the next link, should fail", func(t *testing.T) {
		l := sealedLedger(t, 3)

		s, err := sealer.New(mocks.NoopLogger, zbor.NewCodec())
		require.NoError(t, err)

		forged := l.blocks[1]
		forged.Transfers[0].Amount = 5000
		resealed, err := s.Seal(context.Background(), forged.Index, forged.Transfers, forged.PreviousHash)
		require.NoError(t, err)
		l.blocks[1] = resealed

		err = l.Validate()

		require.Error(t, err)
		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		assert.Len(t, merr.Errors, 1)
	})

	t.Run("wrong index and malformed genesis, should fail with every violation", func(t *testing.T) {
		l := sealedLedger(t, 2)
		l.blocks[0].PreviousHash = "1"
		l.blocks[2].Index = 7

		err := l.Validate()

		require.Error(t, err)
		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))

		// Malformed genesis, genesis hash mismatch, unexpected index and
		// block 2 hash mismatch.
		assert.Len(t, merr.Errors, 4)
	})
}

func TestLedger_index(t *testing.T) {
	l := sealedLedger(t, 0)
	l.balances = make(map[string]float64)

	block := &chain.Block{
		Transfers: []chain.Transfer{
			{Sender: "Y", Receiver: "Y", Amount: 7},
			{Sender: chain.SystemIdentifier, Receiver: "Y", Amount: 3},
		},
	}
	l.index(block)

	assert.Equal(t, 3.0, l.balances["Y"])
	assert.Equal(t, -3.0, l.balances[chain.SystemIdentifier])
}
