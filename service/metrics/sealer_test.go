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

package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/minichain/models/chain"
	"github.com/optakt/minichain/service/metrics"
	"github.com/optakt/minichain/testing/mocks"
)

func TestNewSealer(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		registry := prometheus.NewRegistry()

		_, err := metrics.NewSealer(mocks.BaselineSealer(t), registry)

		require.NoError(t, err)
		count, err := testutil.GatherAndCount(registry)
		require.NoError(t, err)
		// Only collectors without labels are reported before first use.
		assert.Equal(t, 4, count)
	})

	t.Run("duplicate registration, should fail", func(t *testing.T) {
		registry := prometheus.NewRegistry()

		_, err := metrics.NewSealer(mocks.BaselineSealer(t), registry)
		require.NoError(t, err)
		_, err = metrics.NewSealer(mocks.BaselineSealer(t), registry)

		assert.Error(t, err)
	})
}

func TestSealer_Seal(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		s, err := metrics.NewSealer(mocks.BaselineSealer(t), registry)
		require.NoError(t, err)

		block, err := s.Seal(context.Background(), 3, mocks.GenericTransfers(2), mocks.GenericHash(2))

		require.NoError(t, err)
		assert.Equal(t, uint64(3), block.Index)
		count, err := testutil.GatherAndCount(registry, "minichain_sealer_seal_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("sealer failure is counted and forwarded", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		sealer := mocks.BaselineSealer(t)
		sealer.SealFunc = func(context.Context, uint64, []chain.Transfer, string) (*chain.Block, error) {
			return nil, chain.ErrMiningTimeout
		}
		s, err := metrics.NewSealer(sealer, registry)
		require.NoError(t, err)

		_, err = s.Seal(context.Background(), 3, nil, mocks.GenericHash(2))

		assert.True(t, errors.Is(err, chain.ErrMiningTimeout))
	})
}

func TestSealer_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	sealer := mocks.BaselineSealer(t)
	s, err := metrics.NewSealer(sealer, registry)
	require.NoError(t, err)

	for i := uint64(1); i <= 3; i++ {
		_, err := s.Seal(context.Background(), i, nil, mocks.GenericHash(i-1))
		require.NoError(t, err)
	}
	sealer.SealFunc = func(context.Context, uint64, []chain.Transfer, string) (*chain.Block, error) {
		return nil, mocks.GenericError
	}
	_, err = s.Seal(context.Background(), 4, nil, mocks.GenericHash(3))
	require.Error(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if metric.GetCounter() != nil {
				values[family.GetName()] = metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 3.0, values["minichain_sealer_blocks_sealed_total"])
	assert.Equal(t, 1.0, values["minichain_sealer_seal_failures_total"])
}

func TestSealer_Verify(t *testing.T) {
	registry := prometheus.NewRegistry()
	sealer := mocks.BaselineSealer(t)
	s, err := metrics.NewSealer(sealer, registry)
	require.NoError(t, err)

	block, err := s.Seal(context.Background(), 1, nil, mocks.GenericHash(0))
	require.NoError(t, err)

	assert.NoError(t, s.Verify(block))

	sealer.VerifyFunc = func(*chain.Block) error {
		return mocks.GenericError
	}
	assert.True(t, errors.Is(s.Verify(block), mocks.GenericError))

	count, err := testutil.GatherAndCount(registry, "minichain_sealer_verifications_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
