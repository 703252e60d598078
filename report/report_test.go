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

package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/minichain/models/chain"
	"github.com/optakt/minichain/report"
	"github.com/optakt/minichain/testing/mocks"
)

func TestChain(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	genesis := &chain.Block{
		Index:        0,
		Timestamp:    mocks.GenericTimestamp,
		Transfers:    []chain.Transfer{},
		PreviousHash: chain.GenesisPreviousHash,
		Hash:         mocks.GenericHash(0),
		Nonce:        12,
	}
	block := &chain.Block{
		Index:        1,
		Timestamp:    mocks.GenericTimestamp,
		Transfers:    mocks.GenericTransfers(2),
		PreviousHash: genesis.Hash,
		Hash:         mocks.GenericHash(1),
		Nonce:        345,
	}

	var buf bytes.Buffer
	err := report.Chain(&buf, []*chain.Block{genesis, block})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "genesis block")
	assert.Contains(t, out, "block 1")
	assert.Contains(t, out, genesis.Hash)
	assert.Contains(t, out, "345")
	assert.Contains(t, out, "1972-11-12T13:14:15Z")
	assert.Contains(t, out, "Saad")
	assert.Contains(t, out, "no transfers")
	assert.Equal(t, 2, strings.Count(out, block.PreviousHash))
}

func TestBalances(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	balances := map[string]float64{
		"Y":                    40,
		"Saad":                 -50,
		"X":                    10.5,
		mocks.GenericMiner:     100,
		chain.SystemIdentifier: -100,
	}

	var buf bytes.Buffer
	err := report.Balances(&buf, balances)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "-50")
	assert.Contains(t, out, "10.5")
	assert.Less(t, strings.Index(out, "Saad"), strings.Index(out, "X"))
	assert.Less(t, strings.Index(out, "X"), strings.Index(out, "Y"))
}
