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
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/optakt/minichain/models/chain"
)

// Global variables that can be used for testing. They are non-nil valid values for the types commonly needed
// to test ledger components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericBytes = []byte(`test`)

	GenericTime = time.Date(1972, 11, 12, 13, 14, 15, 0, time.UTC)

	GenericTimestamp = GenericTime.UnixMilli()

	GenericMiner = "Saad-Miner-Wallet"
)

// GenericClock returns a clock that always returns the same time.
func GenericClock() func() time.Time {
	return func() time.Time {
		return GenericTime
	}
}

// GenericTransfers returns a deterministic batch of transfers of the given size.
func GenericTransfers(number int) []chain.Transfer {
	identifiers := []string{"Saad", "Y", "X", "Z"}

	var transfers []chain.Transfer
	for i := 0; i < number; i++ {
		transfer := chain.Transfer{
			Sender:   identifiers[i%len(identifiers)],
			Receiver: identifiers[(i+1)%len(identifiers)],
			Amount:   float64(10 * (i + 1)),
		}
		transfers = append(transfers, transfer)
	}

	return transfers
}
