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

// Values used by every ledger, regardless of its configuration.
const (
	// GenesisPreviousHash is the previous hash recorded in the genesis block.
	GenesisPreviousHash = "0"

	// SystemIdentifier is the reserved sender of mining rewards.
	SystemIdentifier = "System"

	// GenesisIndex is the index of the first block of every chain.
	GenesisIndex = uint64(0)
)

// Default configuration values.
const (
	DefaultDifficultyPrefix = "00"
	DefaultMiningReward     = 100.0
)
