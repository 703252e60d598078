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

// DefaultConfig is the default configuration for the ledger.
var DefaultConfig = Config{
	MiningReward: chain.DefaultMiningReward,
	BalanceIndex: false,
}

// Config contains the configuration options for the ledger.
type Config struct {
	MiningReward float64 `validate:"gte=0"`
	BalanceIndex bool
}

// Option is a function that modifies a ledger configuration.
type Option func(*Config)

// WithMiningReward sets the amount credited to the miner of each block.
func WithMiningReward(reward float64) Option {
	return func(cfg *Config) {
		cfg.MiningReward = reward
	}
}

// WithBalanceIndex enables an incrementally maintained balance index, which
// serves IndexedBalanceOf without replaying the chain.
func WithBalanceIndex(enabled bool) Option {
	return func(cfg *Config) {
		cfg.BalanceIndex = enabled
	}
}
