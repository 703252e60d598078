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
	"time"

	"github.com/optakt/minichain/models/chain"
)

// DefaultConfig is the default configuration for the sealer.
var DefaultConfig = Config{
	DifficultyPrefix: chain.DefaultDifficultyPrefix,
	MaxAttempts:      0,
	Timeout:          0,
	Workers:          1,
	Clock:            time.Now,
}

// Config contains the configuration options for the sealer. A zero value for
// MaxAttempts or Timeout means the search is not bounded on that axis.
type Config struct {
	DifficultyPrefix string        `validate:"omitempty,max=64,hexadecimal,lowercase,excludesall=xX"`
	MaxAttempts      uint64        `validate:"gte=0"`
	Timeout          time.Duration `validate:"gte=0"`
	Workers          uint          `validate:"gte=1,lte=256"`
	Clock            func() time.Time
}

// Option is a function that modifies a sealer configuration.
type Option func(*Config)

// WithDifficultyPrefix sets the hex prefix that sealed block hashes must
// start with. It cannot be longer than a hex-encoded SHA-256 digest.
func WithDifficultyPrefix(prefix string) Option {
	return func(cfg *Config) {
		cfg.DifficultyPrefix = prefix
	}
}

// WithMaxAttempts bounds the number of nonces tried for a single block.
func WithMaxAttempts(attempts uint64) Option {
	return func(cfg *Config) {
		cfg.MaxAttempts = attempts
	}
}

// WithTimeout bounds the wall-clock duration of the search for a single block.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}

// WithWorkers sets how many goroutines search the nonce space in parallel.
// With a single worker, the smallest valid nonce is always the one found.
func WithWorkers(workers uint) Option {
	return func(cfg *Config) {
		cfg.Workers = workers
	}
}

// WithClock sets the function used to timestamp blocks.
func WithClock(clock func() time.Time) Option {
	return func(cfg *Config) {
		cfg.Clock = clock
	}
}
