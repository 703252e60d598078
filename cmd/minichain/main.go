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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/optakt/minichain/codec/zbor"
	"github.com/optakt/minichain/engine"
	"github.com/optakt/minichain/models/chain"
	"github.com/optakt/minichain/report"
	"github.com/optakt/minichain/service/ledger"
	"github.com/optakt/minichain/service/metrics"
	"github.com/optakt/minichain/service/sealer"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagLevel   string
		flagMetrics string
		flagMiner   string
		flagPrefix  string
		flagReward  float64
		flagTimeout time.Duration
		flagWorkers uint
	)

	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "a", "", "address on which to expose Prometheus metrics (disabled if empty)")
	pflag.StringVarP(&flagMiner, "miner", "m", "Saad-Miner-Wallet", "identifier credited with the mining reward")
	pflag.StringVarP(&flagPrefix, "prefix", "p", chain.DefaultDifficultyPrefix, "hex prefix that sealed block hashes must start with")
	pflag.Float64VarP(&flagReward, "reward", "r", chain.DefaultMiningReward, "amount credited to the miner of each block")
	pflag.DurationVarP(&flagTimeout, "timeout", "t", 0, "maximum duration of the search for a single block (0 for unbounded)")
	pflag.UintVarP(&flagWorkers, "workers", "w", 1, "number of goroutines searching for a nonce in parallel")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	// The sealer serializes transfers with the canonical CBOR codec and is
	// wrapped so that every seal is recorded in the metrics registry.
	codec := zbor.NewCodec()
	pow, err := sealer.New(log, codec,
		sealer.WithDifficultyPrefix(flagPrefix),
		sealer.WithTimeout(flagTimeout),
		sealer.WithWorkers(flagWorkers),
	)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize sealer")
		return failure
	}
	registry := prometheus.NewRegistry()
	seal, err := metrics.NewSealer(pow, registry)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize sealer metrics")
		return failure
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// When metrics are exposed, the ledger component stays up after the
	// scenario so that the endpoint can be scraped until interrupted.
	eng := engine.New(log, "minichain", sig).
		Component(
			"ledger",
			linger(ctx, flagMetrics != "", func() error {
				return scenario(ctx, log, seal, flagMiner, flagReward)
			}),
			cancel,
		)

	if flagMetrics != "" {
		server := metrics.NewServer(log, flagMetrics, registry)
		eng = eng.Component(
			"metrics",
			server.Start,
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				err := server.Stop(ctx)
				if err != nil {
					log.Error().Err(err).Msg("could not stop metrics server")
				}
			},
		)
	}

	err = eng.Run()
	if err != nil {
		log.Error().Err(err).Msg("failed")
		return failure
	}

	return success
}

// linger wraps a run function so that, when hold is set, it only returns once
// the context is canceled after a successful run.
func linger(ctx context.Context, hold bool, run func() error) func() error {
	return func() error {
		err := run()
		if err != nil || !hold {
			return err
		}
		<-ctx.Done()
		return nil
	}
}

// scenario creates a ledger, seals two transfers into a block and prints the
// resulting chain and balances.
func scenario(ctx context.Context, log zerolog.Logger, seal chain.Sealer, miner string, reward float64) error {

	book, err := ledger.New(ctx, log, seal,
		ledger.WithMiningReward(reward),
		ledger.WithBalanceIndex(true),
	)
	if err != nil {
		return fmt.Errorf("could not create ledger: %w", err)
	}

	log.Info().Msg("creating transfers")
	book.Submit("Saad", "Y", 50)
	book.Submit("Y", "X", 10)

	log.Info().Str("miner", miner).Msg("sealing pending transfers")
	_, err = book.SealPending(ctx, miner)
	if err != nil {
		return fmt.Errorf("could not seal pending transfers: %w", err)
	}

	for _, identifier := range []string{"Saad", "Y", "X", miner} {
		log.Info().
			Str("identifier", identifier).
			Float64("balance", book.BalanceOf(identifier)).
			Float64("indexed_balance", book.IndexedBalanceOf(identifier)).
			Msg("balance check")
	}

	err = book.Validate()
	if err != nil {
		return fmt.Errorf("could not validate chain: %w", err)
	}

	err = report.Chain(os.Stdout, book.Chain())
	if err != nil {
		return fmt.Errorf("could not print chain: %w", err)
	}
	err = report.Balances(os.Stdout, book.Balances())
	if err != nil {
		return fmt.Errorf("could not print balances: %w", err)
	}

	return nil
}
