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

package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/optakt/minichain/models/chain"
)

const namespace = "minichain"

// Sealer wraps a sealer and records metrics about the blocks it seals.
type Sealer struct {
	sealer chain.Sealer

	sealed   prometheus.Counter
	failed   prometheus.Counter
	duration prometheus.Histogram
	nonce    prometheus.Histogram
	verified *prometheus.CounterVec
}

// NewSealer wraps the given sealer and registers its collectors.
func NewSealer(sealer chain.Sealer, registry prometheus.Registerer) (*Sealer, error) {

	s := Sealer{
		sealer: sealer,
		sealed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sealer",
			Name:      "blocks_sealed_total",
			Help:      "number of blocks successfully sealed",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sealer",
			Name:      "seal_failures_total",
			Help:      "number of seals aborted by cancellation, timeout or encoding failure",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sealer",
			Name:      "seal_duration_seconds",
			Help:      "time spent searching for a valid nonce",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		nonce: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sealer",
			Name:      "nonce",
			Help:      "nonce of sealed blocks",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 12),
		}),
		verified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sealer",
			Name:      "verifications_total",
			Help:      "number of block verifications by result",
		}, []string{"result"}),
	}

	collectors := []prometheus.Collector{s.sealed, s.failed, s.duration, s.nonce, s.verified}
	for _, collector := range collectors {
		err := registry.Register(collector)
		if err != nil {
			return nil, fmt.Errorf("could not register sealer metrics: %w", err)
		}
	}

	return &s, nil
}

func (s *Sealer) Seal(ctx context.Context, index uint64, transfers []chain.Transfer, previousHash string) (*chain.Block, error) {
	start := time.Now()
	block, err := s.sealer.Seal(ctx, index, transfers, previousHash)
	if err != nil {
		s.failed.Inc()
		return nil, err
	}

	s.duration.Observe(time.Since(start).Seconds())
	s.nonce.Observe(float64(block.Nonce))
	s.sealed.Inc()

	return block, nil
}

func (s *Sealer) Verify(block *chain.Block) error {
	err := s.sealer.Verify(block)
	if err != nil {
		s.verified.WithLabelValues("invalid").Inc()
		return err
	}

	s.verified.WithLabelValues("valid").Inc()
	return nil
}
