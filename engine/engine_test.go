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

package engine_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optakt/minichain/engine"
	"github.com/optakt/minichain/testing/mocks"
)

func TestEngine_Run(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		var stopped []string
		done := make(chan struct{})

		err := engine.New(mocks.NoopLogger, "test", make(chan os.Signal)).
			Component("first", func() error { return nil }, func() { stopped = append(stopped, "first") }).
			Component("second", func() error { <-done; return nil }, func() { stopped = append(stopped, "second"); close(done) }).
			Run()

		assert.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, stopped)
	})

	t.Run("component failure is returned", func(t *testing.T) {
		stopped := false

		err := engine.New(mocks.NoopLogger, "test", make(chan os.Signal)).
			Component("failing", func() error { return mocks.GenericError }, func() { stopped = true }).
			Run()

		assert.ErrorIs(t, err, mocks.GenericError)
		assert.True(t, stopped)
	})

	t.Run("signal stops the components", func(t *testing.T) {
		sig := make(chan os.Signal, 1)
		sig <- os.Interrupt
		done := make(chan struct{})

		err := engine.New(mocks.NoopLogger, "test", sig).
			Component("blocking", func() error { <-done; return nil }, func() { close(done) }).
			Run()

		assert.NoError(t, err)
	})
}
