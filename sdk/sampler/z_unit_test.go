// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sampler

import (
	"math"
	"testing"

	"github.com/zintix-labs/reelround/sdk/core"
)

// assertPanic 驗證函數是否如預期觸發 panic
func assertPanic(t *testing.T, f func(), msg string) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for %s, but got none", msg)
		}
	}()
	f()
}

func TestCumulativeDistribution(t *testing.T) {
	weights := []float64{15, 30, 0, 60, 2.5}
	c := FromWeights(weights)
	r := core.New(core.Default().New(42))

	const n = 400_000
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		counts[c.Pick(r)]++
	}
	if counts[2] != 0 {
		t.Fatalf("zero weight index drawn %d times", counts[2])
	}
	for i, w := range weights {
		want := w / c.Total()
		got := float64(counts[i]) / n
		if math.Abs(want-got) > 0.005 {
			t.Fatalf("index %d: want %.4f got %.4f", i, want, got)
		}
		if math.Abs(c.Prob(i)-want) > 1e-12 {
			t.Fatalf("Prob(%d) mismatch", i)
		}
	}
}

func TestCumulativeWeightFunc(t *testing.T) {
	base := []int{10, 20, 30}
	// 排除 index 1 並把 index 2 加倍
	c := BuildCumulative(len(base), func(i int) float64 {
		switch i {
		case 1:
			return 0
		case 2:
			return float64(base[i]) * 2
		}
		return float64(base[i])
	})
	if c.Total() != 70 {
		t.Fatalf("total want 70 got %v", c.Total())
	}
	r := core.New(core.Default().New(1))
	for i := 0; i < 10_000; i++ {
		if c.Pick(r) == 1 {
			t.Fatalf("excluded index drawn")
		}
	}
}

func TestCumulativeInvalid(t *testing.T) {
	assertPanic(t, func() { BuildCumulative(0, nil) }, "empty pool")
	assertPanic(t, func() { FromWeights([]int{0, 0}) }, "all zero")
	assertPanic(t, func() { FromWeights([]float64{1, -1}) }, "negative")
	assertPanic(t, func() { FromWeights([]float64{math.NaN()}) }, "nan")
}
