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

// 本檔案 (cumulative.go) 實作累積權重抽樣。
//
// 演算法：
//   - 建表：把權重依序累加成遞增前綴和 acc[i] = w0 + ... + wi。
//   - 抽樣：u = Float64() * total，二分搜尋第一個 acc[i] > u 的 i。
//
// 特性：
//   - 建表 O(n)，抽樣 O(log n)，只需一次 Float64。
//   - 權重可為任意正實數，適合「動態加成」後的非整數權重。
//
// 權重來源用 WeightFunc 描述，同一個建構函數即可產出 base / boosted / 排除某項等多種表，
// 不需要在每個模式各自複製累加邏輯。

package sampler

import (
	"fmt"
	"math"
	"sort"

	"github.com/zintix-labs/reelround/sdk/core"
)

// WeightFunc 回傳第 i 項的權重；回傳 0 代表排除該項。
type WeightFunc func(i int) float64

// Cumulative 累積權重表
type Cumulative struct {
	acc   []float64
	total float64
}

// BuildCumulative 依 n 與權重函數建表。
//
// 權重必須是非負有限值，且至少一項大於 0，否則 panic（屬於設定錯誤，應在載入時擋下）。
func BuildCumulative(n int, w WeightFunc) *Cumulative {
	if n <= 0 {
		panic("cumulative: empty pool")
	}
	acc := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		v := w(i)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("cumulative: invalid weight %v at %d", v, i))
		}
		total += v
		acc[i] = total
	}
	if total <= 0 {
		panic("cumulative: all weights are zero")
	}
	return &Cumulative{acc: acc, total: total}
}

// FromWeights 以權重切片建表。
func FromWeights[T Numbers](src []T) *Cumulative {
	return BuildCumulative(len(src), func(i int) float64 { return float64(src[i]) })
}

// Pick 回傳抽中的索引。權重為 0 的項永遠不會被抽中。
func (c *Cumulative) Pick(r *core.Core) int {
	u := r.Float64() * c.total
	i := sort.Search(len(c.acc), func(i int) bool { return c.acc[i] > u })
	if i == len(c.acc) {
		// 浮點誤差保護：落在最後一個正權重項
		i = c.lastPositive()
	}
	return i
}

// Prob 回傳第 i 項被抽中的機率。
func (c *Cumulative) Prob(i int) float64 {
	if i < 0 || i >= len(c.acc) {
		return 0
	}
	prev := 0.0
	if i > 0 {
		prev = c.acc[i-1]
	}
	return (c.acc[i] - prev) / c.total
}

// Total 權重總和
func (c *Cumulative) Total() float64 { return c.total }

// Len 項目數
func (c *Cumulative) Len() int { return len(c.acc) }

func (c *Cumulative) lastPositive() int {
	for i := len(c.acc) - 1; i > 0; i-- {
		if c.acc[i] > c.acc[i-1] {
			return i
		}
	}
	return 0
}
