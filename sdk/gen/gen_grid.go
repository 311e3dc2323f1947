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

// Package gen 產生盤面。
package gen

import (
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/sdk/core"
	"github.com/zintix-labs/reelround/sdk/sampler"
	"github.com/zintix-labs/reelround/sdk/slot"
)

// forcedScatters 預放分散符號的列數，恰好觸發免費遊戲
const forcedScatters = 3

const (
	poolAll       = 0
	poolNoScatter = 1
)

// GridGenerator 保存生成盤面所需的狀態。
//
// 四張抽樣表在建立時一次算好：{一般, 高波動} x {含分散, 不含分散}，
// 熱路徑只做查表與抽樣。
type GridGenerator struct {
	core         *core.Core
	st           *slot.SymbolTable
	cols         int
	rows         int
	forcedChance float64
	vol          gamecfg.VolatilitySetting
	scatter      slot.SymbolID
	pools        [2][2]*sampler.Cumulative
}

// NewGridGenerator 依設定建立生成器；gs 必須已 Init
func NewGridGenerator(c *core.Core, gs *gamecfg.GameSetting) (*GridGenerator, error) {
	if c == nil {
		return nil, errs.NewFatal("gen: core is required")
	}
	st := gs.SymbolTable()
	if st == nil {
		return nil, errs.NewFatal("gen: game setting is not initialised")
	}
	if st.Len() < 2 {
		return nil, errs.NewFatal("gen: need at least one symbol besides the scatter")
	}
	g := &GridGenerator{
		core:         c,
		st:           st,
		cols:         gs.Grid.Cols,
		rows:         gs.Grid.Rows,
		forcedChance: gs.Grid.ForcedBonusChance,
		vol:          gs.Grid.HighVolatility,
		scatter:      st.Scatter().ID,
	}
	for mode, hv := range []bool{false, true} {
		g.pools[mode][poolAll] = sampler.BuildCumulative(st.Len(), func(i int) float64 {
			return g.Weight(i, hv)
		})
		g.pools[mode][poolNoScatter] = sampler.BuildCumulative(st.Len(), func(i int) float64 {
			if st.At(i).Scatter {
				return 0
			}
			return g.Weight(i, hv)
		})
	}
	return g, nil
}

// Weight 回傳第 i 個符號在指定模式下的抽樣權重。
// 高波動模式：百搭 x WildBoost；高階符號 x HighTierBoost；兩者可疊加。
func (g *GridGenerator) Weight(i int, highVolatility bool) float64 {
	s := g.st.At(i)
	w := s.Weight
	if !highVolatility {
		return w
	}
	if s.Wild {
		w *= g.vol.WildBoost
	}
	if s.TopPay() > g.vol.HighTierThreshold {
		w *= g.vol.HighTierBoost
	}
	return w
}

// Generate 產出新盤面。回傳的 Grid 不與生成器共用記憶體。
//
//  1. 非高波動時，以 forcedChance 在三個不同列的隨機 row 預放分散符號。
//  2. 逐列填滿其餘格子；同一列出現過分散符號後改用不含分散的抽樣表。
func (g *GridGenerator) Generate(highVolatility bool) slot.Grid {
	grid := slot.NewGrid(g.cols, g.rows)
	filled := make([]bool, len(grid.Cells))
	hasScatter := make([]bool, g.cols)

	if !highVolatility && g.core.Chance(g.forcedChance) {
		for _, col := range g.core.Distinct(g.cols, forcedScatters) {
			row := g.core.IntN(g.rows)
			grid.Set(col, row, g.scatter)
			filled[grid.Index(col, row)] = true
			hasScatter[col] = true
		}
	}

	mode := 0
	if highVolatility {
		mode = 1
	}
	for col := 0; col < g.cols; col++ {
		for row := 0; row < g.rows; row++ {
			idx := grid.Index(col, row)
			if filled[idx] {
				continue
			}
			pool := poolAll
			if hasScatter[col] {
				pool = poolNoScatter
			}
			id := g.st.At(g.pools[mode][pool].Pick(g.core)).ID
			if id == g.scatter {
				hasScatter[col] = true
			}
			grid.Cells[idx] = id
		}
	}
	return grid
}

// Prob 回傳符號 i 在指定模式、是否排除分散符號下的單格機率（報表與測試用）
func (g *GridGenerator) Prob(i int, highVolatility bool, excludeScatter bool) float64 {
	mode, pool := 0, poolAll
	if highVolatility {
		mode = 1
	}
	if excludeScatter {
		pool = poolNoScatter
	}
	return g.pools[mode][pool].Prob(i)
}
