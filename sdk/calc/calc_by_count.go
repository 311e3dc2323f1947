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

package calc

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/sdk/slot"
)

// calcScatter 計算分散符號：全盤計數，不看賠付線。
// 未滿 MinScatterCount 一律不賠；超過賠付表長度時以最長一級計。
func (e *Evaluator) calcScatter(g slot.Grid, bet decimal.Decimal) (Win, int, bool) {
	sc := e.st.Scatter()
	cells := make([]int, 0, g.Cols)
	for i, id := range g.Cells {
		if id == sc.ID {
			cells = append(cells, i)
		}
	}
	count := len(cells)
	if count < MinScatterCount {
		return Win{}, count, false
	}
	mult := sc.Pay(min(count, len(sc.Pays)))
	if mult <= 0 {
		return Win{}, count, false
	}
	return Win{
		Amount: bet.Mul(decimal.NewFromInt(int64(mult))),
		Line:   ScatterLine,
		Symbol: sc.ID,
		Count:  count,
		Cells:  cells,
	}, count, true
}
