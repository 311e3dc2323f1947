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

// LineMatch 回傳賠付線的目標符號與由左至右的連線數。
//
// 目標符號為由左至右第一個非百搭、非分散的符號；若在遇到分散符號（或線尾）前全為百搭，
// 目標即為百搭本身。連線從第 0 列起算，格子等於目標或為百搭即算連上，遇到第一個不符即停止。
// 找不到目標（首格即為分散且目錄沒有百搭）時 ok 為 false。
func (e *Evaluator) LineMatch(g slot.Grid, line *slot.Payline) (target slot.SymbolID, count int, ok bool) {
	found := false
	for col := 0; col < g.Cols; col++ {
		id := g.At(col, line.Rows[col])
		if e.st.IsWild(id) {
			continue
		}
		if !e.st.IsScatter(id) {
			target, found = id, true
		}
		break
	}
	if !found {
		w, hasWild := e.st.Wild()
		if !hasWild {
			return 0, 0, false
		}
		target = w.ID
	}
	for col := 0; col < g.Cols; col++ {
		id := g.At(col, line.Rows[col])
		if id != target && !e.st.IsWild(id) {
			break
		}
		count++
	}
	return target, count, true
}

func (e *Evaluator) calcLine(g slot.Grid, line *slot.Payline, bet decimal.Decimal) (Win, bool) {
	target, count, ok := e.LineMatch(g, line)
	if !ok || count < MinLineCount {
		return Win{}, false
	}
	sym, ok := e.st.ByID(target)
	if !ok {
		return Win{}, false
	}
	mult := sym.Pay(count)
	if mult <= 0 {
		return Win{}, false
	}
	cells := make([]int, count)
	for col := 0; col < count; col++ {
		cells[col] = g.Index(col, line.Rows[col])
	}
	return Win{
		Amount: bet.Mul(decimal.NewFromInt(int64(mult))),
		Line:   line.ID,
		Symbol: target,
		Count:  count,
		Cells:  cells,
	}, true
}
