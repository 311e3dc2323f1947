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

package reelround

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/sdk/calc"
	"github.com/zintix-labs/reelround/sdk/slot"
)

// PaytableEntry 一個符號在目前押注下的賠付（Pays[i] 對應 i+1 連線）
type PaytableEntry struct {
	Symbol  slot.SymbolID     `json:"symbol"`
	Name    string            `json:"name"`
	Wild    bool              `json:"wild,omitempty"`
	Scatter bool              `json:"scatter,omitempty"`
	Pays    []decimal.Decimal `json:"pays"`
}

// Paytable 賠付表
type Paytable struct {
	Bet             decimal.Decimal `json:"bet"`
	Symbols         []PaytableEntry `json:"symbols"`
	Paylines        []slot.Payline  `json:"paylines"`
	MinLineCount    int             `json:"min_line_count"`
	MinScatterCount int             `json:"min_scatter_count"`
	FreeSpins       int             `json:"free_spins"`
	MaxWinX         int             `json:"max_win_x"`
	MaxWin          decimal.Decimal `json:"max_win"`
	Jackpot         decimal.Decimal `json:"jackpot"`
}

// Paytable 以目前押注換算的賠付表
func (s *Session) Paytable() Paytable {
	bet := s.Bet()
	syms := s.eval.Symbols().Symbols()
	pt := Paytable{
		Bet:             bet,
		Symbols:         make([]PaytableEntry, 0, len(syms)),
		Paylines:        append([]slot.Payline(nil), s.eval.Paylines()...),
		MinLineCount:    calc.MinLineCount,
		MinScatterCount: calc.MinScatterCount,
		FreeSpins:       s.gs.Bonus.FreeSpins,
		MaxWinX:         s.gs.MaxWinX,
		MaxWin:          bet.Mul(s.capX),
		Jackpot:         s.pool.Value(),
	}
	for _, sym := range syms {
		e := PaytableEntry{
			Symbol:  sym.ID,
			Name:    sym.Name,
			Wild:    sym.Wild,
			Scatter: sym.Scatter,
			Pays:    make([]decimal.Decimal, len(sym.Pays)),
		}
		for i, p := range sym.Pays {
			e.Pays[i] = bet.Mul(decimal.NewFromInt(int64(p)))
		}
		pt.Symbols = append(pt.Symbols, e)
	}
	return pt
}
