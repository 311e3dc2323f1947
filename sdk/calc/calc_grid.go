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

// Package calc 計算盤面得分。
//
// Evaluate 是純函數：同一個盤面與押注永遠得到同一個結果，不持有可變狀態，
// 可以在多個 goroutine 間共用同一個 Evaluator。
package calc

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/sdk/slot"
)

const (
	// ScatterLine 分散符號得分的線號哨兵值
	ScatterLine = -1
	// MinLineCount 賠付線最少連線數
	MinLineCount = 2
	// MinScatterCount 分散符號最少出現次數
	MinScatterCount = 3
)

// Win 單筆得分
type Win struct {
	Amount decimal.Decimal `json:"amount"`
	Line   int             `json:"line"`
	Symbol slot.SymbolID   `json:"symbol"`
	Count  int             `json:"count"`
	Cells  []int           `json:"cells"` // 盤面攤平索引 col*rows+row
}

// IsScatter 是否為分散符號得分
func (w *Win) IsScatter() bool { return w.Line == ScatterLine }

// Result 一個盤面的計算結果
type Result struct {
	Total        decimal.Decimal `json:"total"`
	Wins         []Win           `json:"wins"`
	ScatterCount int             `json:"scatter_count"`
}

// LineWin 賠付線得分合計
func (r *Result) LineWin() decimal.Decimal {
	sum := decimal.Zero
	for i := range r.Wins {
		if !r.Wins[i].IsScatter() {
			sum = sum.Add(r.Wins[i].Amount)
		}
	}
	return sum
}

// ScatterWin 分散符號得分
func (r *Result) ScatterWin() decimal.Decimal {
	for i := range r.Wins {
		if r.Wins[i].IsScatter() {
			return r.Wins[i].Amount
		}
	}
	return decimal.Zero
}

// Evaluator 依符號表與賠付線計分
type Evaluator struct {
	st    *slot.SymbolTable
	lines []slot.Payline
}

// NewEvaluator 建立計分器；lines 需已通過 slot.ValidatePaylines
func NewEvaluator(st *slot.SymbolTable, lines []slot.Payline) (*Evaluator, error) {
	if st == nil {
		return nil, errs.NewFatal("calc: symbol table is required")
	}
	if len(lines) == 0 {
		return nil, errs.NewFatal("calc: at least one payline is required")
	}
	return &Evaluator{st: st, lines: lines}, nil
}

// Evaluate 計算盤面總得分與明細
func (e *Evaluator) Evaluate(g slot.Grid, bet decimal.Decimal) Result {
	res := Result{Total: decimal.Zero}
	for i := range e.lines {
		if w, ok := e.calcLine(g, &e.lines[i], bet); ok {
			res.Wins = append(res.Wins, w)
			res.Total = res.Total.Add(w.Amount)
		}
	}
	w, count, ok := e.calcScatter(g, bet)
	res.ScatterCount = count
	if ok {
		res.Wins = append(res.Wins, w)
		res.Total = res.Total.Add(w.Amount)
	}
	return res
}

// Paylines 回傳賠付線（唯讀）
func (e *Evaluator) Paylines() []slot.Payline { return e.lines }

// Symbols 回傳符號表
func (e *Evaluator) Symbols() *slot.SymbolTable { return e.st }
