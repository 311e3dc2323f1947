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

// RoundResult 一局結算後的完整紀錄
type RoundResult struct {
	Round            uint64          `json:"round"`
	Free             bool            `json:"free"`
	Bet              decimal.Decimal `json:"bet"`
	Grid             slot.Grid       `json:"grid"`
	Wins             []calc.Win      `json:"wins"`
	ScatterCount     int             `json:"scatter_count"`
	LineWin          decimal.Decimal `json:"line_win"`
	ScatterWin       decimal.Decimal `json:"scatter_win"`
	JackpotWin       decimal.Decimal `json:"jackpot_win"`
	Payout           decimal.Decimal `json:"payout"`       // 線獎 + 分散獎 + 彩金
	Contribution     decimal.Decimal `json:"contribution"` // 本局提撥進彩金池的金額
	JackpotHit       bool            `json:"jackpot_hit"`
	BonusTriggered   bool            `json:"bonus_triggered"`
	FreeSpinsAwarded int             `json:"free_spins_awarded"`
	MaxWin           bool            `json:"max_win"`
	Feedback         Feedback        `json:"feedback"`
	QuickStopped     bool            `json:"quick_stopped"`
	Balance          decimal.Decimal `json:"balance"` // 結算後
	Jackpot          decimal.Decimal `json:"jackpot"` // 結算後
}

// Multiple 派彩 / 押注
func (r *RoundResult) Multiple() decimal.Decimal {
	if r.Bet.IsZero() {
		return decimal.Zero
	}
	return r.Payout.Div(r.Bet)
}
