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
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/sdk/calc"
	"github.com/zintix-labs/reelround/sdk/slot"
)

// Snapshot 可觀察狀態的複本，交給 Renderer 與 shell
type Snapshot struct {
	Game          string            `json:"game"`
	Phase         Phase             `json:"phase"`
	Round         uint64            `json:"round"`
	Balance       decimal.Decimal   `json:"balance"`
	Bet           decimal.Decimal   `json:"bet"`
	BetLevels     []decimal.Decimal `json:"bet_levels"`
	Grid          slot.Grid         `json:"grid"`     // 已揭示的軸來自本局，其餘仍是上一局
	Revealed      int               `json:"revealed"` // 已揭示的軸數
	LastWin       decimal.Decimal   `json:"last_win"`
	Wins          []calc.Win        `json:"wins"`
	Feedback      Feedback          `json:"feedback"`
	FreeSpins     int               `json:"free_spins"`
	FreeSpin      bool              `json:"free_spin"` // 本局（或上一局）是否為免費轉動
	Jackpot       decimal.Decimal   `json:"jackpot"`
	JackpotWin    decimal.Decimal   `json:"jackpot_win"`
	Autoplay      AutoplaySnapshot  `json:"autoplay"`
	Gamble        *GambleSnapshot   `json:"gamble,omitempty"`
	GambleHistory []Choice          `json:"gamble_history"`
	Clock         time.Duration     `json:"clock"`
}

// GambleSnapshot 加倍遊戲中的押注
type GambleSnapshot struct {
	Stake decimal.Decimal `json:"stake"`
	Cap   decimal.Decimal `json:"cap"`
}

// Snapshot 取得目前狀態
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Game:          s.gs.GameName,
		Phase:         s.phase,
		Round:         s.rounds,
		Balance:       s.balance,
		Bet:           s.Bet(),
		BetLevels:     append([]decimal.Decimal(nil), s.levels...),
		Grid:          s.grid.Clone(),
		Revealed:      s.grid.Cols,
		LastWin:       s.lastWin,
		Wins:          append([]calc.Win(nil), s.wins...),
		Feedback:      s.feedback,
		FreeSpins:     s.freeSpins,
		FreeSpin:      s.lastFree,
		Jackpot:       s.pool.Value(),
		JackpotWin:    s.lastJP,
		Autoplay:      s.autoSnapshot(),
		GambleHistory: s.GambleHistory(),
		Clock:         s.sched.now,
	}
	if r := s.round; r != nil {
		snap.FreeSpin = r.free
		snap.Revealed = r.revealed
		for col := 0; col < r.revealed; col++ {
			copy(snap.Grid.Cells[col*r.grid.Rows:(col+1)*r.grid.Rows], r.grid.Column(col))
		}
	}
	if s.gamble != nil {
		snap.Gamble = &GambleSnapshot{Stake: s.gamble.stake, Cap: s.gambleCap()}
	}
	return snap
}
