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

import "github.com/shopspring/decimal"

// GambleHistoryLen 保留最近幾次翻牌結果
const GambleHistoryLen = 5

type gambleState struct {
	stake decimal.Decimal
}

// GambleStart 把上一局的派彩押進加倍遊戲。
// 條件：Idle、上一局派彩 > 0、不是彩金回饋、派彩未達上限、非自動轉動。
func (s *Session) GambleStart() Reason {
	if r := s.idleBlocked(); r != ReasonOK {
		return r
	}
	if s.auto.active {
		return ReasonAutoplayActive
	}
	if s.freeSpins > 0 {
		return ReasonFreeSpinsPending
	}
	if !s.lastWin.IsPositive() {
		return ReasonNoWin
	}
	if s.feedback == FeedbackJackpot || s.lastJP.IsPositive() {
		return ReasonJackpotFeedback
	}
	if s.lastWin.GreaterThanOrEqual(s.gambleCap()) {
		return ReasonMaxWin
	}
	s.balance = s.balance.Sub(s.lastWin)
	s.gamble = &gambleState{stake: s.lastWin}
	s.phase = PhaseGambling
	s.notify.Notify(EventClick)
	s.changed()
	return ReasonOK
}

// GambleGuess 公平翻牌；猜中押注加倍（仍押著），猜錯輸掉押注回到 Idle。
// 加倍後達到上限時自動收回。
func (s *Session) GambleGuess(c Choice) Reason {
	if s.phase != PhaseGambling || s.gamble == nil {
		return ReasonNotGambling
	}
	card := Red
	if s.core.Coin() {
		card = Black
	}
	s.gambleHist = append(s.gambleHist, card)
	if n := len(s.gambleHist); n > GambleHistoryLen {
		s.gambleHist = append(s.gambleHist[:0], s.gambleHist[n-GambleHistoryLen:]...)
	}

	if card != c {
		s.log.Debug("gamble lost", "stake", s.gamble.stake.String())
		s.gamble = nil
		s.lastWin = decimal.Zero
		s.phase = PhaseIdle
		s.notify.Notify(EventGambleLose)
		s.changed()
		return ReasonOK
	}

	s.gamble.stake = s.gamble.stake.Mul(decimal.NewFromInt(2))
	s.lastWin = s.gamble.stake
	s.notify.Notify(EventGambleWin)
	if s.gamble.stake.GreaterThanOrEqual(s.gambleCap()) {
		s.log.Debug("gamble auto collect at cap", "stake", s.gamble.stake.String())
		s.collect()
		return ReasonOK
	}
	s.changed()
	return ReasonOK
}

// GambleCollect 收回押注，清除上一局派彩
func (s *Session) GambleCollect() Reason {
	if s.phase != PhaseGambling || s.gamble == nil {
		return ReasonNotGambling
	}
	s.notify.Notify(EventClick)
	s.collect()
	return ReasonOK
}

func (s *Session) collect() {
	s.balance = s.balance.Add(s.gamble.stake)
	s.gamble = nil
	s.lastWin = decimal.Zero
	s.phase = PhaseIdle
	s.changed()
}

func (s *Session) gambleCap() decimal.Decimal {
	bet := s.lastBet
	if bet.IsZero() {
		bet = s.Bet()
	}
	return bet.Mul(s.capX)
}

// GambleHistory 最近的翻牌結果，舊到新
func (s *Session) GambleHistory() []Choice {
	return append([]Choice(nil), s.gambleHist...)
}
