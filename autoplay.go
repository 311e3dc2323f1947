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

// AutoplayConfig 自動轉動設定。限制值為 nil 表示不設限。
type AutoplayConfig struct {
	Spins          int              `json:"spins"`
	StopOnWin      bool             `json:"stop_on_win"`
	StopOnBonus    bool             `json:"stop_on_bonus"`
	SingleWinLimit *decimal.Decimal `json:"single_win_limit,omitempty"`
	LossLimit      *decimal.Decimal `json:"loss_limit,omitempty"`
	Turbo          bool             `json:"turbo"`
}

// DefaultAutoplay 預設中獎與免費轉動時停止
func DefaultAutoplay(spins int) AutoplayConfig {
	return AutoplayConfig{Spins: spins, StopOnWin: true, StopOnBonus: true}
}

// Valid 局數 > 0，限制值若有設定需 > 0
func (c *AutoplayConfig) Valid() bool {
	if c.Spins <= 0 {
		return false
	}
	if c.SingleWinLimit != nil && !c.SingleWinLimit.IsPositive() {
		return false
	}
	if c.LossLimit != nil && !c.LossLimit.IsPositive() {
		return false
	}
	return true
}

type autoState struct {
	active       bool
	cfg          AutoplayConfig
	remaining    int
	startBalance decimal.Decimal
	stop         StopReason
	gen          uint64 // 每次停止遞增，讓已排程的轉動失效
	timer        timerID
}

// StartAutoplay 從 Idle 開始自動轉動，並立即發出第一局
func (s *Session) StartAutoplay(cfg AutoplayConfig) Reason {
	if r := s.idleBlocked(); r != ReasonOK {
		return r
	}
	if s.auto.active {
		return ReasonAutoplayActive
	}
	if s.freeSpins > 0 {
		return ReasonFreeSpinsPending
	}
	if !cfg.Valid() {
		return ReasonInvalidConfig
	}
	if s.balance.LessThan(s.Bet()) {
		return ReasonInsufficientFunds
	}
	s.auto = autoState{
		active:       true,
		cfg:          cfg,
		remaining:    cfg.Spins,
		startBalance: s.balance,
		gen:          s.auto.gen + 1,
	}
	s.log.Info("autoplay started", "spins", cfg.Spins, "turbo", cfg.Turbo)
	s.notify.Notify(EventClick)
	s.startRound()
	return ReasonOK
}

// StopAutoplay 手動停止；已在進行的那一局照常結算，之後不再發出新局
func (s *Session) StopAutoplay() Reason {
	if !s.auto.active {
		return ReasonAutoplayInactive
	}
	s.haltAutoplay(StopManual)
	s.notify.Notify(EventClick)
	s.changed()
	return ReasonOK
}

func (s *Session) haltAutoplay(why StopReason) {
	if !s.auto.active {
		return
	}
	s.auto.active = false
	s.auto.stop = why
	s.auto.gen++
	if s.auto.timer != 0 {
		s.sched.cancel(s.auto.timer)
		s.auto.timer = 0
	}
	s.log.Info("autoplay stopped", "reason", why.String(), "remaining", s.auto.remaining)
}

// autoAfterRound 每局結算後依優先序檢查停止條件
func (s *Session) autoAfterRound(rr *RoundResult) {
	if !s.auto.active {
		return
	}
	cfg := &s.auto.cfg
	switch {
	case rr.JackpotHit:
		s.haltAutoplay(StopJackpot)
	case rr.BonusTriggered && cfg.StopOnBonus:
		s.haltAutoplay(StopBonus)
	case cfg.StopOnWin && rr.Payout.IsPositive():
		s.haltAutoplay(StopWin)
	case cfg.SingleWinLimit != nil && rr.Payout.GreaterThan(*cfg.SingleWinLimit):
		s.haltAutoplay(StopSingleWinLimit)
	case cfg.LossLimit != nil && s.auto.startBalance.Sub(s.balance).GreaterThanOrEqual(*cfg.LossLimit):
		s.haltAutoplay(StopLossLimit)
	default:
		if !rr.Free {
			s.auto.remaining--
		}
		if s.auto.remaining <= 0 {
			s.haltAutoplay(StopExhausted)
		}
	}
}

// scheduleAuto 冷卻結束後隔 AutoplayGap 發出下一局
func (s *Session) scheduleAuto() {
	gen := s.auto.gen
	s.auto.timer = s.sched.after(s.scale(s.gs.Timing.AutoplayGap), func() { s.autoFire(gen) })
}

func (s *Session) autoFire(gen uint64) {
	s.auto.timer = 0
	if !s.auto.active || gen != s.auto.gen || s.phase != PhaseIdle || s.freeSpins > 0 {
		return
	}
	if s.balance.LessThan(s.Bet()) {
		s.haltAutoplay(StopInsufficientFunds)
		s.changed()
		return
	}
	s.startRound()
}

// AutoplaySnapshot 自動轉動的可觀察狀態
type AutoplaySnapshot struct {
	Active    bool            `json:"active"`
	Remaining int             `json:"remaining"`
	Turbo     bool            `json:"turbo"`
	Stop      StopReason      `json:"stop"`
	Config    *AutoplayConfig `json:"config,omitempty"`
}

func (s *Session) autoSnapshot() AutoplaySnapshot {
	a := AutoplaySnapshot{
		Active:    s.auto.active,
		Remaining: s.auto.remaining,
		Turbo:     s.auto.active && s.auto.cfg.Turbo,
		Stop:      s.auto.stop,
	}
	if s.auto.active {
		cfg := s.auto.cfg
		a.Config = &cfg
	}
	return a
}
