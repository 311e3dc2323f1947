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
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/jackpot"
	"github.com/zintix-labs/reelround/sdk/calc"
	"github.com/zintix-labs/reelround/sdk/core"
	"github.com/zintix-labs/reelround/sdk/gen"
	"github.com/zintix-labs/reelround/sdk/slot"
)

// Session 單一玩家的回合狀態機，不可併發使用；外層需自行序列化呼叫。
type Session struct {
	gs       *gamecfg.GameSetting
	core     *core.Core
	seed     int64
	gen      *gen.GridGenerator
	eval     *calc.Evaluator
	pool     *jackpot.Pool
	log      *slog.Logger
	render   Renderer
	notify   Notifier
	observer func(RoundResult)
	sched    *scheduler

	phase     Phase
	balance   decimal.Decimal
	levels    []decimal.Decimal
	betIdx    int
	bigX      decimal.Decimal
	megaX     decimal.Decimal
	capX      decimal.Decimal
	grid      slot.Grid // 上一局（或初始）顯示的盤面
	round     *round    // 進行中的回合，Idle/Cooldown/Gambling 時為 nil
	rounds    uint64
	freeSpins int
	cooldown  timerID
	turbo     bool // 本局以 turbo 表演

	lastWin    decimal.Decimal
	lastBet    decimal.Decimal
	lastFree   bool
	lastJP     decimal.Decimal
	wins       []calc.Win
	feedback   Feedback
	last       RoundResult
	hasLast    bool
	gamble     *gambleState
	gambleHist []Choice
	auto       autoState
}

// round 已決定結果、正在表演的一局
type round struct {
	no       uint64
	free     bool
	bet      decimal.Decimal
	contrib  decimal.Decimal
	grid     slot.Grid
	revealed int
	timers   []timerID
	quick    bool
}

// Spin 開始一局。免費轉動不扣款也不提撥彩金池；付費轉動扣 bet 並提撥 bet × 提撥率。
// 盤面在此立即產生，之後的計時只負責逐軸揭示。
func (s *Session) Spin() Reason {
	if r := s.spinBlocked(true); r != ReasonOK {
		return r
	}
	s.notify.Notify(EventClick)
	s.startRound()
	return ReasonOK
}

func (s *Session) spinBlocked(manual bool) Reason {
	switch s.phase {
	case PhaseCooldown:
		return ReasonCooldown
	case PhaseSpinning, PhaseResolving:
		return ReasonRoundInFlight
	case PhaseGambling:
		return ReasonGambling
	}
	if manual && s.auto.active {
		return ReasonAutoplayActive
	}
	if s.freeSpins == 0 && s.balance.LessThan(s.Bet()) {
		return ReasonInsufficientFunds
	}
	return ReasonOK
}

func (s *Session) startRound() {
	r := &round{bet: s.Bet(), contrib: decimal.Zero}
	if s.freeSpins > 0 {
		s.freeSpins--
		r.free = true
	} else {
		s.balance = s.balance.Sub(r.bet)
		r.contrib = s.pool.Contribute(r.bet)
	}
	s.rounds++
	r.no = s.rounds
	s.turbo = s.auto.active && s.auto.cfg.Turbo
	// 免費轉動使用高波動權重
	r.grid = s.gen.Generate(r.free)
	s.round = r
	s.phase = PhaseSpinning
	s.lastWin = decimal.Zero
	s.lastJP = decimal.Zero
	s.wins = nil
	s.feedback = FeedbackNone
	s.notify.Notify(EventSpinStart)

	t := &s.gs.Timing
	for col := 0; col < r.grid.Cols; col++ {
		c := col
		d := s.scale(t.RevealDelay + time.Duration(col)*t.RevealStep)
		r.timers = append(r.timers, s.sched.after(d, func() { s.reveal(r, c) }))
	}
	s.changed()
}

// reveal 揭示第 col 軸；最後一軸揭示後等待 Settle 再結算
func (s *Session) reveal(r *round, col int) {
	if s.round != r || s.phase != PhaseSpinning {
		return
	}
	r.revealed = col + 1
	s.notify.Notify(EventReelStop)
	if r.revealed == r.grid.Cols {
		r.timers = append(r.timers, s.sched.after(s.scale(s.gs.Timing.Settle), func() { s.resolve(r) }))
	}
	s.changed()
}

// QuickStop 取消剩餘的揭示計時，立即以已決定的盤面結算
func (s *Session) QuickStop() Reason {
	if s.phase != PhaseSpinning || s.round == nil {
		return ReasonNotSpinning
	}
	r := s.round
	for _, id := range r.timers {
		s.sched.cancel(id)
	}
	r.timers = nil
	r.quick = true
	if r.revealed < r.grid.Cols {
		r.revealed = r.grid.Cols
		s.notify.Notify(EventReelStop)
	}
	s.resolve(r)
	return ReasonOK
}

func (s *Session) resolve(r *round) {
	if s.round != r || s.phase != PhaseSpinning {
		return
	}
	s.phase = PhaseResolving
	r.revealed = r.grid.Cols

	res := s.eval.Evaluate(r.grid, r.bet)
	payout := res.Total
	jp := decimal.Zero
	hit := s.pool.Roll(s.core)
	if hit {
		jp = s.pool.Award()
		payout = payout.Add(jp)
	}
	bonus := res.ScatterCount >= calc.MinScatterCount
	awarded := 0
	if bonus {
		awarded = s.gs.Bonus.FreeSpins
		s.freeSpins += awarded
	}
	if payout.IsPositive() {
		s.balance = s.balance.Add(payout)
	}
	maxWin := payout.GreaterThanOrEqual(r.bet.Mul(s.capX))
	if maxWin {
		s.freeSpins = 0
	}
	fb := s.classify(payout, r.bet, hit, bonus, maxWin)

	s.grid = r.grid
	s.round = nil
	s.lastWin = payout
	s.lastBet = r.bet
	s.lastFree = r.free
	s.lastJP = jp
	s.wins = res.Wins
	s.feedback = fb

	rr := RoundResult{
		Round:            r.no,
		Free:             r.free,
		Bet:              r.bet,
		Grid:             r.grid,
		Wins:             res.Wins,
		ScatterCount:     res.ScatterCount,
		LineWin:          res.LineWin(),
		ScatterWin:       res.ScatterWin(),
		JackpotWin:       jp,
		Payout:           payout,
		Contribution:     r.contrib,
		JackpotHit:       hit,
		BonusTriggered:   bonus,
		FreeSpinsAwarded: awarded,
		MaxWin:           maxWin,
		Feedback:         fb,
		QuickStopped:     r.quick,
		Balance:          s.balance,
		Jackpot:          s.pool.Value(),
	}
	s.last, s.hasLast = rr, true

	s.emitFeedback(hit, bonus, fb)
	s.logRound(&rr)
	if maxWin {
		s.haltAutoplay(StopMaxWin)
	}
	s.autoAfterRound(&rr)
	if s.observer != nil {
		s.observer(rr)
	}
	s.enterCooldown(fb)
}

// classify 依優先序決定回饋；彩金與免費轉動會蓋過一般大獎
func (s *Session) classify(payout, bet decimal.Decimal, hit, bonus, maxWin bool) Feedback {
	switch {
	case maxWin:
		return FeedbackMaxWin
	case hit:
		return FeedbackJackpot
	case bonus:
		return FeedbackBonus
	case payout.GreaterThanOrEqual(bet.Mul(s.megaX)):
		return FeedbackMegaWin
	case payout.GreaterThan(bet.Mul(s.bigX)):
		return FeedbackBigWin
	case payout.IsPositive():
		return FeedbackSmallWin
	}
	return FeedbackNone
}

func (s *Session) emitFeedback(hit, bonus bool, fb Feedback) {
	if hit {
		s.notify.Notify(EventJackpot)
	}
	if bonus {
		s.notify.Notify(EventBonus)
	}
	if hit || bonus {
		return
	}
	switch fb {
	case FeedbackMaxWin, FeedbackMegaWin, FeedbackBigWin:
		s.notify.Notify(EventWinBig)
	case FeedbackSmallWin:
		s.notify.Notify(EventWinSmall)
	}
}

func (s *Session) logRound(rr *RoundResult) {
	s.log.Debug("round resolved",
		"round", rr.Round,
		"free", rr.Free,
		"bet", rr.Bet.String(),
		"payout", rr.Payout.String(),
		"scatters", rr.ScatterCount,
		"balance", rr.Balance.String(),
		"jackpot", rr.Jackpot.String(),
	)
	if rr.JackpotHit {
		s.log.Info("jackpot hit", "round", rr.Round, "amount", rr.JackpotWin.String())
	}
	if rr.BonusTriggered {
		s.log.Info("bonus triggered", "round", rr.Round, "free_spins", s.freeSpins)
	}
	if rr.MaxWin {
		s.log.Info("max win reached", "round", rr.Round, "payout", rr.Payout.String(), "cap_x", s.gs.MaxWinX)
	}
}

func (s *Session) enterCooldown(fb Feedback) {
	s.phase = PhaseCooldown
	d := s.gs.Timing.Cooldown
	if fb.featured() {
		d = s.gs.Timing.FeatureCooldown
	}
	s.cooldown = s.sched.after(s.scale(d), s.exitCooldown)
	s.changed()
}

// exitCooldown 回到 Idle；仍有免費轉動時自動開下一局，否則交給自動轉動
func (s *Session) exitCooldown() {
	s.cooldown = 0
	if s.phase != PhaseCooldown {
		return
	}
	s.phase = PhaseIdle
	if s.freeSpins > 0 {
		s.startRound()
		return
	}
	if s.auto.active {
		s.scheduleAuto()
	}
	s.changed()
}

// scale turbo 自動轉動的回合縮短所有表演時間，包含該局的冷卻
func (s *Session) scale(d time.Duration) time.Duration {
	return s.gs.Timing.Scale(d, s.turbo)
}

func (s *Session) changed() {
	if s.render != nil {
		s.render(s.Snapshot())
	}
}

// idleBlocked 非 Idle 時對應的拒絕原因
func (s *Session) idleBlocked() Reason {
	switch s.phase {
	case PhaseCooldown:
		return ReasonCooldown
	case PhaseSpinning, PhaseResolving:
		return ReasonRoundInFlight
	case PhaseGambling:
		return ReasonGambling
	}
	return ReasonOK
}

// Bet 目前押注
func (s *Session) Bet() decimal.Decimal { return s.levels[s.betIdx] }

// SetBet 只能在 Idle、沒有待轉的免費轉動、非自動轉動時變更；b 必須是設定中的押注等級
func (s *Session) SetBet(b decimal.Decimal) Reason {
	if r := s.betBlocked(); r != ReasonOK {
		return r
	}
	for i, lv := range s.levels {
		if lv.Equal(b) {
			s.betIdx = i
			s.notify.Notify(EventClick)
			s.changed()
			return ReasonOK
		}
	}
	return ReasonInvalidBet
}

// BetUp 換到下一個較高的押注等級
func (s *Session) BetUp() Reason { return s.stepBet(1) }

// BetDown 換到下一個較低的押注等級
func (s *Session) BetDown() Reason { return s.stepBet(-1) }

func (s *Session) stepBet(delta int) Reason {
	if r := s.betBlocked(); r != ReasonOK {
		return r
	}
	i := s.betIdx + delta
	if i < 0 || i >= len(s.levels) {
		return ReasonInvalidBet
	}
	s.betIdx = i
	s.notify.Notify(EventClick)
	s.changed()
	return ReasonOK
}

func (s *Session) betBlocked() Reason {
	if r := s.idleBlocked(); r != ReasonOK {
		return r
	}
	if s.freeSpins > 0 {
		return ReasonFreeSpinsPending
	}
	if s.auto.active {
		return ReasonAutoplayActive
	}
	return ReasonOK
}

// Advance 虛擬時鐘前進 d，依序觸發到期的計時
func (s *Session) Advance(d time.Duration) {
	s.sched.advance(d)
}

// Settle 觸發所有待處理的計時直到沒有計時為止，回傳經過的虛擬時間。
// 結束時 Session 必為 Idle 或 Gambling。給無頭模式與模擬器使用。
func (s *Session) Settle() time.Duration {
	start := s.sched.now
	for s.sched.fireNext() {
	}
	return s.sched.now - start
}

// Now 虛擬時鐘
func (s *Session) Now() time.Duration { return s.sched.now }

// NextTimer 下一個計時的剩餘時間
func (s *Session) NextTimer() (time.Duration, bool) { return s.sched.peek() }

// Phase 目前狀態
func (s *Session) Phase() Phase { return s.phase }

// Balance 目前餘額
func (s *Session) Balance() decimal.Decimal { return s.balance }

// FreeSpins 剩餘免費轉動
func (s *Session) FreeSpins() int { return s.freeSpins }

// Jackpot 目前彩金池
func (s *Session) Jackpot() decimal.Decimal { return s.pool.Value() }

// LastWin 上一局的派彩（加倍遊戲中為目前押上的金額）
func (s *Session) LastWin() decimal.Decimal { return s.lastWin }

// LastRound 上一局的完整結果
func (s *Session) LastRound() (RoundResult, bool) { return s.last, s.hasLast }

// Seed 建立時使用的 PRNG seed（WithCore 注入時為 0）
func (s *Session) Seed() int64 { return s.seed }

// restingGrid 第一局開始前顯示的盤面：非 scatter 符號依序排列
func restingGrid(gs *gamecfg.GameSetting) slot.Grid {
	st := gs.SymbolTable()
	ids := make([]slot.SymbolID, 0, st.Len())
	for _, sym := range st.Symbols() {
		if !sym.Scatter && !sym.Wild {
			ids = append(ids, sym.ID)
		}
	}
	if len(ids) == 0 {
		ids = append(ids, st.At(0).ID)
	}
	g := slot.NewGrid(gs.Grid.Cols, gs.Grid.Rows)
	for i := range g.Cells {
		g.Cells[i] = ids[i%len(ids)]
	}
	return g
}
