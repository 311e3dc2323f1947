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

// Package recorder 把 Session 逐局回報的結算累積成 stats.StatReport。
//
// 樣本單位是「一次付費轉動」：付費局與其觸發、串接完成的免費局合併成一筆。
package recorder

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/stats"
)

// Round 單局結算中統計需要的欄位
type Round struct {
	Free       bool
	Bet        decimal.Decimal
	Payout     decimal.Decimal // 含彩金
	JackpotWin decimal.Decimal
	Jackpot    bool
	Bonus      bool
	MaxWin     bool
}

type RoundRecorder struct {
	GameName string
	Bet      decimal.Decimal
	Basic    *BasicRecord
	Dist     *DistRecord
	Player   *PlayerRecord
	cur      spin
}

type BasicRecord struct {
	TotalBet       decimal.Decimal
	TotalWin       decimal.Decimal
	BaseWin        decimal.Decimal
	FreeWin        decimal.Decimal
	JackpotWin     decimal.Decimal
	TotalMult      float64
	BaseMult       float64
	FreeMult       float64
	JackpotMult    float64
	TotalMultSqSum float64 // 平方和
	BaseMultSqSum  float64 // 平方和
	FreeMultSqSum  float64 // 平方和
	Trigger        int
	JackpotHits    int
	MaxWinHits     int
	Rounds         int
	FreeRounds     int
}

type DistRecord struct {
	TotalWinCollect []int
	BaseWinCollect  []int
	FreeWinCollect  []int
}

type PlayerRecord struct {
	leaveLine   decimal.Decimal
	InitBalance decimal.Decimal
	Balance     decimal.Decimal
	MaxBalance  decimal.Decimal
	MinBalance  decimal.Decimal
	Bust        bool
	Cashout     bool
}

// spin 尚未結束的付費轉動
type spin struct {
	open    bool
	bet     decimal.Decimal
	base    decimal.Decimal
	free    decimal.Decimal
	jackpot decimal.Decimal
	frees   int
	trigger bool
	jpHit   bool
	maxWin  bool
}

// NewRoundRecorder 建立 recorder。initBets > 0 時同時追蹤玩家資金（本金 = bet × initBets）。
func NewRoundRecorder(name string, bet decimal.Decimal, initBets int) (*RoundRecorder, error) {
	if !bet.IsPositive() {
		return nil, errs.Warnf("bet must > 0, got %s", bet)
	}
	if initBets < 0 {
		return nil, errs.Warnf("init bets must not be negative, got %d", initBets)
	}
	r := &RoundRecorder{
		GameName: name,
		Bet:      bet,
		Basic:    newBasicRecord(),
		Dist:     newDistRecord(),
	}
	if initBets > 0 {
		r.Player = newPlayerRecord(bet, initBets)
	}
	return r, nil
}

// MergeRoundRecorder 合併多個 worker 的紀錄；玩家資金不合併
func MergeRoundRecorder(rs []*RoundRecorder) (*RoundRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge round record err : empty")
	}
	r0 := rs[0]
	out, err := NewRoundRecorder(r0.GameName, r0.Bet, 0)
	if err != nil {
		return nil, err
	}
	for _, v := range rs {
		if v.GameName != r0.GameName {
			return nil, errs.NewFatal("merge round record err : different game name")
		}
		if !v.Bet.Equal(r0.Bet) {
			return nil, errs.NewFatal("merge round record err : different bet")
		}
		v.flush()
		b, vb := out.Basic, v.Basic
		b.TotalBet = b.TotalBet.Add(vb.TotalBet)
		b.TotalWin = b.TotalWin.Add(vb.TotalWin)
		b.BaseWin = b.BaseWin.Add(vb.BaseWin)
		b.FreeWin = b.FreeWin.Add(vb.FreeWin)
		b.JackpotWin = b.JackpotWin.Add(vb.JackpotWin)
		b.TotalMult += vb.TotalMult
		b.BaseMult += vb.BaseMult
		b.FreeMult += vb.FreeMult
		b.JackpotMult += vb.JackpotMult
		b.TotalMultSqSum += vb.TotalMultSqSum
		b.BaseMultSqSum += vb.BaseMultSqSum
		b.FreeMultSqSum += vb.FreeMultSqSum
		b.Trigger += vb.Trigger
		b.JackpotHits += vb.JackpotHits
		b.MaxWinHits += vb.MaxWinHits
		b.Rounds += vb.Rounds
		b.FreeRounds += vb.FreeRounds

		for i := range v.Dist.TotalWinCollect {
			out.Dist.TotalWinCollect[i] += v.Dist.TotalWinCollect[i]
			out.Dist.BaseWinCollect[i] += v.Dist.BaseWinCollect[i]
			out.Dist.FreeWinCollect[i] += v.Dist.FreeWinCollect[i]
		}
	}
	return out, nil
}

// Record 收一局結算。付費局會先結束上一筆付費轉動。
func (r *RoundRecorder) Record(rd Round) {
	c := &r.cur
	if !rd.Free {
		r.flush()
		*c = spin{open: true, bet: rd.Bet, base: rd.Payout, free: decimal.Zero, jackpot: rd.JackpotWin}
	} else {
		if !c.open {
			// 沒有付費局開頭的免費局自成一筆，以該局押注計
			*c = spin{open: true, bet: rd.Bet, base: decimal.Zero, free: decimal.Zero, jackpot: decimal.Zero}
		}
		c.free = c.free.Add(rd.Payout)
		c.jackpot = c.jackpot.Add(rd.JackpotWin)
		c.frees++
	}
	c.trigger = c.trigger || rd.Bonus
	c.jpHit = c.jpHit || rd.Jackpot
	c.maxWin = c.maxWin || rd.MaxWin
}

// EndSpin 在串接的局都結算後呼叫，回傳玩家是否該離場（破產或達離場線）。
// 沒有追蹤玩家時固定回傳 false。
func (r *RoundRecorder) EndSpin(balance decimal.Decimal) bool {
	r.flush()
	p := r.Player
	if p == nil {
		return false
	}
	p.Balance = balance
	if balance.GreaterThan(p.MaxBalance) {
		p.MaxBalance = balance
	}
	if balance.LessThan(p.MinBalance) {
		p.MinBalance = balance
	}
	if balance.LessThan(r.Bet) {
		p.Bust = true
		return true
	}
	if balance.GreaterThanOrEqual(p.leaveLine) {
		p.Cashout = true
		return true
	}
	return false
}

// Done 產出統計報告
func (r *RoundRecorder) Done() *stats.StatReport {
	r.flush()
	b := r.Basic
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    r.GameName,
			Bet:         r.Bet.InexactFloat64(),
			Rounds:      b.Rounds,
			FreeRounds:  b.FreeRounds,
			TotalBet:    b.TotalBet.InexactFloat64(),
			TotalWin:    b.TotalWin.InexactFloat64(),
			BaseWin:     b.BaseWin.InexactFloat64(),
			FreeWin:     b.FreeWin.InexactFloat64(),
			JackpotWin:  b.JackpotWin.InexactFloat64(),
			Trigger:     b.Trigger,
			JackpotHits: b.JackpotHits,
			MaxWinHits:  b.MaxWinHits,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      b.TotalMult,
			BaseWinMult:       b.BaseMult,
			FreeWinMult:       b.FreeMult,
			JackpotWinMult:    b.JackpotMult,
			TotalWinMultSqSum: b.TotalMultSqSum,
			BaseWinMultSqSum:  b.BaseMultSqSum,
			FreeWinMultSqSum:  b.FreeMultSqSum,
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.WinBucketStr(),
			TotalWinCollect: append([]int(nil), r.Dist.TotalWinCollect...),
			BaseWinCollect:  append([]int(nil), r.Dist.BaseWinCollect...),
			FreeWinCollect:  append([]int(nil), r.Dist.FreeWinCollect...),
		},
	}
	if p := r.Player; p != nil {
		report.Player = &stats.PlayerReport{
			InitBalance: p.InitBalance.InexactFloat64(),
			Balance:     p.Balance.InexactFloat64(),
			MaxBalance:  p.MaxBalance.InexactFloat64(),
			MinBalance:  p.MinBalance.InexactFloat64(),
			Bust:        p.Bust,
			Cashout:     p.Cashout,
		}
	}
	report.Done()
	return report
}

func (r *RoundRecorder) flush() {
	c := &r.cur
	if !c.open {
		return
	}
	b := r.Basic
	d := r.Dist
	total := c.base.Add(c.free)
	bm := c.base.Div(c.bet).InexactFloat64()
	fm := c.free.Div(c.bet).InexactFloat64()
	tm := bm + fm

	b.TotalBet = b.TotalBet.Add(c.bet)
	b.TotalWin = b.TotalWin.Add(total)
	b.BaseWin = b.BaseWin.Add(c.base)
	b.FreeWin = b.FreeWin.Add(c.free)
	b.JackpotWin = b.JackpotWin.Add(c.jackpot)
	b.TotalMult += tm
	b.BaseMult += bm
	b.FreeMult += fm
	b.JackpotMult += c.jackpot.Div(c.bet).InexactFloat64()
	b.TotalMultSqSum += tm * tm
	b.BaseMultSqSum += bm * bm
	b.FreeMultSqSum += fm * fm
	b.Rounds++
	b.FreeRounds += c.frees
	if c.trigger {
		b.Trigger++
	}
	if c.jpHit {
		b.JackpotHits++
	}
	if c.maxWin {
		b.MaxWinHits++
	}

	d.TotalWinCollect[stats.Buckets.Index(tm)]++
	d.BaseWinCollect[stats.Buckets.Index(bm)]++
	d.FreeWinCollect[stats.Buckets.Index(fm)]++

	*c = spin{}
}

func newBasicRecord() *BasicRecord {
	return &BasicRecord{
		TotalBet:   decimal.Zero,
		TotalWin:   decimal.Zero,
		BaseWin:    decimal.Zero,
		FreeWin:    decimal.Zero,
		JackpotWin: decimal.Zero,
	}
}

func newDistRecord() *DistRecord {
	n := stats.Buckets.Len()
	return &DistRecord{
		TotalWinCollect: make([]int, n),
		BaseWinCollect:  make([]int, n),
		FreeWinCollect:  make([]int, n),
	}
}

func newPlayerRecord(bet decimal.Decimal, initBets int) *PlayerRecord {
	b := bet.Mul(decimal.NewFromInt(int64(initBets))) // 初始帶入總金額
	return &PlayerRecord{
		leaveLine:   b.Mul(decimal.NewFromInt(3)), // 離場條件: 3 倍本金
		InitBalance: b,
		Balance:     b,
		MaxBalance:  b,
		MinBalance:  b,
	}
}
