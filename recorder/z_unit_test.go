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

package recorder

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/stats"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func paid(bet, pay float64) Round {
	return Round{Bet: d(bet), Payout: d(pay), JackpotWin: decimal.Zero}
}

func free(bet, pay float64) Round {
	return Round{Free: true, Bet: d(bet), Payout: d(pay), JackpotWin: decimal.Zero}
}

func TestFreeRoundsFoldIntoPaidSpin(t *testing.T) {
	r, err := NewRoundRecorder("g", d(2), 0)
	if err != nil {
		t.Fatal(err)
	}
	trig := paid(2, 4)
	trig.Bonus = true
	r.Record(trig)
	r.Record(free(2, 10))
	r.Record(free(2, 6))
	r.EndSpin(decimal.Zero)
	r.Record(paid(2, 0))
	r.EndSpin(decimal.Zero)

	rep := r.Done()
	sm := rep.Summary
	if sm.Rounds != 2 || sm.FreeRounds != 2 {
		t.Fatalf("rounds got %d free %d", sm.Rounds, sm.FreeRounds)
	}
	if sm.TotalBet != 4 || sm.TotalWin != 20 || sm.BaseWin != 4 || sm.FreeWin != 16 {
		t.Fatalf("money got bet %.2f win %.2f base %.2f free %.2f", sm.TotalBet, sm.TotalWin, sm.BaseWin, sm.FreeWin)
	}
	if sm.Trigger != 1 || sm.TriggerRate != 0.5 {
		t.Fatalf("trigger got %d rate %.2f", sm.Trigger, sm.TriggerRate)
	}
	if sm.RTP != 5 {
		t.Fatalf("rtp got %.3f", sm.RTP)
	}
	// 第一筆贏 10 倍，第二筆 0 倍
	labels := stats.Buckets.WinBucketStr()
	if rep.Dist.TotalWinCollect[0] != 1 || rep.Dist.TotalWinCollect[stats.Buckets.Index(10)] != 1 {
		t.Fatalf("dist got %v (%v)", rep.Dist.TotalWinCollect, labels)
	}
	if rep.Mult.TotalWinMultSqSum != 100 {
		t.Fatalf("sq sum got %.3f", rep.Mult.TotalWinMultSqSum)
	}
}

func TestJackpotAndMaxWinCountedOncePerSpin(t *testing.T) {
	r, _ := NewRoundRecorder("g", d(1), 0)
	rd := paid(1, 500)
	rd.Jackpot, rd.JackpotWin = true, d(400)
	r.Record(rd)
	fr := free(1, 300)
	fr.Jackpot, fr.JackpotWin, fr.MaxWin = true, d(250), true
	r.Record(fr)
	rep := r.Done()
	if rep.Summary.JackpotHits != 1 || rep.Summary.MaxWinHits != 1 {
		t.Fatalf("hits got jp %d max %d", rep.Summary.JackpotHits, rep.Summary.MaxWinHits)
	}
	if rep.Summary.JackpotWin != 650 {
		t.Fatalf("jackpot win got %.2f", rep.Summary.JackpotWin)
	}
}

func TestPlayerLeaves(t *testing.T) {
	r, _ := NewRoundRecorder("g", d(1), 10)
	if r.Player.InitBalance.String() != "10" {
		t.Fatalf("init balance got %s", r.Player.InitBalance)
	}
	r.Record(paid(1, 0))
	if r.EndSpin(d(9)) {
		t.Fatalf("should keep playing at 9")
	}
	r.Record(paid(1, 22))
	if !r.EndSpin(d(30)) || !r.Player.Cashout {
		t.Fatalf("should cash out at 3x")
	}

	b, _ := NewRoundRecorder("g", d(1), 1)
	b.Record(paid(1, 0))
	if !b.EndSpin(decimal.Zero) || !b.Player.Bust {
		t.Fatalf("should bust at 0")
	}
	rep := b.Done()
	if !rep.Player.Bust || rep.Player.Alive || rep.Player.MinBalance != 0 {
		t.Fatalf("player report got %+v", rep.Player)
	}
}

func TestMerge(t *testing.T) {
	a, _ := NewRoundRecorder("g", d(1), 0)
	b, _ := NewRoundRecorder("g", d(1), 0)
	a.Record(paid(1, 3))
	b.Record(paid(1, 0))
	b.Record(paid(1, 1))
	m, err := MergeRoundRecorder([]*RoundRecorder{a, b})
	if err != nil {
		t.Fatal(err)
	}
	rep := m.Done()
	if rep.Summary.Rounds != 3 || rep.Summary.TotalWin != 4 || rep.Summary.NoWinRounds != 1 {
		t.Fatalf("merged got %+v", rep.Summary)
	}

	c, _ := NewRoundRecorder("g", d(2), 0)
	if _, err := MergeRoundRecorder([]*RoundRecorder{a, c}); err == nil {
		t.Fatalf("different bet should fail")
	}
	if _, err := NewRoundRecorder("g", decimal.Zero, 0); err == nil {
		t.Fatalf("zero bet should fail")
	}
}
