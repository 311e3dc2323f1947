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

package stats

import (
	"io"
	"sort"

	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

// EstimatorPlayers 玩家體驗評估：每位玩家帶固定本金離場前的結局分布
type EstimatorPlayers struct {
	Players int         `json:"Players"`
	Rtp     RtpStat     `json:"Rtp"`
	Trigger EventCount  `json:"Trigger"`
	Session SessionStat `json:"Session"`
}

// PointStat 點估計與信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// RtpStat 玩家個人 RTP 的分位數
type RtpStat struct {
	Median PointStat `json:"Median"`
	P10    PointStat `json:"P10"`
	P90    PointStat `json:"P90"`
	Under1 PointStat `json:"Under1"` // 個人 RTP < 100% 的玩家比例
}

// EventCount 每位玩家觸發免費遊戲的次數分布
type EventCount struct {
	Zero PointStat `json:"Zero"`
	One  PointStat `json:"One"`
	More PointStat `json:"More"`
}

// SessionStat 玩家離場原因比例
type SessionStat struct {
	Bust    PointStat `json:"Bust"`    // 餘額不足
	Cashout PointStat `json:"Cashout"` // 達到離場線
	Alive   PointStat `json:"Alive"`   // 轉完局數仍在
}

// EstimatorPlayerExp 由每位玩家的 StatReport 估計體驗分布
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	rtp := make([]float64, n)
	var under, t0, t1, tm, bust, cash, alive int
	for i, s := range sts {
		s.Done()
		rtp[i] = s.Rtp()
		if rtp[i] < 1 {
			under++
		}
		switch t := s.Summary.Trigger; {
		case t == 0:
			t0++
		case t == 1:
			t1++
		default:
			tm++
		}
		if s.Player == nil {
			continue
		}
		switch {
		case s.Player.Bust:
			bust++
		case s.Player.Cashout:
			cash++
		default:
			alive++
		}
	}
	sort.Float64s(rtp)

	out.Rtp = RtpStat{
		Median: quantileStat(rtp, 0.5),
		P10:    quantileStat(rtp, 0.1),
		P90:    quantileStat(rtp, 0.9),
		Under1: rateStat(under, n),
	}
	out.Trigger = EventCount{Zero: rateStat(t0, n), One: rateStat(t1, n), More: rateStat(tm, n)}
	out.Session = SessionStat{Bust: rateStat(bust, n), Cashout: rateStat(cash, n), Alive: rateStat(alive, n)}
	return out
}

// Write 以表格輸出
func (est *EstimatorPlayers) Write(w io.Writer) error {
	p := message.NewPrinter(lang)
	f := func(ps PointStat) string { return fmtRate(p, ps.Hat, ps.CI) }
	rtpKeys := []string{"Median RTP", "P10 RTP", "P90 RTP", "RTP < 100%"}
	rtpMsg := map[string]string{
		"Median RTP": f(est.Rtp.Median),
		"P10 RTP":    f(est.Rtp.P10),
		"P90 RTP":    f(est.Rtp.P90),
		"RTP < 100%": f(est.Rtp.Under1),
	}
	evKeys := []string{"0 times", "1 time", "2+ times"}
	evMsg := map[string]string{
		"0 times":  f(est.Trigger.Zero),
		"1 time":   f(est.Trigger.One),
		"2+ times": f(est.Trigger.More),
	}
	ssKeys := []string{"Bust", "Cashout", "Alive"}
	ssMsg := map[string]string{
		"Bust":    f(est.Session.Bust),
		"Cashout": f(est.Session.Cashout),
		"Alive":   f(est.Session.Alive),
	}
	out := fmtTable(p.Sprintf("Players (%d)", est.Players), rtpKeys, rtpMsg) +
		fmtTable("Bonus Triggers per Player", evKeys, evMsg) +
		fmtTable("Session Outcome", ssKeys, ssMsg)
	_, err := io.WriteString(w, out)
	return err
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// RateCI Clopper–Pearson 精確二項比例區間（n 次中 k 次）
func RateCI(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n <= 0 {
		return 0, CI{0, 1}
	}
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

func rateStat(k, n int) PointStat {
	hat, ci := RateCI(k, n, Confidence)
	return PointStat{Hat: hat, CI: ci}
}

// quantileStat 最近秩點估計；區間以秩的 Beta 分布反推再換回樣本值。sorted 必須已排序。
func quantileStat(sorted []float64, q float64) PointStat {
	n := len(sorted)
	if n == 0 {
		return PointStat{}
	}
	clamp := func(i int) int { return min(max(i, 0), n-1) }
	ps := PointStat{Hat: sorted[clamp(int(q*float64(n)))]}

	k := min(max(int(q*float64(n)), 1), max(n-1, 1))
	if n < 2 {
		ps.CI = CI{Lo: sorted[0], Hi: sorted[0]}
		return ps
	}
	alpha := 1 - Confidence
	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	ps.CI = CI{Lo: sorted[clamp(int(pLo*float64(n)))], Hi: sorted[clamp(int(pHi*float64(n))-1)]}
	return ps
}
