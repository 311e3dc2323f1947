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
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// Confidence 報表中所有區間估計使用的信心水準
const Confidence = 0.95

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 模擬統計報告
//
// 一個樣本 = 一次付費轉動，連同它觸發並串接完成的所有免費局。
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Mult    *MultReport    `json:"Mult"`
	Dist    *DistReport    `json:"Dist"`
	Player  *PlayerReport  `json:"Player,omitempty"`
	isDone  bool
}

type SummaryReport struct {
	GameName    string  `json:"GameName"`
	Bet         float64 `json:"Bet"`
	Rounds      int     `json:"Rounds"`     // 付費局
	FreeRounds  int     `json:"FreeRounds"` // 串接的免費局
	TotalBet    float64 `json:"TotalBet"`
	TotalWin    float64 `json:"TotalWin"`
	BaseWin     float64 `json:"BaseWin"`
	FreeWin     float64 `json:"FreeWin"`
	JackpotWin  float64 `json:"JackpotWin"`
	RTP         float64 `json:"RTP"`
	RtpCI       CI      `json:"RtpCI"`
	Std         float64 `json:"Std"`
	Cv          float64 `json:"Cv"`
	Trigger     int     `json:"Trigger"`
	TriggerRate float64 `json:"TriggerRate"`
	TriggerCI   CI      `json:"TriggerCI"`
	JackpotHits int     `json:"JackpotHits"`
	JackpotRate float64 `json:"JackpotRate"`
	JackpotCI   CI      `json:"JackpotCI"`
	MaxWinHits  int     `json:"MaxWinHits"`
	MaxWinRate  float64 `json:"MaxWinRate"`
	MaxWinCI    CI      `json:"MaxWinCI"`
	NoWinRounds int     `json:"NoWinRounds"`
	HitRate     float64 `json:"HitRate"`
	HitCI       CI      `json:"HitCI"`
}

// MultReport 贏倍統計（派彩 / 押注）
type MultReport struct {
	TotalWinMult      float64 `json:"TotalWinMult"`
	BaseWinMult       float64 `json:"BaseWinMult"`
	FreeWinMult       float64 `json:"FreeWinMult"`
	JackpotWinMult    float64 `json:"JackpotWinMult"`
	TotalWinMultSqSum float64 `json:"TotalWinMultSqSum"` // 平方和
	BaseWinMultSqSum  float64 `json:"BaseWinMultSqSum"`  // 平方和
	FreeWinMultSqSum  float64 `json:"FreeWinMultSqSum"`  // 平方和
}

// DistReport 贏倍區間落點統計
type DistReport struct {
	WinBucket       []string  `json:"WinBucket"`
	TotalWinCollect []int     `json:"TotalWinCollect"`
	BaseWinCollect  []int     `json:"BaseWinCollect"`
	FreeWinCollect  []int     `json:"FreeWinCollect"`
	TotalWinDist    []float64 `json:"TotalWinDist"`
	BaseWinDist     []float64 `json:"BaseWinDist"`
	FreeWinDist     []float64 `json:"FreeWinDist"`
}

// PlayerReport 單一玩家的資金歷程，只有 SimPlayers 會填
type PlayerReport struct {
	InitBalance float64 `json:"InitBalance"`
	Balance     float64 `json:"Balance"`
	MaxBalance  float64 `json:"MaxBalance"`
	MinBalance  float64 `json:"MinBalance"`
	Bust        bool    `json:"Bust"`
	Cashout     bool    `json:"Cashout"`
	Alive       bool    `json:"Alive"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由累積計數算出衍生欄位，重複呼叫無副作用
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	sm := s.Summary
	n := sm.Rounds

	sm.RTP = s.Rtp()
	sm.RtpCI = s.Ci()
	sm.Std = s.Std()
	sm.Cv = s.Cv()

	sm.TriggerRate, sm.TriggerCI = RateCI(sm.Trigger, n, Confidence)
	sm.JackpotRate, sm.JackpotCI = RateCI(sm.JackpotHits, n, Confidence)
	sm.MaxWinRate, sm.MaxWinCI = RateCI(sm.MaxWinHits, n, Confidence)
	if s.Dist != nil && len(s.Dist.TotalWinCollect) > 0 {
		sm.NoWinRounds = s.Dist.TotalWinCollect[0]
		sm.HitRate, sm.HitCI = RateCI(n-sm.NoWinRounds, n, Confidence)
		s.Dist.TotalWinDist = distOf(s.Dist.TotalWinCollect, n)
		s.Dist.BaseWinDist = distOf(s.Dist.BaseWinCollect, n)
		s.Dist.FreeWinDist = distOf(s.Dist.FreeWinCollect, n)
	}

	if s.Player != nil {
		s.Player.Alive = !(s.Player.Bust || s.Player.Cashout)
	}
	s.isDone = true
}

// Rtp 回傳整體 RTP（總派彩 / 總押注）
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return s.Summary.TotalWin / s.Summary.TotalBet
}

// Std 回傳單次付費轉動贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 {
		return 0
	}
	rounds := float64(s.Summary.Rounds)

	winMultPow := s.Mult.TotalWinMult * s.Mult.TotalWinMult
	variance := (s.Mult.TotalWinMultSqSum - winMultPow/rounds) / (rounds - 1)

	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 回傳變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci 回傳 RTP 的 95% 信賴區間（常態近似）
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	rtpSe := float64(0)
	if s.Summary.Rounds > 1 {
		rtpSe = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	return CI{
		Lo: max(rtp-1.96*rtpSe, 0.0),
		Hi: rtp + 1.96*rtpSe,
	}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 印出用時與摘要表
func (s *StatReport) StdOut(ut time.Duration) {
	s.Done()
	fmt.Print(formatDuration(ut, s.Summary.Rounds))
	fmt.Print(s.table())
}

// ============================================================
// ** 內部方法 **
// ============================================================

func distOf(collect []int, n int) []float64 {
	out := make([]float64, len(collect))
	if n == 0 {
		return out
	}
	rf := float64(n)
	for i, c := range collect {
		out[i] = float64(c) / rf
	}
	return out
}

func formatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, s, sps)
}

func (s *StatReport) table() string {
	sk, sm := s.fmtBasic()
	out := fmtTable(s.Summary.GameName, sk, sm)
	if s.Dist != nil {
		dk, dm := s.fmtDist()
		out += fmtTable("Win Distribution", dk, dm)
	}
	return out
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	basic := map[string]string{
		"Game Name":    p.Sprintf("%s", sm.GameName),
		"Bet":          p.Sprintf("%.2f", sm.Bet),
		"Total Rounds": p.Sprintf("%d", sm.Rounds),
		"Free Rounds":  p.Sprintf("%d", sm.FreeRounds),
		"Total RTP":    p.Sprintf("%.2f %%", 100.0*sm.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.RtpCI.Lo, 100.0*sm.RtpCI.Hi),
		"Total Bet":    p.Sprintf("%.2f", sm.TotalBet),
		"Total Win":    p.Sprintf("%.2f", sm.TotalWin),
		"Base Win":     p.Sprintf("%.2f", sm.BaseWin),
		"Free Win":     p.Sprintf("%.2f", sm.FreeWin),
		"Jackpot Win":  p.Sprintf("%.2f", sm.JackpotWin),
		"Hit Rate":     fmtRate(p, sm.HitRate, sm.HitCI),
		"Trigger":      p.Sprintf("%d  %s", sm.Trigger, fmtRate(p, sm.TriggerRate, sm.TriggerCI)),
		"Jackpot Hits": p.Sprintf("%d  %s", sm.JackpotHits, fmtRate(p, sm.JackpotRate, sm.JackpotCI)),
		"Max Win Hits": p.Sprintf("%d  %s", sm.MaxWinHits, fmtRate(p, sm.MaxWinRate, sm.MaxWinCI)),
		"STD":          p.Sprintf("%.3f", sm.Std),
		"CV":           p.Sprintf("%.3f", sm.Cv),
	}
	keys := []string{"Game Name", "Bet", "Total Rounds", "Free Rounds", "Total RTP", "RTP 95% CI", "Total Bet", "Total Win", "Base Win", "Free Win", "Jackpot Win", "Hit Rate", "Trigger", "Jackpot Hits", "Max Win Hits", "STD", "CV"}
	return keys, basic
}

func (s *StatReport) fmtDist() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	d := s.Dist
	keys := make([]string, 0, len(d.WinBucket))
	msg := make(map[string]string, len(d.WinBucket))
	for i, label := range d.WinBucket {
		if i >= len(d.TotalWinCollect) {
			break
		}
		ratio := 0.0
		if i < len(d.TotalWinDist) {
			ratio = d.TotalWinDist[i]
		}
		keys = append(keys, label)
		msg[label] = p.Sprintf("%d (%.4f%%)", d.TotalWinCollect[i], 100*ratio)
	}
	return keys, msg
}

func fmtRate(p *message.Printer, hat float64, ci CI) string {
	return p.Sprintf("%.4f%% [%.4f%%,%.4f%%]", 100*hat, 100*ci.Lo, 100*ci.Hi)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) + " | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
