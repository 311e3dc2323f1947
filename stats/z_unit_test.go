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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/reelround/stats"
	"gopkg.in/yaml.v3"
)

// buildStatReport 以一串贏倍（bet=1）組出報表，全部算作主遊戲贏分
func buildStatReport(mults []float64) *stats.StatReport {
	L := stats.Buckets.Len()
	twc := make([]int, L)
	var total, sq float64
	for _, m := range mults {
		twc[stats.Buckets.Index(m)]++
		total += m
		sq += m * m
	}
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName: "TestGame",
			Bet:      1,
			Rounds:   len(mults),
			TotalBet: float64(len(mults)),
			TotalWin: total,
			BaseWin:  total,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      total,
			BaseWinMult:       total,
			TotalWinMultSqSum: sq,
			BaseWinMultSqSum:  sq,
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.WinBucketStr(),
			TotalWinCollect: twc,
			BaseWinCollect:  append([]int(nil), twc...),
			FreeWinCollect:  make([]int, L),
		},
	}
	report.Done()
	return report
}

func TestStatReportCoreMetrics(t *testing.T) {
	rep := buildStatReport([]float64{1, 2})

	wantRTP := 1.5
	if got := rep.Rtp(); math.Abs(got-wantRTP) > 1e-12 {
		t.Fatalf("RTP got %.12f want %.12f", got, wantRTP)
	}
	variance := ((1.0 + 4.0) - 9.0/2) / (2 - 1)
	wantStd := math.Sqrt(variance)
	if got := rep.Std(); math.Abs(got-wantStd) > 1e-12 {
		t.Fatalf("Std got %.12f want %.12f", got, wantStd)
	}
	if got := rep.Cv(); math.Abs(got-wantStd/wantRTP) > 1e-12 {
		t.Fatalf("CV got %.12f want %.12f", got, wantStd/wantRTP)
	}
	ci := rep.Summary.RtpCI
	if !(ci.Lo <= wantRTP && wantRTP <= ci.Hi) {
		t.Fatalf("RTP CI %v does not contain %.3f", ci, wantRTP)
	}
	if rep.Summary.HitRate != 1 || rep.Summary.NoWinRounds != 0 {
		t.Fatalf("hit rate got %.3f nowin %d", rep.Summary.HitRate, rep.Summary.NoWinRounds)
	}

	sum := 0
	for _, c := range rep.Dist.TotalWinCollect {
		sum += c
	}
	if sum != rep.Summary.Rounds {
		t.Fatalf("distribution total %d != rounds %d", sum, rep.Summary.Rounds)
	}

	rep.Done() // idempotent
	if rep.Rtp() != wantRTP {
		t.Fatalf("RTP changed after second Done")
	}
}

func TestBucketIndex(t *testing.T) {
	labels := stats.Buckets.WinBucketStr()
	cases := map[float64]string{
		0:      "[0,0]",
		-1:     "[0,0]",
		0.2:    "(0,1)",
		1:      "[1,2)",
		4.99:   "[2,5)",
		100:    "[100,300)",
		9999:   "[2000,10000)",
		10000:  "[10000,+inf)",
		123456: "[10000,+inf)",
	}
	for m, want := range cases {
		if got := labels[stats.Buckets.Index(m)]; got != want {
			t.Fatalf("Index(%v) got %s want %s", m, got, want)
		}
	}
}

func TestRateCI(t *testing.T) {
	hat, ci := stats.RateCI(0, 100, 0.95)
	if hat != 0 || ci.Lo != 0 || ci.Hi <= 0 || ci.Hi > 0.05 {
		t.Fatalf("k=0: hat %.4f ci %v", hat, ci)
	}
	hat, ci = stats.RateCI(100, 100, 0.95)
	if hat != 1 || ci.Hi != 1 || ci.Lo >= 1 || ci.Lo < 0.95 {
		t.Fatalf("k=n: hat %.4f ci %v", hat, ci)
	}
	hat, ci = stats.RateCI(50, 100, 0.95)
	// 已知 Clopper–Pearson 50/100 ≈ [0.3983, 0.6017]
	if hat != 0.5 || math.Abs(ci.Lo-0.3983) > 1e-3 || math.Abs(ci.Hi-0.6017) > 1e-3 {
		t.Fatalf("k=50: hat %.4f ci %v", hat, ci)
	}
	if _, ci = stats.RateCI(0, 0, 0.95); ci.Lo != 0 || ci.Hi != 1 {
		t.Fatalf("n=0: ci %v", ci)
	}
}

func TestRenderers(t *testing.T) {
	rep := buildStatReport([]float64{0, 0, 3, 12})

	for _, f := range []string{"table", "json", "yaml"} {
		r, err := stats.RenderFor(f)
		if err != nil {
			t.Fatalf("RenderFor(%s): %v", f, err)
		}
		var buf bytes.Buffer
		if err := rep.WriteWith(&buf, r); err != nil {
			t.Fatalf("%s write: %v", f, err)
		}
		out := buf.String()
		switch f {
		case "table":
			if !strings.Contains(out, "TestGame") || !strings.Contains(out, "Win Distribution") {
				t.Fatalf("table output missing sections:\n%s", out)
			}
		case "json":
			var back stats.StatReport
			if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
				t.Fatalf("json decode: %v", err)
			}
			if back.Summary.Rounds != 4 || back.Summary.HitRate != 0.5 {
				t.Fatalf("json summary got %+v", back.Summary)
			}
		case "yaml":
			var back map[string]any
			if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
				t.Fatalf("yaml decode: %v", err)
			}
			if !strings.Contains(out, "totalwincollect: [") {
				t.Fatalf("yaml inner list not flow style:\n%s", out)
			}
		}
	}
	if _, err := stats.RenderFor("xml"); err == nil {
		t.Fatalf("unknown format should fail")
	}
}

func TestEstimatorPlayers(t *testing.T) {
	reports := make([]*stats.StatReport, 0, 100)
	for i := range 100 {
		r := buildStatReport([]float64{float64(i) / 100})
		r.Player = &stats.PlayerReport{Bust: i < 30, Cashout: i >= 30 && i < 50}
		reports = append(reports, r)
	}
	est := stats.EstimatorPlayerExp(reports)
	if math.Abs(est.Rtp.Median.Hat-0.5) > 0.05 {
		t.Fatalf("median RTP expected ~0.5, got %.3f", est.Rtp.Median.Hat)
	}
	if math.Abs(est.Rtp.P90.Hat-0.9) > 0.05 {
		t.Fatalf("P90 RTP expected ~0.9, got %.3f", est.Rtp.P90.Hat)
	}
	if est.Rtp.Under1.Hat != 1 {
		t.Fatalf("all players below 100%% RTP, got %.2f", est.Rtp.Under1.Hat)
	}
	if est.Session.Bust.Hat != 0.3 || est.Session.Cashout.Hat != 0.2 || est.Session.Alive.Hat != 0.5 {
		t.Fatalf("session outcome got %+v", est.Session)
	}
	if est.Trigger.Zero.Hat != 1 {
		t.Fatalf("no trigger expected, got %.2f", est.Trigger.Zero.Hat)
	}
	var buf bytes.Buffer
	if err := est.Write(&buf); err != nil || !strings.Contains(buf.String(), "Session Outcome") {
		t.Fatalf("estimator table: %v\n%s", err, buf.String())
	}
}
