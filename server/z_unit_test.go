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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zintix-labs/reelround"
	"github.com/zintix-labs/reelround/gamecfg/configs"
	v1 "github.com/zintix-labs/reelround/server/api/v1"
	"github.com/zintix-labs/reelround/server/host"
	"github.com/zintix-labs/reelround/server/svrcfg"
)

type shell struct {
	t   *testing.T
	srv *httptest.Server
	h   *host.Host
}

func newShell(t *testing.T, dsn string) *shell {
	t.Helper()
	gs, err := configs.Default()
	if err != nil {
		t.Fatal(err)
	}
	svr, h, err := Build(context.Background(), &svrcfg.SvrCfg{Game: gs, Seed: 99, JackpotDSN: dsn})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	srv := httptest.NewServer(svr.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = h.Shutdown(context.Background())
	})
	return &shell{t: t, srv: srv, h: h}
}

func (s *shell) do(method, path, body string, out any) int {
	s.t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		s.t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.srv.Client().Do(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			s.t.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (s *shell) command(path, body string) (int, v1.CommandResult) {
	s.t.Helper()
	var res v1.CommandResult
	code := s.do(http.MethodPost, path, body, &res)
	return code, res
}

func TestSpinLifecycleOverHTTP(t *testing.T) {
	s := newShell(t, "")

	var st reelround.Snapshot
	if code := s.do(http.MethodGet, "/v1/state", "", &st); code != http.StatusOK || st.Phase != reelround.PhaseIdle {
		t.Fatalf("state %d %s", code, st.Phase)
	}
	start := st.Balance

	code, res := s.command("/v1/spin", "")
	if code != http.StatusOK || !res.OK || res.State.Phase != reelround.PhaseSpinning {
		t.Fatalf("spin %d %+v", code, res)
	}
	if !res.State.Balance.Equal(start.Sub(res.State.Bet)) {
		t.Fatalf("bet not deducted: %s -> %s", start, res.State.Balance)
	}
	code, res = s.command("/v1/spin", "")
	if code != http.StatusConflict || res.Reason != reelround.ReasonRoundInFlight {
		t.Fatalf("second spin %d %s", code, res.Reason)
	}
	code, res = s.command("/v1/stop", "")
	if code != http.StatusOK || res.State.Phase != reelround.PhaseCooldown || res.State.Revealed != res.State.Grid.Cols {
		t.Fatalf("quick stop %d phase %s revealed %d", code, res.State.Phase, res.State.Revealed)
	}

	var evs v1.EventsResult
	s.do(http.MethodGet, "/v1/events?since=0", "", &evs)
	names := make([]string, 0, len(evs.Events))
	for _, e := range evs.Events {
		names = append(names, e.Event.String())
	}
	joined := strings.Join(names, ",")
	if !strings.HasPrefix(joined, "click,spin_start,reel_stop") || evs.Next != evs.Events[len(evs.Events)-1].Seq {
		t.Fatalf("events %s next %d", joined, evs.Next)
	}
	var again v1.EventsResult
	s.do(http.MethodGet, "/v1/events?since="+itoa(evs.Next), "", &again)
	if len(again.Events) != 0 {
		t.Fatalf("no new events expected, got %v", again.Events)
	}

	// 免費轉動的串接也在這裡跑完
	s.h.Do(func(ss *reelround.Session) reelround.Reason {
		ss.Settle()
		return reelround.ReasonOK
	})
	s.do(http.MethodGet, "/v1/state", "", &st)
	if st.Phase != reelround.PhaseIdle || st.Clock <= 0 {
		t.Fatalf("cooldown should expire, got %s at %v", st.Phase, st.Clock)
	}
	if code, _ := s.command("/v1/bet/up", ""); code != http.StatusOK {
		t.Fatalf("bet up %d", code)
	}
}

func TestRequestValidation(t *testing.T) {
	s := newShell(t, "")
	var e struct {
		Error string `json:"error"`
	}
	if code := s.do(http.MethodPost, "/v1/bet", `{"bet":"abc"}`, &e); code != http.StatusBadRequest || e.Error == "" {
		t.Fatalf("bad bet %d %q", code, e.Error)
	}
	if code := s.do(http.MethodPost, "/v1/bet", "", &e); code != http.StatusBadRequest {
		t.Fatalf("missing body %d", code)
	}
	if code := s.do(http.MethodPost, "/v1/bet", `{"bet":"1","extra":1}`, &e); code != http.StatusBadRequest {
		t.Fatalf("unknown field %d", code)
	}
	if code := s.do(http.MethodPost, "/v1/gamble/guess", `{"choice":"green"}`, &e); code != http.StatusBadRequest {
		t.Fatalf("bad choice %d", code)
	}
	if code := s.do(http.MethodGet, "/v1/events?since=-1", "", &e); code != http.StatusBadRequest {
		t.Fatalf("bad since %d", code)
	}
	code, res := s.command("/v1/bet", `{"bet":"3.33"}`)
	if code != http.StatusConflict || res.Reason != reelround.ReasonInvalidBet {
		t.Fatalf("invalid level %d %s", code, res.Reason)
	}
	code, res = s.command("/v1/gamble/start", "")
	if code != http.StatusConflict || res.Reason != reelround.ReasonNoWin {
		t.Fatalf("gamble without win %d %s", code, res.Reason)
	}
}

func TestAutoplayOverHTTP(t *testing.T) {
	s := newShell(t, "")
	code, res := s.command("/v1/autoplay/start", `{"spins":3,"stop_on_win":false,"stop_on_bonus":false,"turbo":true}`)
	if code != http.StatusOK || !res.State.Autoplay.Active {
		t.Fatalf("autoplay start %d %+v", code, res.State.Autoplay)
	}
	if code, res := s.command("/v1/spin", ""); code != http.StatusConflict || res.Reason != reelround.ReasonRoundInFlight {
		t.Fatalf("manual spin during autoplay %d %s", code, res.Reason)
	}
	code, res = s.command("/v1/autoplay/stop", "")
	if code != http.StatusOK || res.State.Autoplay.Active {
		t.Fatalf("autoplay stop %d %+v", code, res.State.Autoplay)
	}
	if code, res := s.command("/v1/autoplay/stop", ""); code != http.StatusConflict || res.Reason != reelround.ReasonAutoplayInactive {
		t.Fatalf("second stop %d %s", code, res.Reason)
	}
	if code, _ := s.command("/v1/autoplay/start", `{"spins":0}`); code != http.StatusConflict {
		t.Fatalf("zero spins should be rejected, got %d", code)
	}
}

func TestPaytableAndJackpotStore(t *testing.T) {
	dsn := "file://" + filepath.Join(t.TempDir(), "jp.json")
	s := newShell(t, dsn)
	var pt reelround.Paytable
	if code := s.do(http.MethodGet, "/v1/paytable", "", &pt); code != http.StatusOK || len(pt.Symbols) == 0 || len(pt.Paylines) == 0 {
		t.Fatalf("paytable %d %+v", code, pt)
	}
	s.command("/v1/spin", "")
	s.command("/v1/stop", "")
	var st reelround.Snapshot
	s.do(http.MethodGet, "/v1/state", "", &st)
	_ = s.h.Shutdown(context.Background())

	s2 := newShell(t, dsn)
	var st2 reelround.Snapshot
	s2.do(http.MethodGet, "/v1/state", "", &st2)
	if !st2.Jackpot.Equal(st.Jackpot) {
		t.Fatalf("jackpot should persist: %s vs %s", st.Jackpot, st2.Jackpot)
	}
}

func TestCompressedResponses(t *testing.T) {
	s := newShell(t, "")
	req, _ := http.NewRequest(http.MethodGet, s.srv.URL+"/v1/state", nil)
	req.Header.Set("Accept-Encoding", "zstd")
	resp, err := s.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Content-Encoding") != "zstd" {
		t.Fatalf("want zstd, got %q", resp.Header.Get("Content-Encoding"))
	}
}

func itoa(n uint64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
