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

// Package v1 是 shell 的 HTTP API：狀態、事件輪詢、賠率表與玩家指令。
package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/server/host"
	"github.com/zintix-labs/reelround/server/httperr"
)

// maxBody 指令 body 上限
const maxBody = 4 << 10

// CommandResult 指令回應；被拒絕時 status 為 409
type CommandResult struct {
	OK     bool               `json:"ok"`
	Reason reelround.Reason   `json:"reason"`
	State  reelround.Snapshot `json:"state"`
}

// EventsResult GET /v1/events
type EventsResult struct {
	Events []host.EventEntry `json:"events"`
	Next   uint64            `json:"next"` // 下一次帶 since=next
}

type Handler struct {
	h *host.Host
}

func NewHandler(h *host.Host) (*Handler, error) {
	if h == nil {
		return nil, errs.NewFatal("host is required")
	}
	return &Handler{h: h}, nil
}

func (c *Handler) State(w http.ResponseWriter, r *http.Request) {
	httperr.Write(w, http.StatusOK, c.h.Snapshot())
}

func (c *Handler) Paytable(w http.ResponseWriter, r *http.Request) {
	httperr.Write(w, http.StatusOK, c.h.Paytable())
}

func (c *Handler) Events(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.Errs(w, errs.Warnf("since must be a non-negative integer, got %q", v))
			return
		}
		since = n
	}
	evs, next := c.h.Events(since)
	httperr.Write(w, http.StatusOK, EventsResult{Events: evs, Next: next})
}

func (c *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	c.run(w, (*reelround.Session).Spin)
}

// QuickStop 揭示已決定的盤面並立即結算
func (c *Handler) QuickStop(w http.ResponseWriter, r *http.Request) {
	c.run(w, (*reelround.Session).QuickStop)
}

func (c *Handler) BetUp(w http.ResponseWriter, r *http.Request) {
	c.run(w, (*reelround.Session).BetUp)
}

func (c *Handler) BetDown(w http.ResponseWriter, r *http.Request) {
	c.run(w, (*reelround.Session).BetDown)
}

type betRequest struct {
	Bet decimal.Decimal `json:"bet"`
}

// SetBet body: {"bet":"5"}
func (c *Handler) SetBet(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if err := decode(r, &req, false); err != nil {
		httperr.Errs(w, err)
		return
	}
	c.run(w, func(s *reelround.Session) reelround.Reason { return s.SetBet(req.Bet) })
}

func (c *Handler) GambleStart(w http.ResponseWriter, r *http.Request) {
	c.run(w, (*reelround.Session).GambleStart)
}

type guessRequest struct {
	Choice string `json:"choice"`
}

// GambleGuess body: {"choice":"red"|"black"}
func (c *Handler) GambleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := decode(r, &req, false); err != nil {
		httperr.Errs(w, err)
		return
	}
	choice, ok := reelround.ParseChoice(req.Choice)
	if !ok {
		httperr.Errs(w, errs.Warnf("choice must be red or black, got %q", req.Choice))
		return
	}
	c.run(w, func(s *reelround.Session) reelround.Reason { return s.GambleGuess(choice) })
}

func (c *Handler) GambleCollect(w http.ResponseWriter, r *http.Request) {
	c.run(w, (*reelround.Session).GambleCollect)
}

// AutoplayStart body 為 AutoplayConfig；空 body 使用 DefaultAutoplay(10)
func (c *Handler) AutoplayStart(w http.ResponseWriter, r *http.Request) {
	cfg := reelround.DefaultAutoplay(10)
	if err := decode(r, &cfg, true); err != nil {
		httperr.Errs(w, err)
		return
	}
	c.run(w, func(s *reelround.Session) reelround.Reason { return s.StartAutoplay(cfg) })
}

func (c *Handler) AutoplayStop(w http.ResponseWriter, r *http.Request) {
	c.run(w, (*reelround.Session).StopAutoplay)
}

func (c *Handler) run(w http.ResponseWriter, cmd func(*reelround.Session) reelround.Reason) {
	reason, snap := c.h.Do(cmd)
	status := http.StatusOK
	if !reason.OK() {
		status = http.StatusConflict
	}
	httperr.Write(w, status, CommandResult{OK: reason.OK(), Reason: reason, State: snap})
}

// decode 嚴格解析 JSON body；optional 時空 body 保留 v 的預設值
func decode(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	switch {
	case err == nil:
		return nil
	case err == io.EOF && optional:
		return nil
	case err == io.EOF:
		return errs.NewWarn("request body is required")
	}
	return errs.Warnf("invalid request body: %v", err)
}
