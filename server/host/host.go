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

// Package host 讓單一 Session 可以被 HTTP 前端驅動。
//
// Session 本身是單執行緒的；Host 以一把鎖串接所有指令與時鐘 tick，
// 並把 Notifier 事件收進環狀緩衝，前端以序號輪詢取得音效/動畫事件。
package host

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zintix-labs/reelround"
	"github.com/zintix-labs/reelround/gamecfg"
)

// EventBuffer 保留的最近事件數
const EventBuffer = 256

// DefaultTick 時鐘推進間隔
const DefaultTick = 16 * time.Millisecond

// EventEntry 一筆已發出的事件
type EventEntry struct {
	Seq   uint64          `json:"seq"`
	Event reelround.Event `json:"event"`
	Clock time.Duration   `json:"clock"` // 發出時的 session 時鐘
}

// Host 持有一個 Session 與它的時鐘
type Host struct {
	mu     sync.Mutex
	s      *reelround.Session
	events []EventEntry
	seq    uint64
	tick   time.Duration
	log    *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	closed   bool
}

// New 建立 Session，並把事件接到 Host。tick <= 0 時使用 DefaultTick。
func New(ctx context.Context, gs *gamecfg.GameSetting, tick time.Duration, log *slog.Logger, opts ...reelround.Option) (*Host, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	h := &Host{
		events: make([]EventEntry, 0, EventBuffer),
		tick:   tick,
		log:    log,
		stop:   make(chan struct{}),
	}
	opts = append([]reelround.Option{reelround.WithLogger(log)}, opts...)
	opts = append(opts, reelround.WithNotifier(reelround.NotifierFunc(h.record)))
	s, err := reelround.New(ctx, gs, opts...)
	if err != nil {
		return nil, err
	}
	h.s = s
	return h, nil
}

// record 由 Session 在指令或 Advance 內同步呼叫，此時 mu 已被持有
func (h *Host) record(e reelround.Event) {
	h.seq++
	if len(h.events) == EventBuffer {
		copy(h.events, h.events[1:])
		h.events = h.events[:EventBuffer-1]
	}
	var clock time.Duration
	if h.s != nil {
		clock = h.s.Now()
	}
	h.events = append(h.events, EventEntry{Seq: h.seq, Event: e, Clock: clock})
}

// Do 在鎖內執行一個指令，回傳拒絕原因與執行後的快照
func (h *Host) Do(cmd func(*reelround.Session) reelround.Reason) (reelround.Reason, reelround.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := cmd(h.s)
	return r, h.s.Snapshot()
}

// Snapshot 目前狀態
func (h *Host) Snapshot() reelround.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s.Snapshot()
}

// Paytable 賠率表（依目前押注）
func (h *Host) Paytable() reelround.Paytable {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s.Paytable()
}

// Events 回傳序號大於 since 的事件與下一次輪詢用的序號。
// 緩衝已覆蓋掉的事件不會補回；呼叫端可比對第一筆的 Seq 得知漏了多少。
func (h *Host) Events(since uint64) ([]EventEntry, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]EventEntry, 0)
	for _, e := range h.events {
		if e.Seq > since {
			out = append(out, e)
		}
	}
	return out, h.seq
}

// Advance 推進 session 時鐘
func (h *Host) Advance(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.s.Advance(d)
}

// Run 以牆鐘的實際經過時間推進 session，直到 Shutdown
func (h *Host) Run() error {
	t := time.NewTicker(h.tick)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-h.stop:
			return nil
		case now := <-t.C:
			h.Advance(now.Sub(last))
			last = now
		}
	}
}

// Shutdown 停止時鐘並關閉彩金池 store
func (h *Host) Shutdown(context.Context) error {
	h.stopOnce.Do(func() { close(h.stop) })
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.log.Info("session closed", "balance", h.s.Balance().String(), "jackpot", h.s.Jackpot().String())
	return h.s.Close()
}
