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

// Package reelround 是五軸三列老虎機的回合引擎。
//
// Session 擁有一個玩家回合的全部狀態：餘額、押注、免費轉動計數、累積彩金池、
// 自動轉動與加倍遊戲。它是單執行緒的狀態機，所有轉換都是不可分割的步驟，
// 由指令（Spin、QuickStop、GambleGuess…）或虛擬時鐘 Advance 觸發。
//
// 組裝：
//
//	gs, _ := configs.Default()
//	st, _ := jackpot.OpenStore(ctx, "file://./data/jackpot.json")
//	s, _ := reelround.New(ctx, gs,
//		reelround.WithStore(st),
//		reelround.WithLogger(logger.NewDefaultLogger(logger.ModeDev)),
//		reelround.WithRenderer(draw),
//	)
//	s.Spin()
//	s.Advance(16 * time.Millisecond) // 由外層的 ticker 推進
//
// 隨機結果在 Spin 當下就已決定；之後的計時只代表轉輪與回饋動畫，QuickStop 不會重抽。
package reelround

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/jackpot"
	"github.com/zintix-labs/reelround/sdk/calc"
	"github.com/zintix-labs/reelround/sdk/core"
	"github.com/zintix-labs/reelround/sdk/gen"
)

// Option 設定 Session 的外部協作者
type Option func(*options)

type options struct {
	log      *slog.Logger
	render   Renderer
	notify   Notifier
	store    jackpot.Store
	cf       core.PRNGFactory
	seed     int64
	hasSeed  bool
	core     *core.Core
	observer func(RoundResult)
	balance  *decimal.Decimal
}

// WithLogger 預設不輸出
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithRenderer 每次狀態改變後呼叫
func WithRenderer(r Renderer) Option { return func(o *options) { o.render = r } }

// WithNotifier 音效/動畫事件
func WithNotifier(n Notifier) Option { return func(o *options) { o.notify = n } }

// WithStore 彩金池持久化；預設 MemStore。Session.Close 會關閉它。
func WithStore(st jackpot.Store) Option { return func(o *options) { o.store = st } }

// WithSeed 指定 PRNG seed，可重現
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed, o.hasSeed = seed, true }
}

// WithPRNG 替換 PRNG 實作
func WithPRNG(cf core.PRNGFactory) Option { return func(o *options) { o.cf = cf } }

// WithCore 直接注入 Core，優先於 WithSeed / WithPRNG
func WithCore(c *core.Core) Option { return func(o *options) { o.core = c } }

// WithObserver 每局結算後收到 RoundResult（模擬器的統計入口）
func WithObserver(fn func(RoundResult)) Option { return func(o *options) { o.observer = fn } }

// WithStartingBalance 覆寫設定檔的起始餘額
func WithStartingBalance(b decimal.Decimal) Option {
	return func(o *options) { o.balance = &b }
}

// New 建立新的 Session。gs 尚未 Init 時會先 Init。
// 彩金池在此讀取一次；之後每次變動都寫回 store。
func New(ctx context.Context, gs *gamecfg.GameSetting, opts ...Option) (*Session, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting is required")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	o := options{cf: core.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if o.notify == nil {
		o.notify = nopNotifier{}
	}
	if o.core == nil {
		if !o.hasSeed {
			seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
			if err != nil {
				return nil, errs.Wrap(err, "new crypto seed error in go std lib")
			}
			o.seed = seed.Int64()
		}
		o.core = core.New(o.cf.New(o.seed))
	}

	g, err := gen.NewGridGenerator(o.core, gs)
	if err != nil {
		return nil, err
	}
	ev, err := calc.NewEvaluator(gs.SymbolTable(), gs.PaylineList())
	if err != nil {
		return nil, err
	}

	s := &Session{
		gs:       gs,
		core:     o.core,
		seed:     o.seed,
		gen:      g,
		eval:     ev,
		pool:     jackpot.Open(ctx, o.store, gs.Jackpot, o.log),
		log:      o.log.With("game", gs.GameName),
		render:   o.render,
		notify:   o.notify,
		observer: o.observer,
		sched:    newScheduler(),
		phase:    PhaseIdle,
		balance:  gs.StartingBalance(),
		levels:   gs.BetLevels(),
		lastWin:  decimal.Zero,
		lastBet:  decimal.Zero,
		bigX:     decimal.NewFromInt(int64(gs.WinTier.BigX)),
		megaX:    decimal.NewFromInt(int64(gs.WinTier.MegaX)),
		capX:     decimal.NewFromInt(int64(gs.MaxWinX)),
	}
	if o.balance != nil {
		s.balance = *o.balance
	}
	for i, b := range gs.Bet.Levels {
		if b == gs.Bet.Default {
			s.betIdx = i
		}
	}
	s.grid = restingGrid(gs)
	s.log.Debug("session created", "seed", s.seed, "balance", s.balance.String(), "jackpot", s.pool.Value().String())
	return s, nil
}

// Close 關閉彩金池的 store；不影響記憶體中的狀態
func (s *Session) Close() error {
	return s.pool.Close()
}
