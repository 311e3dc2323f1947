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

package jackpot

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/sdk/core"
)

// SaveTimeout 每次寫回 Store 的時限
const SaveTimeout = 2 * time.Second

// Pool 一個 Session 擁有的累積彩金池。
// 值只經由 Contribute / Award 改變，每次改變後立即寫回 Store；
// Store 失敗只記 log，不影響記憶體中的結果。
type Pool struct {
	store  Store
	key    string
	seed   decimal.Decimal
	rate   decimal.Decimal
	chance float64
	value  decimal.Decimal
	log    *slog.Logger
}

// Open 建立彩金池，並從 store 讀取一次目前值；未曾寫入或讀取失敗時從 seed 開始。
// 讀取失敗時不寫回 seed。
// store 為 nil 時使用 MemStore。
func Open(ctx context.Context, store Store, js gamecfg.JackpotSetting, log *slog.Logger) *Pool {
	if store == nil {
		store = NewMemStore()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &Pool{
		store:  store,
		key:    js.Key,
		seed:   js.SeedValue(),
		rate:   js.Rate(),
		chance: js.Chance,
		value:  js.SeedValue(),
		log:    log,
	}
	v, found, err := store.Load(ctx, p.key)
	switch {
	case err != nil:
		// store 內可能仍有累積值，第一次真正變動前不覆寫
		log.Warn("jackpot load failed, starting from seed", "key", p.key, "err", err)
	case !found || v.LessThan(p.seed):
		p.save()
	default:
		p.value = v
	}
	return p
}

// Value 目前池值
func (p *Pool) Value() decimal.Decimal { return p.value }

// Seed 重置值
func (p *Pool) Seed() decimal.Decimal { return p.seed }

// Key 持久化 key
func (p *Pool) Key() string { return p.key }

// Contribute 付費轉動時提撥 bet × rate，回傳提撥額
func (p *Pool) Contribute(bet decimal.Decimal) decimal.Decimal {
	c := bet.Mul(p.rate)
	if c.IsZero() {
		return c
	}
	p.value = p.value.Add(c)
	p.save()
	return c
}

// Roll 每局獨立擲一次中獎判定
func (p *Pool) Roll(c *core.Core) bool {
	return c.Chance(p.chance)
}

// Award 取走整個池值並重置為 seed
func (p *Pool) Award() decimal.Decimal {
	won := p.value
	p.value = p.seed
	p.save()
	p.log.Info("jackpot awarded", "key", p.key, "amount", won.String())
	return won
}

// Close 關閉底層 Store
func (p *Pool) Close() error { return p.store.Close() }

func (p *Pool) save() {
	ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
	defer cancel()
	if err := p.store.Save(ctx, p.key, p.value); err != nil {
		p.log.Warn("jackpot save failed", "key", p.key, "value", p.value.String(), "err", err)
	}
}
