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

package gamecfg

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
)

// GridSetting 盤面尺寸與生成參數
type GridSetting struct {
	Cols              int               `yaml:"cols"                json:"cols"`
	Rows              int               `yaml:"rows"                json:"rows"`
	ForcedBonusChance float64           `yaml:"forced_bonus_chance" json:"forced_bonus_chance"`
	HighVolatility    VolatilitySetting `yaml:"high_volatility"     json:"high_volatility"`
}

// VolatilitySetting 免費遊戲期間的權重加成。
// 高階符號定義為：最長連線倍數 > HighTierThreshold；百搭同時符合時兩種加成相乘。
type VolatilitySetting struct {
	WildBoost         float64 `yaml:"wild_boost"          json:"wild_boost"`
	HighTierBoost     float64 `yaml:"high_tier_boost"     json:"high_tier_boost"`
	HighTierThreshold int     `yaml:"high_tier_threshold" json:"high_tier_threshold"`
}

func (g *GridSetting) valid() error {
	if g.Cols <= 0 || g.Rows <= 0 {
		return errs.Fatalf("invalid grid dimensions: cols=%d rows=%d", g.Cols, g.Rows)
	}
	if g.Cols < 3 {
		return errs.Fatalf("grid needs at least 3 columns for the forced bonus, got %d", g.Cols)
	}
	if g.ForcedBonusChance < 0 || g.ForcedBonusChance > 1 {
		return errs.Fatalf("forced_bonus_chance %v out of [0,1]", g.ForcedBonusChance)
	}
	hv := g.HighVolatility
	if hv.WildBoost <= 0 || hv.HighTierBoost <= 0 {
		return errs.NewFatal("high_volatility boosts must be > 0")
	}
	return nil
}

// BetSetting 押注
type BetSetting struct {
	Levels          []int   `yaml:"levels"           json:"levels"`
	Default         int     `yaml:"default"          json:"default"`
	StartingBalance float64 `yaml:"starting_balance" json:"starting_balance"`
}

func (b *BetSetting) valid() error {
	if len(b.Levels) == 0 {
		return errs.NewFatal("bet.levels is empty")
	}
	for i, v := range b.Levels {
		if v < 1 {
			return errs.Fatalf("bet level %d must be >= 1", v)
		}
		if i > 0 && v <= b.Levels[i-1] {
			return errs.NewFatal("bet.levels must be strictly ascending")
		}
	}
	if b.Default == 0 {
		b.Default = b.Levels[0]
	}
	if !slices.Contains(b.Levels, b.Default) {
		return errs.Fatalf("bet.default %d is not a bet level", b.Default)
	}
	if b.StartingBalance < 0 {
		return errs.NewFatal("bet.starting_balance must be >= 0")
	}
	return nil
}

// BonusSetting 免費遊戲
type BonusSetting struct {
	FreeSpins int `yaml:"free_spins" json:"free_spins"`
}

func (b *BonusSetting) valid() error {
	if b.FreeSpins < 1 {
		return errs.NewFatal("bonus.free_spins must be >= 1")
	}
	return nil
}

// WinTierSetting 大獎分級（以押注倍數計）
type WinTierSetting struct {
	BigX  int `yaml:"big_x"  json:"big_x"`
	MegaX int `yaml:"mega_x" json:"mega_x"`
}

func (w *WinTierSetting) valid() error {
	if w.BigX < 1 || w.MegaX <= w.BigX {
		return errs.Fatalf("win_tier requires 1 <= big_x < mega_x, got %d/%d", w.BigX, w.MegaX)
	}
	return nil
}

// JackpotSetting 累積彩金
type JackpotSetting struct {
	Key          string  `yaml:"key"          json:"key"`
	Seed         float64 `yaml:"seed"         json:"seed"`
	Contribution float64 `yaml:"contribution" json:"contribution"`
	Chance       float64 `yaml:"chance"       json:"chance"`
}

func (j *JackpotSetting) valid() error {
	if j.Key == "" {
		j.Key = "jackpot"
	}
	if j.Seed < 0 {
		return errs.NewFatal("jackpot.seed must be >= 0")
	}
	if j.Contribution < 0 || j.Contribution >= 1 {
		return errs.Fatalf("jackpot.contribution %v out of [0,1)", j.Contribution)
	}
	if j.Chance < 0 || j.Chance > 1 {
		return errs.Fatalf("jackpot.chance %v out of [0,1]", j.Chance)
	}
	return nil
}

// SeedValue 彩金池重置值
func (j *JackpotSetting) SeedValue() decimal.Decimal { return decimal.NewFromFloat(j.Seed) }

// Rate 每次付費轉動的提撥比例
func (j *JackpotSetting) Rate() decimal.Decimal { return decimal.NewFromFloat(j.Contribution) }

// TimingSetting 表演時間。只影響排程，不影響結果。
type TimingSetting struct {
	RevealDelay     time.Duration `yaml:"reveal_delay"     json:"reveal_delay"`
	RevealStep      time.Duration `yaml:"reveal_step"      json:"reveal_step"`
	Settle          time.Duration `yaml:"settle"           json:"settle"`
	Cooldown        time.Duration `yaml:"cooldown"         json:"cooldown"`
	FeatureCooldown time.Duration `yaml:"feature_cooldown" json:"feature_cooldown"`
	AutoplayGap     time.Duration `yaml:"autoplay_gap"     json:"autoplay_gap"`
	TurboScale      float64       `yaml:"turbo_scale"      json:"turbo_scale"`
}

func (t *TimingSetting) valid() error {
	for _, d := range []time.Duration{t.RevealDelay, t.RevealStep, t.Settle, t.Cooldown, t.FeatureCooldown, t.AutoplayGap} {
		if d < 0 {
			return errs.NewFatal("timing durations must be >= 0")
		}
	}
	if t.TurboScale == 0 {
		t.TurboScale = 1
	}
	if t.TurboScale < 0 || t.TurboScale > 1 {
		return errs.Fatalf("timing.turbo_scale %v out of (0,1]", t.TurboScale)
	}
	return nil
}

// Scale 依 turbo 縮放時間
func (t *TimingSetting) Scale(d time.Duration, turbo bool) time.Duration {
	if !turbo {
		return d
	}
	return time.Duration(float64(d) * t.TurboScale)
}
