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

package gamecfg_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/gamecfg/configs"
)

func TestLoadDefault(t *testing.T) {
	gs, err := configs.Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if gs.Grid.Cols != 5 || gs.Grid.Rows != 3 {
		t.Fatalf("unexpected grid %dx%d", gs.Grid.Cols, gs.Grid.Rows)
	}
	st := gs.SymbolTable()
	if st == nil || st.Len() != 9 {
		t.Fatalf("symbol table not built")
	}
	if st.Scatter().ID != 100 {
		t.Fatalf("scatter id want 100 got %d", st.Scatter().ID)
	}
	if len(gs.PaylineList()) != 5 {
		t.Fatalf("want 5 paylines")
	}
	if gs.Timing.RevealStep != 300*time.Millisecond {
		t.Fatalf("duration decode failed: %v", gs.Timing.RevealStep)
	}
	if gs.Jackpot.Rate().String() != "0.05" {
		t.Fatalf("contribution rate want 0.05 got %s", gs.Jackpot.Rate())
	}
	if gs.StartingBalance().String() != "1000" {
		t.Fatalf("starting balance got %s", gs.StartingBalance())
	}
	levels := gs.BetLevels()
	if len(levels) != 7 || levels[3].IntPart() != 10 {
		t.Fatalf("bet levels got %v", levels)
	}
	if names := configs.Names(); len(names) == 0 || names[0] != configs.DefaultName {
		t.Fatalf("embedded names got %v", names)
	}
}

func TestStrictDecode(t *testing.T) {
	src := `
game_name: typo
grid: { cols: 5, rows: 3, forced_bonus_chance: 0, high_volatility: { wild_boost: 1, high_tier_boost: 1, high_tier_threshold: 1 } }
unknown_field: 1
`
	if _, err := gamecfg.Load(strings.NewReader(src)); err == nil {
		t.Fatalf("unknown field must be rejected")
	}
}

func TestInitValidation(t *testing.T) {
	base, err := configs.Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	cases := map[string]func(*gamecfg.GameSetting){
		"descending bets":   func(g *gamecfg.GameSetting) { g.Bet.Levels = []int{5, 2} },
		"default not level": func(g *gamecfg.GameSetting) { g.Bet.Default = 3 },
		"zero free spins":   func(g *gamecfg.GameSetting) { g.Bonus.FreeSpins = 0 },
		"bad tiers":         func(g *gamecfg.GameSetting) { g.WinTier.MegaX = g.WinTier.BigX },
		"bad contribution":  func(g *gamecfg.GameSetting) { g.Jackpot.Contribution = 1.5 },
		"two scatters":      func(g *gamecfg.GameSetting) { g.Symbols[1].Scatter = true },
		"short payline":     func(g *gamecfg.GameSetting) { g.Paylines[0].Rows = []int{1, 1} },
		"no max win":        func(g *gamecfg.GameSetting) { g.MaxWinX = 0 },
		"bad turbo":         func(g *gamecfg.GameSetting) { g.Timing.TurboScale = 2 },
	}
	for name, mutate := range cases {
		c := base.Clone()
		mutate(c)
		if err := c.Init(); err == nil {
			t.Fatalf("%s: expected init error", name)
		}
	}
	// Clone 後未修改應能重新 Init
	if err := base.Clone().Init(); err != nil {
		t.Fatalf("clone init: %v", err)
	}
}

func TestTimingScale(t *testing.T) {
	ts := gamecfg.TimingSetting{TurboScale: 0.25}
	if got := ts.Scale(time.Second, true); got != 250*time.Millisecond {
		t.Fatalf("turbo scale got %v", got)
	}
	if got := ts.Scale(time.Second, false); got != time.Second {
		t.Fatalf("normal scale got %v", got)
	}
}

func TestOpenPathOrEmbedded(t *testing.T) {
	bs, err := configs.FS.ReadFile(configs.DefaultName)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "copy.yaml")
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := configs.Open(path)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	embedded, err := configs.Open("league_of_slots")
	if err != nil {
		t.Fatalf("open embedded: %v", err)
	}
	if fromFile.GameName != embedded.GameName {
		t.Fatalf("got %q vs %q", fromFile.GameName, embedded.GameName)
	}
	if _, err := configs.Open("no_such_game"); err == nil {
		t.Fatal("missing config should fail")
	}
}
