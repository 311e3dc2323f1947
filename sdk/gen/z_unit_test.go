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

package gen

import (
	"math"
	"testing"

	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/gamecfg/configs"
	"github.com/zintix-labs/reelround/sdk/core"
)

func testSetting(t *testing.T) *gamecfg.GameSetting {
	t.Helper()
	gs, err := configs.Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	return gs
}

func TestAtMostOneScatterPerColumn(t *testing.T) {
	gs := testSetting(t)
	g, err := NewGridGenerator(core.New(core.Default().New(1)), gs)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	scatter := gs.SymbolTable().Scatter().ID
	for i := 0; i < 50_000; i++ {
		grid := g.Generate(i%2 == 0)
		for col := 0; col < grid.Cols; col++ {
			n := 0
			for _, id := range grid.Column(col) {
				if id == scatter {
					n++
				}
			}
			if n > 1 {
				t.Fatalf("column %d has %d scatters:\n%s", col, n, grid)
			}
		}
	}
}

func TestForcedBonusSeeding(t *testing.T) {
	gs := testSetting(t).Clone()
	gs.Grid.ForcedBonusChance = 1
	if err := gs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	g, err := NewGridGenerator(core.New(core.Default().New(2)), gs)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	scatter := gs.SymbolTable().Scatter().ID
	for i := 0; i < 2_000; i++ {
		if n := g.Generate(false).Count(scatter); n < 3 {
			t.Fatalf("forced grid must hold >= 3 scatters, got %d", n)
		}
	}
}

func TestNoForcedSeedingInHighVolatility(t *testing.T) {
	gs := testSetting(t).Clone()
	gs.Grid.ForcedBonusChance = 1
	// 讓分散符號幾乎不會被自然抽到
	for i := range gs.Symbols {
		if gs.Symbols[i].Scatter {
			gs.Symbols[i].Weight = 1e-9
		}
	}
	if err := gs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	g, err := NewGridGenerator(core.New(core.Default().New(3)), gs)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	scatter := gs.SymbolTable().Scatter().ID
	for i := 0; i < 2_000; i++ {
		if n := g.Generate(true).Count(scatter); n != 0 {
			t.Fatalf("high volatility grid must not be pre-seeded, got %d scatters", n)
		}
	}
}

func TestHighVolatilityWeights(t *testing.T) {
	gs := testSetting(t)
	g, err := NewGridGenerator(core.New(core.Default().New(4)), gs)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	st := gs.SymbolTable()
	vol := gs.Grid.HighVolatility
	for i := 0; i < st.Len(); i++ {
		s := st.At(i)
		want := s.Weight
		if s.Wild {
			want *= vol.WildBoost
		}
		if s.TopPay() > vol.HighTierThreshold {
			want *= vol.HighTierBoost
		}
		if got := g.Weight(i, true); math.Abs(got-want) > 1e-12 {
			t.Fatalf("%s boosted weight want %v got %v", s.Name, want, got)
		}
		if got := g.Weight(i, false); got != s.Weight {
			t.Fatalf("%s base weight changed", s.Name)
		}
	}
	// 百搭同時是高階符號：兩種加成疊加 (15 * 3 * 2)
	w, _ := st.Wild()
	if got := g.Weight(st.Index(w.ID), true); got != 90 {
		t.Fatalf("stacked wild boost want 90 got %v", got)
	}
	if g.Prob(st.Index(st.Scatter().ID), false, true) != 0 {
		t.Fatalf("scatter must be excluded from the no-scatter pool")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gs := testSetting(t)
	g1, _ := NewGridGenerator(core.New(core.Default().New(77)), gs)
	g2, _ := NewGridGenerator(core.New(core.Default().New(77)), gs)
	for i := 0; i < 100; i++ {
		a, b := g1.Generate(false), g2.Generate(false)
		if a.String() != b.String() {
			t.Fatalf("same seed produced different grids")
		}
	}
}
