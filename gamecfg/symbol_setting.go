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
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/sdk/slot"
)

// SymbolSetting 單一符號設定
//
//	symbols:
//	  - { id: 1, name: POPI, pays: [0, 0, 20, 100, 400], weight: 60 }
type SymbolSetting struct {
	ID      int     `yaml:"id"                json:"id"`
	Name    string  `yaml:"name"              json:"name"`
	Pays    []int   `yaml:"pays"              json:"pays"`
	Weight  float64 `yaml:"weight"            json:"weight"`
	Wild    bool    `yaml:"wild,omitempty"    json:"wild,omitempty"`
	Scatter bool    `yaml:"scatter,omitempty" json:"scatter,omitempty"`
}

// PaylineSetting 賠付線設定
type PaylineSetting struct {
	ID    int    `yaml:"id"              json:"id"`
	Rows  []int  `yaml:"rows"            json:"rows"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

func buildSymbols(src []SymbolSetting) ([]slot.Symbol, error) {
	out := make([]slot.Symbol, len(src))
	for i, s := range src {
		if s.ID < -32768 || s.ID > 32767 {
			return nil, errs.Fatalf("symbol %q id %d out of int16 range", s.Name, s.ID)
		}
		out[i] = slot.Symbol{
			ID:      slot.SymbolID(s.ID),
			Name:    s.Name,
			Pays:    append([]int(nil), s.Pays...),
			Weight:  s.Weight,
			Wild:    s.Wild,
			Scatter: s.Scatter,
		}
	}
	return out, nil
}

func buildPaylines(src []PaylineSetting) []slot.Payline {
	out := make([]slot.Payline, len(src))
	for i, p := range src {
		out[i] = slot.Payline{ID: p.ID, Rows: append([]int(nil), p.Rows...), Color: p.Color}
	}
	return out
}
