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

// Package gamecfg 載入並檢查遊戲設定（YAML）。
//
// 設定一經 Init 便視為唯讀；引擎各元件只讀不改。
package gamecfg

import (
	"bytes"
	"io"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/sdk/slot"
)

// GameSetting 一款遊戲的完整設定
type GameSetting struct {
	GameName string           `yaml:"game_name"   json:"game_name"`
	Grid     GridSetting      `yaml:"grid"        json:"grid"`
	Symbols  []SymbolSetting  `yaml:"symbols"     json:"symbols"`
	Paylines []PaylineSetting `yaml:"paylines"    json:"paylines"`
	Bet      BetSetting       `yaml:"bet"         json:"bet"`
	Bonus    BonusSetting     `yaml:"bonus"       json:"bonus"`
	MaxWinX  int              `yaml:"max_win_x"   json:"max_win_x"`
	WinTier  WinTierSetting   `yaml:"win_tier"    json:"win_tier"`
	Jackpot  JackpotSetting   `yaml:"jackpot"     json:"jackpot"`
	Timing   TimingSetting    `yaml:"timing"      json:"timing"`

	symbolTable *slot.SymbolTable
	paylines    []slot.Payline
	initFlag    bool
}

// Load 以嚴格模式解析 YAML 並完成 Init
func Load(r io.Reader) (*GameSetting, error) {
	gs := new(GameSetting)
	if err := decodeStrict(r, gs); err != nil {
		return nil, err
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	return gs, nil
}

// LoadFile 從檔案載入
func LoadFile(path string) (*GameSetting, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "gamecfg: read %s", path)
	}
	gs, err := Load(bytes.NewReader(bs))
	if err != nil {
		return nil, errs.Wrap(err, "gamecfg: load "+path)
	}
	return gs, nil
}

// LoadFS 從 fs.FS（通常是 embed.FS）載入
func LoadFS(fsys fs.FS, name string) (*GameSetting, error) {
	bs, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrapf(err, "gamecfg: read %s", name)
	}
	gs, err := Load(bytes.NewReader(bs))
	if err != nil {
		return nil, errs.Wrap(err, "gamecfg: load "+name)
	}
	return gs, nil
}

// Init 檢查各區段並建立符號表、賠付線快取，可重複呼叫
func (gs *GameSetting) Init() error {
	if gs.initFlag {
		return nil
	}
	if gs.GameName == "" {
		return errs.NewFatal("game_name is required")
	}
	if err := gs.Grid.valid(); err != nil {
		return err
	}
	syms, err := buildSymbols(gs.Symbols)
	if err != nil {
		return err
	}
	st, err := slot.NewSymbolTable(gs.Grid.Cols, syms)
	if err != nil {
		return errs.Wrap(err, "game_name: "+gs.GameName)
	}
	lines := buildPaylines(gs.Paylines)
	if err := slot.ValidatePaylines(gs.Grid.Cols, gs.Grid.Rows, lines); err != nil {
		return errs.Wrap(err, "game_name: "+gs.GameName)
	}
	for _, v := range []interface{ valid() error }{&gs.Bet, &gs.Bonus, &gs.WinTier, &gs.Jackpot, &gs.Timing} {
		if err := v.valid(); err != nil {
			return errs.Wrap(err, "game_name: "+gs.GameName)
		}
	}
	if gs.MaxWinX < 1 {
		return errs.Fatalf("game_name: %s err: max_win_x must be >= 1", gs.GameName)
	}
	gs.symbolTable = st
	gs.paylines = lines
	gs.initFlag = true
	return nil
}

// SymbolTable 回傳唯讀符號表（需先 Init）
func (gs *GameSetting) SymbolTable() *slot.SymbolTable { return gs.symbolTable }

// PaylineList 回傳賠付線（需先 Init）
func (gs *GameSetting) PaylineList() []slot.Payline { return gs.paylines }

// BetLevels 以 decimal 回傳可選押注，遞增
func (gs *GameSetting) BetLevels() []decimal.Decimal {
	out := make([]decimal.Decimal, len(gs.Bet.Levels))
	for i, b := range gs.Bet.Levels {
		out[i] = decimal.NewFromInt(int64(b))
	}
	return out
}

// StartingBalance 新 session 的起始餘額
func (gs *GameSetting) StartingBalance() decimal.Decimal {
	return decimal.NewFromFloat(gs.Bet.StartingBalance)
}

// Clone 回傳未初始化的深拷貝，供呼叫端修改後重新 Init（例如模擬器覆寫起始餘額）
func (gs *GameSetting) Clone() *GameSetting {
	c := *gs
	c.Symbols = make([]SymbolSetting, len(gs.Symbols))
	for i, s := range gs.Symbols {
		s.Pays = append([]int(nil), s.Pays...)
		c.Symbols[i] = s
	}
	c.Paylines = make([]PaylineSetting, len(gs.Paylines))
	for i, p := range gs.Paylines {
		p.Rows = append([]int(nil), p.Rows...)
		c.Paylines[i] = p
	}
	c.Bet.Levels = append([]int(nil), gs.Bet.Levels...)
	c.symbolTable = nil
	c.paylines = nil
	c.initFlag = false
	return &c
}
