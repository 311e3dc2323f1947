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

// Package slot 定義盤面的基本資料：符號表、賠付線、盤面。
package slot

import (
	"github.com/zintix-labs/reelround/errs"
)

// SymbolID 符號代號
type SymbolID int16

// Symbol 符號定義。
//
// Pays[n-1] 為連續 n 個相同符號的賠付倍數；1 連線（含以下）永遠不賠。
// Wild 與 Scatter 互斥。
type Symbol struct {
	ID      SymbolID `json:"id"`
	Name    string   `json:"name"`
	Pays    []int    `json:"pays"`
	Weight  float64  `json:"weight"`
	Wild    bool     `json:"wild,omitempty"`
	Scatter bool     `json:"scatter,omitempty"`
}

// Pay 回傳 count 連線的倍數；超出賠付表或 count < 1 時回傳 0。
func (s *Symbol) Pay(count int) int {
	if count < 1 || count > len(s.Pays) {
		return 0
	}
	return s.Pays[count-1]
}

// TopPay 最長連線的倍數，用來判斷是否為高階符號
func (s *Symbol) TopPay() int {
	if len(s.Pays) == 0 {
		return 0
	}
	return s.Pays[len(s.Pays)-1]
}

// SymbolTable 靜態符號目錄，載入後不可變更。
type SymbolTable struct {
	syms    []Symbol
	index   map[SymbolID]int
	wild    int
	scatter int
}

// NewSymbolTable 建立符號表並檢查：
//   - id 不重複、權重 > 0、Pays 長度等於盤面列數
//   - 恰好一個 Scatter、至多一個 Wild、兩者不可同時成立
func NewSymbolTable(cols int, syms []Symbol) (*SymbolTable, error) {
	if len(syms) == 0 {
		return nil, errs.NewFatal("symbol table is empty")
	}
	st := &SymbolTable{
		syms:    make([]Symbol, len(syms)),
		index:   make(map[SymbolID]int, len(syms)),
		wild:    -1,
		scatter: -1,
	}
	for i, s := range syms {
		if _, dup := st.index[s.ID]; dup {
			return nil, errs.Fatalf("duplicate symbol id %d", s.ID)
		}
		if !(s.Weight > 0) {
			return nil, errs.Fatalf("symbol %q weight must be > 0", s.Name)
		}
		if len(s.Pays) != cols {
			return nil, errs.Fatalf("symbol %q pays length %d != cols %d", s.Name, len(s.Pays), cols)
		}
		for _, p := range s.Pays {
			if p < 0 {
				return nil, errs.Fatalf("symbol %q has negative pay", s.Name)
			}
		}
		if s.Wild && s.Scatter {
			return nil, errs.Fatalf("symbol %q cannot be both wild and scatter", s.Name)
		}
		if s.Wild {
			if st.wild >= 0 {
				return nil, errs.NewFatal("at most one wild symbol is allowed")
			}
			st.wild = i
		}
		if s.Scatter {
			if st.scatter >= 0 {
				return nil, errs.NewFatal("exactly one scatter symbol is required, found more")
			}
			st.scatter = i
		}
		s.Pays = append([]int(nil), s.Pays...)
		st.syms[i] = s
		st.index[s.ID] = i
	}
	if st.scatter < 0 {
		return nil, errs.NewFatal("exactly one scatter symbol is required, found none")
	}
	return st, nil
}

// Len 符號數量
func (st *SymbolTable) Len() int { return len(st.syms) }

// At 依目錄順序取得符號
func (st *SymbolTable) At(i int) *Symbol { return &st.syms[i] }

// Index 回傳 id 在目錄中的位置，不存在回傳 -1
func (st *SymbolTable) Index(id SymbolID) int {
	if i, ok := st.index[id]; ok {
		return i
	}
	return -1
}

// ByID 依 id 取得符號
func (st *SymbolTable) ByID(id SymbolID) (*Symbol, bool) {
	i, ok := st.index[id]
	if !ok {
		return nil, false
	}
	return &st.syms[i], true
}

// Wild 回傳百搭符號；目錄沒有百搭時 ok 為 false
func (st *SymbolTable) Wild() (*Symbol, bool) {
	if st.wild < 0 {
		return nil, false
	}
	return &st.syms[st.wild], true
}

// Scatter 回傳唯一的分散符號
func (st *SymbolTable) Scatter() *Symbol { return &st.syms[st.scatter] }

func (st *SymbolTable) IsWild(id SymbolID) bool {
	return st.wild >= 0 && st.syms[st.wild].ID == id
}

func (st *SymbolTable) IsScatter(id SymbolID) bool {
	return st.syms[st.scatter].ID == id
}

// Symbols 回傳目錄複本
func (st *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(st.syms))
	for i, s := range st.syms {
		s.Pays = append([]int(nil), s.Pays...)
		out[i] = s
	}
	return out
}
