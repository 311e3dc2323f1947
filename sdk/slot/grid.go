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

package slot

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/zintix-labs/reelround/errs"
)

// Grid 以「列優先 (column-major)」攤平儲存的盤面：index = col*Rows + row。
type Grid struct {
	Cols  int
	Rows  int
	Cells []SymbolID
}

// NewGrid 建立空盤面
func NewGrid(cols int, rows int) Grid {
	return Grid{Cols: cols, Rows: rows, Cells: make([]SymbolID, cols*rows)}
}

// GridFromColumns 由 [col][row] 建立盤面，方便測試與回放
func GridFromColumns(cols [][]SymbolID) Grid {
	if len(cols) == 0 {
		return Grid{}
	}
	g := NewGrid(len(cols), len(cols[0]))
	for c, col := range cols {
		copy(g.Column(c), col)
	}
	return g
}

func (g Grid) Index(col int, row int) int { return col*g.Rows + row }

func (g Grid) At(col int, row int) SymbolID { return g.Cells[col*g.Rows+row] }

func (g Grid) Set(col int, row int, id SymbolID) { g.Cells[col*g.Rows+row] = id }

// Column 回傳第 col 列的切片（共用底層陣列）
func (g Grid) Column(col int) []SymbolID {
	return g.Cells[col*g.Rows : (col+1)*g.Rows]
}

// Count 計算整個盤面中 id 出現的次數
func (g Grid) Count(id SymbolID) int {
	n := 0
	for _, v := range g.Cells {
		if v == id {
			n++
		}
	}
	return n
}

func (g Grid) Clone() Grid {
	return Grid{Cols: g.Cols, Rows: g.Rows, Cells: append([]SymbolID(nil), g.Cells...)}
}

// Columns 轉成 [col][row]
func (g Grid) Columns() [][]SymbolID {
	out := make([][]SymbolID, g.Cols)
	for c := range out {
		out[c] = append([]SymbolID(nil), g.Column(c)...)
	}
	return out
}

// MarshalJSON 以 [col][row] 輸出，前端直接依列繪製
func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Columns())
}

// UnmarshalJSON 讀回 MarshalJSON 的 [col][row]；各列長度必須一致
func (g *Grid) UnmarshalJSON(b []byte) error {
	var cols [][]SymbolID
	if err := json.Unmarshal(b, &cols); err != nil {
		return err
	}
	for c, col := range cols {
		if len(col) != len(cols[0]) {
			return errs.Warnf("grid column %d has %d rows, want %d", c, len(col), len(cols[0]))
		}
	}
	*g = GridFromColumns(cols)
	return nil
}

// String 依 row 逐行輸出，方便除錯
func (g Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(int(g.At(c, r))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
