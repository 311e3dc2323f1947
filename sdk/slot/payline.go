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

import "github.com/zintix-labs/reelround/errs"

// Payline 每一列指定一個 row，由左至右檢查連線。Color 僅供顯示。
type Payline struct {
	ID    int    `json:"id"`
	Rows  []int  `json:"rows"`
	Color string `json:"color,omitempty"`
}

// ValidatePaylines 檢查賠付線長度、row 範圍與 id 唯一。
func ValidatePaylines(cols int, rows int, lines []Payline) error {
	if len(lines) == 0 {
		return errs.NewFatal("at least one payline is required")
	}
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		if seen[l.ID] {
			return errs.Fatalf("duplicate payline id %d", l.ID)
		}
		seen[l.ID] = true
		if len(l.Rows) != cols {
			return errs.Fatalf("payline %d has %d positions, want %d", l.ID, len(l.Rows), cols)
		}
		for _, r := range l.Rows {
			if r < 0 || r >= rows {
				return errs.Fatalf("payline %d row %d out of range [0,%d)", l.ID, r, rows)
			}
		}
	}
	return nil
}
