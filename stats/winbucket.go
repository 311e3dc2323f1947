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

package stats

import "sort"

// WinBuckets 贏倍區間表
type WinBuckets struct {
	edges  []float64
	labels []string
}

// Buckets 預設贏倍區間
//
// 請勿修改預設值
//   - [0,0], (0,1), [1,2), [2,5), ..., [2000,10000), [10000,+inf)
//
// 以派彩 / 押注 的倍數落點，與押注大小無關。
var Buckets = &WinBuckets{
	edges:  []float64{0, 1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	labels: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
}

// WinBucketStr 區間標籤，長度 = Len()
func (b *WinBuckets) WinBucketStr() []string {
	return b.labels
}

// Len 區間數
func (b *WinBuckets) Len() int { return len(b.labels) }

// Index 回傳倍數 mult 所屬的區間索引。mult <= 0 一律落在 [0,0]。
func (b *WinBuckets) Index(mult float64) int {
	if mult <= 0 {
		return 0
	}
	// 計算 <= mult 的邊界數；edges[0]=0 必定計入，所以 (0,1) 為 1
	return sort.Search(len(b.edges), func(i int) bool { return b.edges[i] > mult })
}
