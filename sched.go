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

package reelround

import (
	"container/heap"
	"time"
)

// timerID 0 表示無效
type timerID uint64

type timerEntry struct {
	id    timerID
	at    time.Duration // 虛擬時鐘上的觸發時間
	seq   uint64        // 同時觸發時依排程先後
	fn    func()
	index int
}

// scheduler 單執行緒的虛擬時鐘排程器（min-heap）。
// 時間只在 advance 時前進；callback 內可再排程，落在本次 advance 範圍內的也會觸發。
type scheduler struct {
	now  time.Duration
	seq  uint64
	next timerID
	heap []*timerEntry
	byID map[timerID]*timerEntry
}

func newScheduler() *scheduler {
	return &scheduler{byID: make(map[timerID]*timerEntry)}
}

func (q *scheduler) Len() int { return len(q.heap) }
func (q *scheduler) Less(i, j int) bool {
	if q.heap[i].at != q.heap[j].at {
		return q.heap[i].at < q.heap[j].at
	}
	return q.heap[i].seq < q.heap[j].seq
}
func (q *scheduler) Swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}
func (q *scheduler) Push(x any) {
	t := x.(*timerEntry)
	t.index = len(q.heap)
	q.heap = append(q.heap, t)
}
func (q *scheduler) Pop() any {
	n := len(q.heap)
	t := q.heap[n-1]
	t.index = -1
	q.heap[n-1] = nil
	q.heap = q.heap[:n-1]
	return t
}

// after 在 d 之後執行 fn；d < 0 視為 0
func (q *scheduler) after(d time.Duration, fn func()) timerID {
	if d < 0 {
		d = 0
	}
	q.next++
	q.seq++
	t := &timerEntry{id: q.next, at: q.now + d, seq: q.seq, fn: fn}
	q.byID[t.id] = t
	heap.Push(q, t)
	return t.id
}

// cancel 取消尚未觸發的 timer，回傳是否真的取消了
func (q *scheduler) cancel(id timerID) bool {
	t, ok := q.byID[id]
	if !ok {
		return false
	}
	delete(q.byID, id)
	heap.Remove(q, t.index)
	return true
}

func (q *scheduler) pending() int { return len(q.heap) }

// peek 下一個 timer 的剩餘時間
func (q *scheduler) peek() (time.Duration, bool) {
	if len(q.heap) == 0 {
		return 0, false
	}
	return q.heap[0].at - q.now, true
}

// advance 時鐘前進 d，依序觸發所有到期的 timer，回傳觸發數量
func (q *scheduler) advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := q.now + d
	fired := 0
	for len(q.heap) > 0 && q.heap[0].at <= target {
		t := heap.Pop(q).(*timerEntry)
		delete(q.byID, t.id)
		q.now = t.at
		t.fn()
		fired++
	}
	q.now = target
	return fired
}

// fireNext 直接跳到下一個 timer 並觸發
func (q *scheduler) fireNext() bool {
	d, ok := q.peek()
	if !ok {
		return false
	}
	q.advance(d)
	return true
}
