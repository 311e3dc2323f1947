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

// Event 音效/動畫協作者的通知類型，送出後不等待
type Event uint8

const (
	EventClick Event = iota
	EventSpinStart
	EventReelStop
	EventWinSmall
	EventWinBig
	EventBonus
	EventJackpot
	EventGambleWin
	EventGambleLose
)

var eventNames = [...]string{
	"click",
	"spin_start",
	"reel_stop",
	"win_small",
	"win_big",
	"bonus",
	"jackpot",
	"gamble_win",
	"gamble_lose",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

func (e Event) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Event) UnmarshalText(b []byte) error {
	i, err := lookupName(eventNames[:], b, "event")
	*e = Event(i)
	return err
}

// Notifier 接收事件。實作不可阻塞，也不可回頭呼叫 Session。
type Notifier interface {
	Notify(Event)
}

// NotifierFunc 讓一般函式成為 Notifier
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// Renderer 每次狀態改變後收到最新快照
type Renderer func(Snapshot)
