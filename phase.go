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

import "github.com/zintix-labs/reelround/errs"

// Phase Session 的主狀態。免費轉動獎勵是另一個正交的計數器（FreeSpins > 0）。
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSpinning
	PhaseResolving
	PhaseCooldown
	PhaseGambling
)

var phaseNames = [...]string{"idle", "spinning", "resolving", "cooldown", "gambling"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	i, err := lookupName(phaseNames[:], b, "phase")
	*p = Phase(i)
	return err
}

// Reason 指令的處理結果。ReasonOK 表示接受，其餘皆為拒絕且狀態不變。
type Reason uint8

const (
	ReasonOK Reason = iota
	ReasonCooldown
	ReasonRoundInFlight
	ReasonGambling
	ReasonAutoplayActive
	ReasonInsufficientFunds
	ReasonInvalidBet
	ReasonNotSpinning
	ReasonNoWin
	ReasonJackpotFeedback
	ReasonMaxWin
	ReasonNotGambling
	ReasonInvalidConfig
	ReasonFreeSpinsPending
	ReasonAutoplayInactive
)

var reasonNames = [...]string{
	"ok",
	"cooldown",
	"round_in_flight",
	"gambling",
	"autoplay_active",
	"insufficient_funds",
	"invalid_bet",
	"not_spinning",
	"no_win",
	"jackpot_feedback",
	"max_win",
	"not_gambling",
	"invalid_config",
	"free_spins_pending",
	"autoplay_inactive",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Reason) UnmarshalText(b []byte) error {
	i, err := lookupName(reasonNames[:], b, "reason")
	*r = Reason(i)
	return err
}

// OK 指令是否被接受
func (r Reason) OK() bool { return r == ReasonOK }

// Feedback 一局結束後顯示的回饋，優先序由高到低：
// MaxWin > Jackpot > Bonus > MegaWin > BigWin > SmallWin > None
type Feedback uint8

const (
	FeedbackNone Feedback = iota
	FeedbackSmallWin
	FeedbackBigWin
	FeedbackMegaWin
	FeedbackBonus
	FeedbackJackpot
	FeedbackMaxWin
)

var feedbackNames = [...]string{"none", "small_win", "big_win", "mega_win", "bonus", "jackpot", "max_win"}

func (f Feedback) String() string {
	if int(f) < len(feedbackNames) {
		return feedbackNames[f]
	}
	return "unknown"
}

func (f Feedback) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Feedback) UnmarshalText(b []byte) error {
	i, err := lookupName(feedbackNames[:], b, "feedback")
	*f = Feedback(i)
	return err
}

// featured 需要較長冷卻時間的回饋
func (f Feedback) featured() bool {
	return f >= FeedbackMegaWin
}

// StopReason 自動轉動停止的原因
type StopReason uint8

const (
	StopNone StopReason = iota
	StopMaxWin
	StopJackpot
	StopBonus
	StopWin
	StopSingleWinLimit
	StopLossLimit
	StopExhausted
	StopInsufficientFunds
	StopManual
)

var stopNames = [...]string{
	"none",
	"max_win",
	"jackpot",
	"bonus",
	"win",
	"single_win_limit",
	"loss_limit",
	"exhausted",
	"insufficient_funds",
	"manual",
}

func (s StopReason) String() string {
	if int(s) < len(stopNames) {
		return stopNames[s]
	}
	return "unknown"
}

func (s StopReason) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *StopReason) UnmarshalText(b []byte) error {
	i, err := lookupName(stopNames[:], b, "stop reason")
	*s = StopReason(i)
	return err
}

// Choice 加倍遊戲的猜測
type Choice uint8

const (
	Red Choice = iota
	Black
)

func (c Choice) String() string {
	if c == Black {
		return "black"
	}
	return "red"
}

func (c Choice) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Choice) UnmarshalText(b []byte) error {
	v, ok := ParseChoice(string(b))
	if !ok {
		return errs.Warnf("unknown choice %q", b)
	}
	*c = v
	return nil
}

// ParseChoice 解析 "red" / "black"
func ParseChoice(s string) (Choice, bool) {
	switch s {
	case "red", "RED", "Red":
		return Red, true
	case "black", "BLACK", "Black":
		return Black, true
	}
	return Red, false
}

// lookupName 文字轉回列舉值；找不到時回傳 0 與 Warn
func lookupName(names []string, b []byte, kind string) (uint8, error) {
	for i, n := range names {
		if n == string(b) {
			return uint8(i), nil
		}
	}
	return 0, errs.Warnf("unknown %s %q", kind, b)
}
