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
	"context"
	"crypto/rand"
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/jackpot"
	"github.com/zintix-labs/reelround/recorder"
	"github.com/zintix-labs/reelround/sdk/core"
	"github.com/zintix-labs/reelround/stats"
)

// Simulator 以真實的 Session 大量轉動並統計結果。
//
// 每個 worker 各自擁有 Session、PRNG 與記憶體彩金池，互不共享狀態；
// worker seed 由初始 seed 派生，同一 seed 的結果可重現（與 worker 數綁定）。
type Simulator struct {
	GameName  string
	gs        *gamecfg.GameSetting
	cf        core.PRNGFactory
	initSeed  int64
	seedmaker *seedMaker
}

// NewSimulator 以 crypto/rand 產生初始 seed
func NewSimulator(gs *gamecfg.GameSetting) (*Simulator, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return NewSimulatorWithSeed(gs, seed.Int64())
}

func NewSimulatorWithSeed(gs *gamecfg.GameSetting, seed int64) (*Simulator, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting is required")
	}
	// worker 共用唯讀的 gs，先在單執行緒完成 Init
	if err := gs.Init(); err != nil {
		return nil, err
	}
	return &Simulator{
		GameName:  gs.GameName,
		gs:        gs,
		cf:        core.Default(),
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
	}, nil
}

// Seed 初始 seed
func (s *Simulator) Seed() int64 { return s.initSeed }

// Sim 單一 worker 連續付費轉動 rounds 次，回傳統計結果與用時
func (s *Simulator) Sim(bet decimal.Decimal, rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	return s.SimMP(bet, rounds, 1, showpb)
}

// SimMP 平行執行 workers 個 Session，總計 rounds*workers 次付費轉動，合併統計結果後回傳
func (s *Simulator) SimMP(bet decimal.Decimal, rounds int, workers int, showpb bool) (*stats.StatReport, time.Duration, error) {
	if workers <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	// 派彩不為負，本金足夠付完所有押注
	balance := bet.Mul(decimal.NewFromInt(int64(rounds)))

	recs := make([]*recorder.RoundRecorder, workers)
	sess := make([]*Session, workers)
	seeds := s.workerSeeds(workers)
	for i := range workers {
		r, err := recorder.NewRoundRecorder(s.GameName, bet, 0)
		if err != nil {
			return nil, 0, err
		}
		ss, err := s.session(bet, balance, seeds[i], r)
		if err != nil {
			return nil, 0, err
		}
		recs[i], sess[i] = r, ss
	}

	bar := pb.StartNew(rounds * workers)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	var failed atomic.Pointer[errs.E]
	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for i := range workers {
		go func(ss *Session, rec *recorder.RoundRecorder) {
			defer wg.Done()
			defer ss.Close()
			for range rounds {
				if r := ss.Spin(); !r.OK() {
					failed.CompareAndSwap(nil, errs.Warnf("simulation stopped: spin rejected: %s", r))
					return
				}
				ss.Settle()
				rec.EndSpin(ss.Balance())
				bar.Increment()
			}
		}(sess[i], recs[i])
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if e := failed.Load(); e != nil {
		return nil, used, e
	}

	st, err := recorder.MergeRoundRecorder(recs)
	if err != nil {
		return nil, used, err
	}
	return st.Done(), used, nil
}

// SimPlayers 模擬 players 位玩家各自帶 bet×initBets 本金，最多轉 rounds 次；
// 餘額不足押注或達 3 倍本金即離場。回傳機台報表與玩家體驗評估。
func (s *Simulator) SimPlayers(bet decimal.Decimal, players, initBets, rounds, workers int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	if players < 1 || initBets < 1 || rounds < 1 || workers < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}

	recs := make([]*recorder.RoundRecorder, players)
	for i := range recs {
		r, err := recorder.NewRoundRecorder(s.GameName, bet, initBets)
		if err != nil {
			return nil, nil, 0, err
		}
		recs[i] = r
	}
	seeds := s.workerSeeds(players)
	balance := bet.Mul(decimal.NewFromInt(int64(initBets)))

	bar := pb.StartNew(players)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	jobs := make(chan int, 2048)
	var failed atomic.Pointer[errs.E]
	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := s.play(recs[j], bet, balance, seeds[j], rounds); err != nil {
					failed.CompareAndSwap(nil, err)
				}
				bar.Increment()
			}
		}()
	}
	for j := range recs {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if e := failed.Load(); e != nil {
		return nil, nil, used, e
	}

	record, err := recorder.MergeRoundRecorder(recs)
	if err != nil {
		return nil, nil, used, err
	}
	reports := make([]*stats.StatReport, players)
	for i, r := range recs {
		reports[i] = r.Done()
	}
	return record.Done(), stats.EstimatorPlayerExp(reports), used, nil
}

// play 單一玩家的一段遊戲歷程
func (s *Simulator) play(rec *recorder.RoundRecorder, bet, balance decimal.Decimal, seed int64, rounds int) *errs.E {
	ss, err := s.session(bet, balance, seed, rec)
	if err != nil {
		return errs.Wrap(err, "new player session")
	}
	defer ss.Close()
	for range rounds {
		if r := ss.Spin(); !r.OK() {
			if r == ReasonInsufficientFunds {
				rec.EndSpin(ss.Balance())
				return nil
			}
			return errs.Warnf("player spin rejected: %s", r)
		}
		ss.Settle()
		if rec.EndSpin(ss.Balance()) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) session(bet, balance decimal.Decimal, seed int64, rec *recorder.RoundRecorder) (*Session, error) {
	ss, err := New(context.Background(), s.gs,
		WithPRNG(s.cf),
		WithSeed(seed),
		WithStore(jackpot.NewMemStore()),
		WithStartingBalance(balance),
		WithObserver(func(rr RoundResult) { rec.Record(toRecord(rr)) }),
	)
	if err != nil {
		return nil, err
	}
	if r := ss.SetBet(bet); !r.OK() {
		return nil, errs.Warnf("bet %s not available: %s", bet, r)
	}
	return ss, nil
}

// workerSeeds 第一個 worker 直接使用初始 seed，其餘由 seedMaker 派生
func (s *Simulator) workerSeeds(n int) []int64 {
	s.seedmaker = newSeedMaker(s.initSeed)
	out := make([]int64, n)
	out[0] = s.initSeed
	for i := 1; i < n; i++ {
		out[i] = s.seedmaker.next()
	}
	return out
}

func toRecord(rr RoundResult) recorder.Round {
	return recorder.Round{
		Free:       rr.Free,
		Bet:        rr.Bet,
		Payout:     rr.Payout,
		JackpotWin: rr.JackpotWin,
		Jackpot:    rr.JackpotHit,
		Bonus:      rr.BonusTriggered,
		MaxWin:     rr.MaxWin,
	}
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state，再用可逆的 mix63 打散。
// 可被多個 goroutine 同時呼叫，CAS 保證每次取得唯一的 state。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的位移 xor 與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
