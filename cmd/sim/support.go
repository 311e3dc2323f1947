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

package main

import (
	"flag"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/gamecfg/configs"
	"github.com/zintix-labs/reelround/sdk/perf"
	"github.com/zintix-labs/reelround/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxPlayers      = 100_000
	maxPlayerRounds = 15_000 // 約 10 小時的遊玩量，再長就直接模擬機台
)

type config struct {
	game    string
	bet     string
	rounds  int
	workers int
	players int
	bets    int
	seed    int64
	format  string
	pb      bool
	pprof   string
}

func bindVar(args []string) (*config, error) {
	cfg := new(config)
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.StringVar(&cfg.game, "config", configs.DefaultName, "embedded config name or yaml path")
	fs.StringVar(&cfg.bet, "bet", "", "bet level (default: lowest level)")
	fs.IntVar(&cfg.rounds, "rounds", 1_000_000, "paid rounds per worker, or per player with -players")
	fs.IntVar(&cfg.workers, "workers", 1, "number of workers")
	fs.IntVar(&cfg.players, "players", 1, "number of players; > 1 simulates player sessions")
	fs.IntVar(&cfg.bets, "bets", 200, "player bankroll in bets")
	fs.Int64Var(&cfg.seed, "seed", 0, "int64 seed, < 1 draws one from crypto/rand")
	fs.StringVar(&cfg.format, "format", "table", "report format: table|json|yaml")
	fs.BoolVar(&cfg.pb, "pb", true, "show progress bar")
	fs.StringVar(&cfg.pprof, "pprof", "", "pprof: '', cpu, heap, allocs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, cfg.valid()
}

func (cfg *config) valid() error {
	cfg.format = strings.ToLower(strings.TrimSpace(cfg.format))
	switch {
	case cfg.workers < 1:
		return errs.NewWarn("workers must > 0")
	case cfg.players < 1:
		return errs.NewWarn("players must > 0")
	case cfg.rounds < 1:
		return errs.NewWarn("rounds must > 0")
	case cfg.players > 1 && cfg.bets < 1:
		return errs.NewWarn("bets must >= 1")
	case !perf.Valid(cfg.pprof):
		return errs.Warnf("unknown pprof mode %q", cfg.pprof)
	}
	if _, err := stats.RenderFor(cfg.format); err != nil {
		return err
	}
	if cfg.players > maxPlayers {
		cfg.players = maxPlayers
	}
	if cfg.players > 1 && cfg.rounds > maxPlayerRounds {
		cfg.rounds = maxPlayerRounds
	}
	return nil
}

func execute(cfg *config, out io.Writer) error {
	gs, err := configs.Open(cfg.game)
	if err != nil {
		return err
	}
	var sim *reelround.Simulator
	if cfg.seed < 1 {
		sim, err = reelround.NewSimulator(gs)
	} else {
		sim, err = reelround.NewSimulatorWithSeed(gs, cfg.seed)
	}
	if err != nil {
		return err
	}
	bet := gs.BetLevels()[0]
	if cfg.bet != "" {
		if bet, err = decimal.NewFromString(cfg.bet); err != nil {
			return errs.Warnf("bet %q: %v", cfg.bet, err)
		}
	}
	rep, _ := stats.RenderFor(cfg.format)
	table := cfg.format == "" || cfg.format == "table"

	green, reset := "\033[1;32m", "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.players == 1 {
		if table {
			p.Fprintf(out, "%s[GAME:%s] [BET:%s] [WORKERS:%d] [ROUNDS:%d] [SEED:%d]%s\n",
				green, sim.GameName, bet, cfg.workers, cfg.workers*cfg.rounds, sim.Seed(), reset)
		}
		st, used, err := sim.SimMP(bet, cfg.rounds, cfg.workers, cfg.pb)
		if err != nil {
			return err
		}
		if table {
			st.StdOut(used)
			return nil
		}
		return st.WriteWith(out, rep)
	}

	if table {
		p.Fprintf(out, "%s[GAME:%s] [BET:%s] [WORKERS:%d] [PLAYERS:%d BANKROLL:%d ROUNDS:%d] [SEED:%d]%s\n",
			green, sim.GameName, bet, cfg.workers, cfg.players, cfg.bets, cfg.rounds, sim.Seed(), reset)
	}
	st, est, used, err := sim.SimPlayers(bet, cfg.players, cfg.bets, cfg.rounds, cfg.workers, cfg.pb)
	if err != nil {
		return err
	}
	if table {
		st.StdOut(used)
		return est.Write(out)
	}
	if err := st.WriteWith(out, rep); err != nil {
		return err
	}
	switch cfg.format {
	case "json":
		return (&stats.JsonEstimatorRender{}).Write(out, est)
	default:
		if _, err := io.WriteString(out, "---\n"); err != nil {
			return err
		}
		return (&stats.YAMLEstimatorRender{}).Write(out, est)
	}
}
