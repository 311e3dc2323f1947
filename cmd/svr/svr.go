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

// svr 本機單一 session 的 HTTP 外殼。
//
// 設定來源依序為：.env、REELROUND_* 環境變數、命令列旗標（後者覆蓋前者）。
//
//	go run ./cmd/svr -addr 127.0.0.1:5808 -jackpot file://build/jackpot.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zintix-labs/reelround/gamecfg/configs"
	"github.com/zintix-labs/reelround/server"
	"github.com/zintix-labs/reelround/server/logger"
	"github.com/zintix-labs/reelround/server/netsvr"
	"github.com/zintix-labs/reelround/server/svrcfg"
)

const logBuffer = 4096

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	env, err := svrcfg.LoadEnv(".env")
	if err != nil {
		return err
	}
	var (
		addr    = orDefault(env.Addr, netsvr.DefaultAddr)
		game    = orDefault(env.Config, configs.DefaultName)
		logMode = orDefault(env.LogMode, logger.ModeDev.String())
		origins = strings.Join(env.Origins, ",")
		dsn     = env.JackpotDSN
		seed    = env.Seed
		tick    = env.Tick
	)
	fs := flag.NewFlagSet("svr", flag.ContinueOnError)
	fs.StringVar(&addr, "addr", addr, "loopback listen address")
	fs.StringVar(&game, "config", game, "embedded config name or yaml path")
	fs.StringVar(&logMode, "log-mode", logMode, "log mode: dev|prod|silence")
	fs.StringVar(&origins, "origins", origins, "comma separated CORS origins")
	fs.StringVar(&dsn, "jackpot", dsn, "jackpot store: mem:// file:// sqlite:// redis:// postgres://")
	fs.Int64Var(&seed, "seed", seed, "session seed, 0 draws one from crypto/rand")
	fs.DurationVar(&tick, "tick", tick, "session clock tick")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := logger.ParseLogMode(logMode)
	if err != nil {
		return err
	}
	log, ah := logger.NewAsync(logBuffer, mode)
	defer ah.Close()

	gs, err := configs.Open(game)
	if err != nil {
		return err
	}
	cfg := &svrcfg.SvrCfg{
		Log:        log,
		Game:       gs,
		Addr:       addr,
		Tick:       tick,
		Origins:    splitList(origins),
		JackpotDSN: dsn,
		Seed:       seed,
	}

	start := time.Now()
	err = server.Run(context.Background(), cfg)
	log.Info("server exited", "uptime", time.Since(start).Round(time.Second).String(), "dropped_logs", ah.Dropped())
	return err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
