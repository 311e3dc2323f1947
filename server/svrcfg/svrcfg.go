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

// Package svrcfg 是 shell server 的組裝設定，所有依賴都明確注入。
package svrcfg

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/gamecfg"
	"github.com/zintix-labs/reelround/server/logger"
	"github.com/zintix-labs/reelround/server/netsvr"
)

// 環境變數名稱
const (
	EnvAddr    = "REELROUND_ADDR"
	EnvJackpot = "REELROUND_JACKPOT_DSN"
	EnvLogMode = "REELROUND_LOG_MODE"
	EnvConfig  = "REELROUND_CONFIG"
	EnvOrigins = "REELROUND_ORIGINS"
	EnvSeed    = "REELROUND_SEED"
	EnvTick    = "REELROUND_TICK"
)

type SvrCfg struct {
	Log        *slog.Logger
	Game       *gamecfg.GameSetting
	Addr       string        // 必須是 loopback
	Tick       time.Duration // session 時鐘推進間隔
	Origins    []string      // 允許的 CORS 來源
	JackpotDSN string        // 見 jackpot.OpenStore
	Seed       int64         // 0 表示隨機
}

// Valid 補預設值並檢查必要依賴
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("async log handler is not ready")
		}
	} else {
		sc.Log = slog.New(slog.DiscardHandler)
	}
	if sc.Game == nil {
		return errs.NewFatal("game setting is required")
	}
	if sc.Addr == "" {
		sc.Addr = netsvr.DefaultAddr
	}
	host, _, err := net.SplitHostPort(sc.Addr)
	if err != nil {
		return errs.Warnf("listen address %q: %v", sc.Addr, err)
	}
	if !isLoopback(host) {
		return errs.Warnf("listen address %q must be loopback", sc.Addr)
	}
	if sc.Tick < 0 {
		return errs.Warnf("tick must be >= 0, got %v", sc.Tick)
	}
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Env 從環境變數讀到的設定；空字串代表未設定
type Env struct {
	Addr       string
	JackpotDSN string
	LogMode    string
	Config     string
	Origins    []string
	Seed       int64
	Tick       time.Duration
}

// LoadEnv 若 path 存在先載入 .env（不覆蓋既有環境變數），再讀取 REELROUND_* 變數
func LoadEnv(path string) (Env, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Env{}, errs.Wrap(err, "load "+path)
			}
		}
	}
	return ParseEnv(os.LookupEnv)
}

// ParseEnv 以 lookup 解析 REELROUND_* 變數
func ParseEnv(lookup func(string) (string, bool)) (Env, error) {
	get := func(k string) string {
		v, _ := lookup(k)
		return strings.TrimSpace(v)
	}
	e := Env{
		Addr:       get(EnvAddr),
		JackpotDSN: get(EnvJackpot),
		LogMode:    get(EnvLogMode),
		Config:     get(EnvConfig),
	}
	for _, o := range strings.Split(get(EnvOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			e.Origins = append(e.Origins, o)
		}
	}
	if v := get(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return e, errs.Warnf("%s: %v", EnvSeed, err)
		}
		e.Seed = seed
	}
	if v := get(EnvTick); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return e, errs.Warnf("%s: %v", EnvTick, err)
		}
		e.Tick = d
	}
	return e, nil
}
