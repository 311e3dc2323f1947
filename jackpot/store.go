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

// Package jackpot 累積彩金池與其持久化。
//
// 彩金池只保存一個數值，以固定 key 存取；Session 啟動時讀取一次，每次變動後寫回。
// Store 有多種實作，透過 OpenStore 依 DSN scheme 選擇：
//
//	mem://                          行程內（模擬器、測試）
//	file:///var/lib/reelround.json  JSON 檔，原子性改名寫入
//	sqlite://./data/jackpot.db      SQLite
//	redis://localhost:6379/0        Redis
//	postgres://user:pw@host/db      PostgreSQL
package jackpot

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
)

// Store 單一數值的 key/value 持久化
type Store interface {
	// Load 讀取 key；found=false 表示尚未寫入過
	Load(ctx context.Context, key string) (v decimal.Decimal, found bool, err error)
	Save(ctx context.Context, key string, v decimal.Decimal) error
	Close() error
}

// OpenStore 依 dsn 的 scheme 開啟對應的 Store。空字串視為 mem://。
func OpenStore(ctx context.Context, dsn string) (Store, error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if dsn == "" {
		scheme, ok = "mem", true
	}
	if !ok {
		return nil, errs.Warnf("jackpot: dsn %q has no scheme", dsn)
	}
	var (
		st  Store
		err error
	)
	switch strings.ToLower(scheme) {
	case "mem", "memory":
		return NewMemStore(), nil
	case "file":
		st, err = NewFileStore(rest)
	case "sqlite", "sqlite3":
		st, err = OpenSQLite(ctx, rest)
	case "redis", "rediss":
		st, err = OpenRedis(ctx, dsn)
	case "postgres", "postgresql":
		st, err = OpenPG(ctx, dsn)
	default:
		return nil, errs.Warnf("jackpot: unsupported store scheme %q", scheme)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func parseValue(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errs.Wrapf(err, "jackpot: bad stored value %q", s)
	}
	return v, nil
}
