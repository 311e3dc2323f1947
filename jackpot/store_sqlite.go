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

package jackpot

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS jackpot_pool (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore 把彩金值存在 jackpot_pool 表，value 以十進位字串保存避免浮點誤差
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite 開啟（必要時建立）資料庫檔案並確保 schema 存在
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errs.NewWarn("jackpot: sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrapf(err, "jackpot: mkdir %s", dir)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, errs.Wrap(err, "jackpot: open sqlite")
	}
	// 單一連線，寫入自然序列化
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errs.Wrap(err, "jackpot: create schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM jackpot_pool WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errs.Wrap(err, "jackpot: sqlite load")
	}
	v, err := parseValue(raw)
	return v, err == nil, err
}

func (s *SQLiteStore) Save(ctx context.Context, key string, v decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO jackpot_pool (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, v.String())
	if err != nil {
		return errs.Wrap(err, "jackpot: sqlite save")
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
