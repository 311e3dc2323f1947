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
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
)

const (
	pgTable    = "jackpot_pool"
	pgColKey   = "key"
	pgColValue = "value"
	pgColAt    = "updated_at"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS jackpot_pool (
	key        TEXT PRIMARY KEY,
	value      NUMERIC(30, 8) NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PGStore PostgreSQL 實作
type PGStore struct {
	dbc *pgxpool.Pool
}

func OpenPG(ctx context.Context, dsn string) (*PGStore, error) {
	dbc, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errs.Wrap(err, "jackpot: pg connect")
	}
	if err := dbc.Ping(ctx); err != nil {
		dbc.Close()
		return nil, errs.Wrap(err, "jackpot: pg ping")
	}
	if _, err := dbc.Exec(ctx, pgSchema); err != nil {
		dbc.Close()
		return nil, errs.Wrap(err, "jackpot: pg schema")
	}
	return &PGStore{dbc: dbc}, nil
}

func (s *PGStore) Load(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	sqlStr, args, err := psql.Select(pgColValue + "::text").
		From(pgTable).
		Where(sq.Eq{pgColKey: key}).
		ToSql()
	if err != nil {
		return decimal.Zero, false, errs.Wrap(err, "jackpot: build select")
	}
	var raw string
	err = s.dbc.QueryRow(ctx, sqlStr, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errs.Wrap(err, "jackpot: pg load")
	}
	v, err := parseValue(raw)
	return v, err == nil, err
}

func (s *PGStore) Save(ctx context.Context, key string, v decimal.Decimal) error {
	sqlStr, args, err := psql.Insert(pgTable).
		Columns(pgColKey, pgColValue, pgColAt).
		Values(key, v.String(), sq.Expr("now()")).
		Suffix("ON CONFLICT (" + pgColKey + ") DO UPDATE SET " +
			pgColValue + " = EXCLUDED." + pgColValue + ", " +
			pgColAt + " = EXCLUDED." + pgColAt).
		ToSql()
	if err != nil {
		return errs.Wrap(err, "jackpot: build upsert")
	}
	if _, err := s.dbc.Exec(ctx, sqlStr, args...); err != nil {
		return errs.Wrap(err, "jackpot: pg save")
	}
	return nil
}

func (s *PGStore) Close() error {
	s.dbc.Close()
	return nil
}
