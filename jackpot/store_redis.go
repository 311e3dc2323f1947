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

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
)

// RedisStore 以 "reelround:" 前綴的字串 key 保存彩金值，多台 shell 可共用同一個池
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

const redisPrefix = "reelround:"

// OpenRedis 解析 redis:// URL 並 Ping 一次確認可用
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errs.Warnf("jackpot: parse redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errs.Wrap(err, "jackpot: redis ping")
	}
	return NewRedisStore(rdb), nil
}

// NewRedisStore 使用既有的 client；Close 會一併關閉它
func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: redisPrefix}
}

func (s *RedisStore) Load(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errs.Wrap(err, "jackpot: redis get")
	}
	v, err := parseValue(raw)
	return v, err == nil, err
}

func (s *RedisStore) Save(ctx context.Context, key string, v decimal.Decimal) error {
	if err := s.rdb.Set(ctx, s.prefix+key, v.String(), 0).Err(); err != nil {
		return errs.Wrap(err, "jackpot: redis set")
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
