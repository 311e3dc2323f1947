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
	"sync"

	"github.com/shopspring/decimal"
)

// MemStore 行程內 Store，每個模擬 worker 各自一份
type MemStore struct {
	mu sync.Mutex
	m  map[string]decimal.Decimal
}

func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]decimal.Decimal)}
}

func (s *MemStore) Load(_ context.Context, key string) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Save(_ context.Context, key string, v decimal.Decimal) error {
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Close() error { return nil }
