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
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/errs"
)

// FileStore 以 JSON 物件 {"key": "value"} 存在單一檔案。
// 寫入先寫暫存檔再 rename，中途中斷不會留下半個檔案。
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errs.NewWarn("jackpot: file store path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrapf(err, "jackpot: mkdir %s", dir)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errs.Wrapf(err, "jackpot: read %s", s.path)
	}
	m := map[string]string{}
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errs.Wrapf(err, "jackpot: decode %s", s.path)
	}
	return m, nil
}

func (s *FileStore) Load(_ context.Context, key string) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return decimal.Zero, false, err
	}
	raw, ok := m[key]
	if !ok {
		return decimal.Zero, false, nil
	}
	v, err := parseValue(raw)
	return v, err == nil, err
}

func (s *FileStore) Save(_ context.Context, key string, v decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	m[key] = v.String()
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.Wrap(err, "jackpot: encode")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".jackpot-*")
	if err != nil {
		return errs.Wrap(err, "jackpot: create temp")
	}
	name := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(name)
		return errs.Wrap(err, "jackpot: write temp")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return errs.Wrap(err, "jackpot: close temp")
	}
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return errs.Wrapf(err, "jackpot: rename to %s", s.path)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
