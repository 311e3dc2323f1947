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
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelround/gamecfg"
)

func testSetting() gamecfg.JackpotSetting {
	return gamecfg.JackpotSetting{Key: "test_jackpot", Seed: 10000, Contribution: 0.05, Chance: 0.001}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// storeRoundTrip 所有 Store 實作共用的行為檢查
func storeRoundTrip(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	if _, found, err := st.Load(ctx, "missing"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}
	if err := st.Save(ctx, "k", dec("10002.5")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Save(ctx, "k", dec("10005.05")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := st.Load(ctx, "k")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if !v.Equal(dec("10005.05")) {
		t.Fatalf("want 10005.05, got %s", v)
	}
}

func TestMemStore(t *testing.T) {
	storeRoundTrip(t, NewMemStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jackpot.json")
	st, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	storeRoundTrip(t, st)

	// 另開一個實例應讀到同一份資料
	again, _ := NewFileStore(path)
	v, found, err := again.Load(context.Background(), "k")
	if err != nil || !found || !v.Equal(dec("10005.05")) {
		t.Fatalf("reopen: v=%s found=%v err=%v", v, found, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jackpot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, _ := NewFileStore(path)
	if _, _, err := st.Load(context.Background(), "k"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jackpot.db")
	st, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	storeRoundTrip(t, st)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REELROUND_TEST_REDIS")
	if url == "" {
		t.Skip("REELROUND_TEST_REDIS not set")
	}
	st, err := OpenRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	st.prefix = "reelround_test:"
	st.rdb.Del(context.Background(), st.prefix+"k", st.prefix+"missing")
	storeRoundTrip(t, st)
}

func TestPGStore(t *testing.T) {
	dsn := os.Getenv("REELROUND_TEST_PG")
	if dsn == "" {
		t.Skip("REELROUND_TEST_PG not set")
	}
	st, err := OpenPG(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	if _, err := st.dbc.Exec(context.Background(), `DELETE FROM jackpot_pool WHERE key IN ('k','missing')`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	storeRoundTrip(t, st)
}

func TestOpenStoreSchemes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := []struct {
		dsn  string
		want string
	}{
		{"", "*jackpot.MemStore"},
		{"mem://", "*jackpot.MemStore"},
		{"file://" + filepath.Join(dir, "j.json"), "*jackpot.FileStore"},
		{"sqlite://" + filepath.Join(dir, "j.db"), "*jackpot.SQLiteStore"},
	}
	for _, c := range cases {
		st, err := OpenStore(ctx, c.dsn)
		if err != nil {
			t.Fatalf("%q: %v", c.dsn, err)
		}
		if got := typeName(st); got != c.want {
			t.Fatalf("%q: want %s got %s", c.dsn, c.want, got)
		}
		st.Close()
	}
	for _, bad := range []string{"nope", "ftp://x"} {
		if _, err := OpenStore(ctx, bad); err == nil {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func typeName(st Store) string {
	switch st.(type) {
	case *MemStore:
		return "*jackpot.MemStore"
	case *FileStore:
		return "*jackpot.FileStore"
	case *SQLiteStore:
		return "*jackpot.SQLiteStore"
	default:
		return "?"
	}
}

func TestPoolSeedsAndContributes(t *testing.T) {
	st := NewMemStore()
	p := Open(context.Background(), st, testSetting(), nil)
	if !p.Value().Equal(dec("10000")) {
		t.Fatalf("fresh pool should start at seed, got %s", p.Value())
	}
	if c := p.Contribute(dec("50")); !c.Equal(dec("2.5")) {
		t.Fatalf("contribution want 2.5 got %s", c)
	}
	if !p.Value().Equal(dec("10002.5")) {
		t.Fatalf("pool want 10002.5 got %s", p.Value())
	}
	saved, found, _ := st.Load(context.Background(), "test_jackpot")
	if !found || !saved.Equal(dec("10002.5")) {
		t.Fatalf("pool not persisted after change: %s", saved)
	}
}

func TestPoolLoadsOnce(t *testing.T) {
	st := NewMemStore()
	st.Save(context.Background(), "test_jackpot", dec("12345.6"))
	p := Open(context.Background(), st, testSetting(), nil)
	if !p.Value().Equal(dec("12345.6")) {
		t.Fatalf("pool should resume from store, got %s", p.Value())
	}
	// 之後的 store 變動不影響池值
	st.Save(context.Background(), "test_jackpot", dec("1"))
	if !p.Value().Equal(dec("12345.6")) {
		t.Fatalf("pool must only read the store at open")
	}
}

func TestPoolAwardResets(t *testing.T) {
	st := NewMemStore()
	p := Open(context.Background(), st, testSetting(), nil)
	p.Contribute(dec("100"))
	won := p.Award()
	if !won.Equal(dec("10005")) {
		t.Fatalf("award want 10005 got %s", won)
	}
	if !p.Value().Equal(p.Seed()) {
		t.Fatalf("pool should reset to seed, got %s", p.Value())
	}
	saved, _, _ := st.Load(context.Background(), "test_jackpot")
	if !saved.Equal(dec("10000")) {
		t.Fatalf("reset not persisted: %s", saved)
	}
}

type brokenStore struct{ saves int }

func (b *brokenStore) Load(context.Context, string) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, errors.New("down")
}
func (b *brokenStore) Save(context.Context, string, decimal.Decimal) error {
	b.saves++
	return errors.New("down")
}
func (b *brokenStore) Close() error { return nil }

func TestPoolIgnoresStoreFailures(t *testing.T) {
	b := &brokenStore{}
	p := Open(context.Background(), b, testSetting(), nil)
	p.Contribute(dec("50"))
	if !p.Value().Equal(dec("10002.5")) {
		t.Fatalf("store failure must not change the in-memory value, got %s", p.Value())
	}
	if b.saves != 1 {
		t.Fatalf("only the contribution should attempt a save, got %d", b.saves)
	}
}

// loadFailStore 讀取逾時但寫入正常，內部仍保有先前累積的值
type loadFailStore struct {
	*MemStore
	loadErr error
}

func (l *loadFailStore) Load(context.Context, string) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, l.loadErr
}

func TestPoolLoadFailureKeepsStoredValue(t *testing.T) {
	st := &loadFailStore{MemStore: NewMemStore(), loadErr: errors.New("timeout")}
	ctx := context.Background()
	key := testSetting().Key
	if err := st.MemStore.Save(ctx, key, dec("12345.5")); err != nil {
		t.Fatal(err)
	}
	p := Open(ctx, st, testSetting(), nil)
	if !p.Value().Equal(dec("10000")) {
		t.Fatalf("pool should start from seed in memory, got %s", p.Value())
	}
	v, _, _ := st.MemStore.Load(ctx, key)
	if !v.Equal(dec("12345.5")) {
		t.Fatalf("load error must not overwrite the stored pool, got %s", v)
	}
	p.Contribute(dec("50"))
	if v, _, _ = st.MemStore.Load(ctx, key); !v.Equal(dec("10002.5")) {
		t.Fatalf("first change should be written, got %s", v)
	}
}
