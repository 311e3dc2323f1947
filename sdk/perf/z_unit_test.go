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

package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRunWritesProfile(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []string{"cpu", "heap", "allocs"} {
		calls := 0
		if err := Run(mode, dir, func() error { calls++; return nil }); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if calls != 1 {
			t.Fatalf("%s: exe called %d times", mode, calls)
		}
		if fi, err := os.Stat(filepath.Join(dir, mode+".pprof")); err != nil || fi.Size() == 0 {
			t.Fatalf("%s: profile missing: %v", mode, err)
		}
	}
}

func TestRunPassThrough(t *testing.T) {
	boom := errors.New("boom")
	if err := Run("", "", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want exe error, got %v", err)
	}
	if err := Run("trace", "", func() error { return nil }); err == nil {
		t.Fatal("unknown mode should fail")
	}
}
