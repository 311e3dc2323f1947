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

// Package perf 以 runtime/pprof 包住一次執行，輸出 cpu / heap / allocs profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/reelround/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Modes 支援的 profile 種類；空字串代表不量測
var Modes = []string{"", "cpu", "heap", "allocs"}

// Valid 檢查 mode 是否支援
func Valid(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Run 依 mode 量測 exe，profile 寫到 dir/<mode>.pprof。
// exe 的錯誤優先回傳；profile 寫檔失敗則回傳 Fatal。
//
//	go run ./cmd/sim -pprof cpu
//	go tool pprof build/profiling/cpu.pprof
func Run(mode, dir string, exe func() error) error {
	if !Valid(mode) {
		return errs.Warnf("pprof mode %q, want one of cpu|heap|allocs", mode)
	}
	if mode == "" {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.NewFatal("create profiling dir: " + err.Error())
	}
	f, err := os.Create(filepath.Join(dir, mode+".pprof"))
	if err != nil {
		return errs.NewFatal("create profile: " + err.Error())
	}
	defer f.Close()

	if mode == "cpu" {
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.NewFatal("start cpu profile: " + err.Error())
		}
		err := exe()
		pprof.StopCPUProfile()
		return err
	}

	if err := exe(); err != nil {
		return err
	}
	// heap 是存活物件快照，先 GC 讓結果貼近實際；allocs 為累積配置
	if mode == "heap" {
		runtime.GC()
	}
	prof := pprof.Lookup(mode)
	if prof == nil {
		return errs.NewFatal("no such profile: " + mode)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.NewFatal("write " + mode + " profile: " + err.Error())
	}
	return nil
}
