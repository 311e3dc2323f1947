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

// Package configs 內嵌隨附的遊戲設定檔。
package configs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/gamecfg"
)

//go:embed *.yaml
var FS embed.FS

// DefaultName 預設遊戲設定檔
const DefaultName = "league_of_slots.yaml"

// Names 列出內嵌的設定檔名稱（排序後）
func Names() []string {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out
}

// Load 依檔名（可省略 .yaml）載入內嵌設定
func Load(name string) (*gamecfg.GameSetting, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if path.Ext(name) == "" {
		name += ".yaml"
	}
	if strings.ContainsAny(name, `/\:`) {
		return nil, errs.Warnf("invalid config name %q", name)
	}
	return gamecfg.LoadFS(FS, name)
}

// Default 載入預設遊戲
func Default() (*gamecfg.GameSetting, error) {
	return Load(DefaultName)
}

// Open 先當作檔案路徑載入；路徑不存在時改找同名的內嵌設定
func Open(ref string) (*gamecfg.GameSetting, error) {
	if ref != "" {
		if fi, err := os.Stat(ref); err == nil && !fi.IsDir() {
			return gamecfg.LoadFile(ref)
		}
	}
	return Load(ref)
}
