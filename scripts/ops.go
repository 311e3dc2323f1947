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

// ops 開發用的任務入口，取代 Makefile：
//
//	go run ./scripts test | test-detail | cover | sim | svr
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

type task struct {
	desc   string
	args   []string
	filter func(line string) (string, bool) // nil 代表直接輸出
}

var tasks = map[string]task{
	"test": {
		desc:   "go test ./... -cover -count=1，只顯示 ok / FAIL",
		args:   []string{"test", "./...", "-cover", "-count=1"},
		filter: summaryOnly,
	},
	"test-detail": {
		desc:   "verbose 測試，略過沒有測試檔的套件",
		args:   []string{"test", "./...", "-v", "-count=1"},
		filter: skipNoTests,
	},
	"cover": {
		desc: "輸出 build/cover.out",
		args: []string{"test", "./...", "-coverprofile=build/cover.out"},
	},
	"sim": {
		desc: "預設遊戲 4 workers 各跑 25 萬局",
		args: []string{"run", "./cmd/sim", "-rounds", "250000", "-workers", "4"},
	},
	"svr": {
		desc: "啟動本機外殼",
		args: []string{"run", "./cmd/svr"},
	},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	t, ok := tasks[name]
	if !ok {
		printColor(colorYellow, "unknown task: "+name)
		usage()
		os.Exit(1)
	}
	printColor(colorGreen, "running "+name)
	if name == "cover" {
		_ = os.MkdirAll("build", 0o755)
	}
	if err := run(t, os.Args[2:]); err != nil {
		printColor(colorRed, fmt.Sprintf("\n%s finished with errors: %v", name, err))
		os.Exit(1)
	}
}

func run(t task, extra []string) error {
	if strings.HasPrefix(t.args[0], "test") {
		// 快取的結果會掩蓋隨機種子相關的問題
		_ = exec.Command("go", "clean", "-testcache").Run()
	}
	cmd := exec.Command("go", append(t.args, extra...)...)
	cmd.Stdin = os.Stdin
	if t.filter == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(pr)
		for sc.Scan() {
			if line, ok := t.filter(sc.Text()); ok {
				fmt.Println(line)
			}
		}
	}()
	err := cmd.Wait()
	pw.Close()
	<-done
	return err
}

func summaryOnly(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "ok"):
		return colorGreen + line + colorReset, true
	case strings.HasPrefix(line, "FAIL"),
		strings.Contains(line, "build failed"),
		strings.Contains(line, "setup failed"):
		return colorRed + line + colorReset, true
	}
	return "", false
}

func skipNoTests(line string) (string, bool) {
	if strings.Contains(line, "[no test files]") {
		return "", false
	}
	if l, ok := summaryOnly(line); ok {
		return l, true
	}
	return line, true
}

func usage() {
	fmt.Println("usage: go run ./scripts <task> [args...]")
	for _, name := range []string{"test", "test-detail", "cover", "sim", "svr"} {
		fmt.Printf("  %-12s %s\n", name, tasks[name].desc)
	}
}

func printColor(color, msg string) {
	fmt.Printf("%s%s%s\n", color, msg, colorReset)
}
