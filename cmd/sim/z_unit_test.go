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

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestBindVarValidation(t *testing.T) {
	for _, args := range [][]string{
		{"-workers", "0"},
		{"-rounds", "0"},
		{"-format", "xml"},
		{"-pprof", "trace"},
		{"-players", "10", "-bets", "0"},
	} {
		if _, err := bindVar(args); err == nil {
			t.Fatalf("%v should be rejected", args)
		}
	}
	cfg, err := bindVar([]string{"-players", "500000", "-rounds", "100000", "-format", "YAML"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.players != maxPlayers || cfg.rounds != maxPlayerRounds || cfg.format != "yaml" {
		t.Fatalf("limits not applied: %+v", cfg)
	}
}

func TestExecuteJSON(t *testing.T) {
	cfg, err := bindVar([]string{"-rounds", "500", "-workers", "2", "-seed", "11", "-format", "json", "-pb=false"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := execute(cfg, &out); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Summary struct {
			Rounds int
			RTP    float64
		}
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if got.Summary.Rounds != 1000 {
		t.Fatalf("rounds got %d", got.Summary.Rounds)
	}
}

func TestExecutePlayersYAML(t *testing.T) {
	cfg, err := bindVar([]string{"-players", "8", "-bets", "20", "-rounds", "50", "-seed", "3", "-format", "yaml", "-pb=false"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := execute(cfg, &out); err != nil {
		t.Fatal(err)
	}
	if s := out.String(); !strings.Contains(s, "summary:") || !strings.Contains(s, "players: 8") {
		t.Fatalf("unexpected yaml:\n%s", s)
	}
	if _, err := bindVar([]string{"-bet", "abc"}); err != nil {
		t.Fatal(err)
	}
	bad, _ := bindVar([]string{"-bet", "abc", "-rounds", "1", "-pb=false"})
	if err := execute(bad, &out); err == nil {
		t.Fatal("bad bet should fail")
	}
}
