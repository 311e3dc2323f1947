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

package errs

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	base := NewWarn("bet not allowed")
	w := Wrap(base, "set bet")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn level to survive wrap, got %s", w.ErrLv)
	}
	if !errors.Is(w, base) {
		t.Fatalf("wrapped error must unwrap to base")
	}
}

func TestWrapForeignIsFatal(t *testing.T) {
	w := Wrapf(io.ErrUnexpectedEOF, "load %s", "league.yaml")
	if w.ErrLv != Fatal {
		t.Fatalf("foreign cause should be fatal, got %s", w.ErrLv)
	}
	if !strings.Contains(w.Error(), "load league.yaml") {
		t.Fatalf("message lost: %s", w.Error())
	}
}

func TestLevelOf(t *testing.T) {
	if LevelOf(nil) != None {
		t.Fatalf("nil should be None")
	}
	if LevelOf(Warnf("x=%d", 1).WithExtra("ctx")) != Warn {
		t.Fatalf("expected warn")
	}
	if _, ok := AsErr(io.EOF); ok {
		t.Fatalf("io.EOF is not *E")
	}
}
