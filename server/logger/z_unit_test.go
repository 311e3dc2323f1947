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

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// blockingHandler 在 release 關閉前卡住 Handle，用來塞滿佇列
type blockingHandler struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	release chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (b *blockingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (b *blockingHandler) Handle(_ context.Context, r slog.Record) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.WriteString(r.Message + "\n")
	return nil
}
func (b *blockingHandler) WithAttrs([]slog.Attr) slog.Handler { return b }
func (b *blockingHandler) WithGroup(string) slog.Handler      { return b }

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var buf bytes.Buffer
	ah := NewAsyncHandler(slog.NewTextHandler(&buf, nil), 16)
	log := slog.New(ah).With("k", "v")
	for range 5 {
		log.Info("hello")
	}
	ah.Close()
	if got := strings.Count(buf.String(), "msg=hello k=v"); got != 5 {
		t.Fatalf("want 5 lines after close, got %d:\n%s", got, buf.String())
	}
	log.Info("after close")
	if ah.Dropped() != 1 {
		t.Fatalf("write after close should be dropped, got %d", ah.Dropped())
	}
	ah.Close()
}

func TestAsyncHandlerDropsWhenFull(t *testing.T) {
	bh := &blockingHandler{release: make(chan struct{}), entered: make(chan struct{})}
	ah := NewAsyncHandler(bh, 2)
	log := slog.New(ah)
	log.Info("first")
	<-bh.entered // worker 已取走 first 並卡住
	log.Info("q1")
	log.Info("q2")
	log.Info("overflow")
	if ah.Dropped() != 1 {
		t.Fatalf("want 1 dropped, got %d", ah.Dropped())
	}
	close(bh.release)
	ah.Close()
	if got := strings.Count(bh.buf.String(), "\n"); got != 3 {
		t.Fatalf("want 3 handled, got %d", got)
	}
}

func TestParseLogMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "dev": ModeDev, "ModeProd": ModeProd, "PROD": ModeProd, "silence": ModeSilence}
	for in, want := range cases {
		got, err := ParseLogMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseLogMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLogMode("loud"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestHandlerForLevels(t *testing.T) {
	var dev, prod bytes.Buffer
	ctx := context.Background()
	if !handlerFor(ModeDev, &dev, &prod).Enabled(ctx, slog.LevelDebug) {
		t.Fatalf("dev should log debug")
	}
	if handlerFor(ModeProd, &dev, &prod).Enabled(ctx, slog.LevelDebug) {
		t.Fatalf("prod should not log debug")
	}
	slog.New(handlerFor(ModeProd, &dev, &prod)).Info("x")
	if !strings.HasPrefix(prod.String(), "{") || dev.Len() != 0 {
		t.Fatalf("prod writes JSON to its own writer: dev=%q prod=%q", dev.String(), prod.String())
	}
	if handlerFor(ModeSilence, &dev, &prod).Enabled(ctx, slog.LevelError) {
		t.Fatalf("silence should discard")
	}
}
