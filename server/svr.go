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

// Package server 組裝 shell：Session host、HTTP 路由與生命週期。
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/reelround"
	"github.com/zintix-labs/reelround/errs"
	"github.com/zintix-labs/reelround/jackpot"
	"github.com/zintix-labs/reelround/server/api"
	"github.com/zintix-labs/reelround/server/app"
	"github.com/zintix-labs/reelround/server/host"
	"github.com/zintix-labs/reelround/server/netsvr"
	"github.com/zintix-labs/reelround/server/svrcfg"
)

// Build 驗證設定、開啟彩金池 store、建立 Session host 並註冊路由，但不開始監聽。
func Build(ctx context.Context, sCfg *svrcfg.SvrCfg) (*netsvr.ChiAdapter, *host.Host, error) {
	if err := sCfg.Valid(); err != nil {
		return nil, nil, err
	}
	st, err := jackpot.OpenStore(ctx, sCfg.JackpotDSN)
	if err != nil {
		return nil, nil, err
	}
	opts := []reelround.Option{reelround.WithStore(st)}
	if sCfg.Seed != 0 {
		opts = append(opts, reelround.WithSeed(sCfg.Seed))
	}
	h, err := host.New(ctx, sCfg.Game, sCfg.Tick, sCfg.Log, opts...)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	svr, err := netsvr.NewChiServer(sCfg.Addr)
	if err != nil {
		_ = h.Shutdown(ctx)
		return nil, nil, err
	}
	if err := api.RegisterRoutes(svr, sCfg, h); err != nil {
		_ = h.Shutdown(ctx)
		return nil, nil, err
	}
	return svr, h, nil
}

// Run 啟動 shell 直到 ctx 取消或收到終止信號
func Run(ctx context.Context, sCfg *svrcfg.SvrCfg) error {
	svr, h, err := Build(ctx, sCfg)
	if err != nil {
		// logger 可能尚未可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	sCfg.Log.Info("listening", slog.String("url", "http://"+svr.Address()), slog.String("game", sCfg.Game.GameName))
	// 反序關閉：先停 HTTP，再停時鐘與 store
	if err := app.NewWith(sCfg.Log, h, svr).Run(ctx); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return errs.Wrap(err, "shell")
	}
	return nil
}
