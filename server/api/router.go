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

package api

import (
	v1 "github.com/zintix-labs/reelround/server/api/v1"
	"github.com/zintix-labs/reelround/server/host"
	"github.com/zintix-labs/reelround/server/netsvr"
	"github.com/zintix-labs/reelround/server/netsvr/middleware"
	"github.com/zintix-labs/reelround/server/svrcfg"
)

// RegisterRoutes 掛上 middleware 與 v1 路由
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg, h *host.Host) error {
	registerMiddleware(svr, sCfg)
	return registerV1API(svr, h)
}

func registerMiddleware(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.CORS(sCfg.Origins))
	svr.Use(middleware.Compression)
}

func registerV1API(svr netsvr.NetRouter, h *host.Host) error {
	c, err := v1.NewHandler(h)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/state", c.State)
		vOne.Get("/events", c.Events)
		vOne.Get("/paytable", c.Paytable)

		vOne.Post("/spin", c.Spin)
		vOne.Post("/stop", c.QuickStop)
		vOne.Post("/bet", c.SetBet)
		vOne.Post("/bet/up", c.BetUp)
		vOne.Post("/bet/down", c.BetDown)
		vOne.Post("/gamble/start", c.GambleStart)
		vOne.Post("/gamble/guess", c.GambleGuess)
		vOne.Post("/gamble/collect", c.GambleCollect)
		vOne.Post("/autoplay/start", c.AutoplayStart)
		vOne.Post("/autoplay/stop", c.AutoplayStop)
	})
	return nil
}
