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

// Package netsvr 把 HTTP server 包成 app.Component，並對路由註冊只暴露 NetRouter。
package netsvr

import (
	"net/http"

	"github.com/zintix-labs/reelround/server/app"
)

// NetSvr 可啟停的 HTTP server
type NetSvr interface {
	NetRouter
	app.Component
	Address() string
}

// NetRouter 純路由行為。Group 回呼只拿得到 NetRouter，看不到 Run/Shutdown。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Group(path string, fn func(NetRouter))
}
