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

// Package middleware 收錄 shell 使用的 net/http middleware。
package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestID 為每個請求配發 id，並沿用上游的 X-Request-Id
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(next)
}

// GetReqId 取出 RequestID 配發的 id；未經 RequestID 時為空字串
func GetReqId(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}

// Recover 把 handler panic 轉成 500 而不是讓連線中斷
func Recover(next http.Handler) http.Handler {
	return chimid.Recoverer(next)
}
