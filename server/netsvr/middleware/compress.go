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

package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// encoder 可重用的壓縮寫出器
type encoder interface {
	io.WriteCloser
	Reset(w io.Writer)
}

type codec struct {
	name string
	pool sync.Pool
}

var codecs = []*codec{
	{name: "zstd", pool: sync.Pool{New: func() any {
		zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil
		}
		return zw
	}}},
	{name: "gzip", pool: sync.Pool{New: func() any {
		gw, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return gw
	}}},
}

// pick 依 Accept-Encoding 選擇 zstd 優先，其次 gzip
func pick(accept string) *codec {
	accept = strings.ToLower(accept)
	for _, c := range codecs {
		if strings.Contains(accept, c.name) {
			return c
		}
	}
	return nil
}

// compressWriter 延到第一次寫出 header 時才決定是否真的壓縮
type compressWriter struct {
	http.ResponseWriter
	c       *codec
	enc     encoder
	decided bool
}

func (cw *compressWriter) WriteHeader(code int) {
	if !cw.decided {
		cw.decided = true
		h := cw.Header()
		if !noBody(code) && h.Get("Content-Encoding") == "" {
			if enc, ok := cw.c.pool.Get().(encoder); ok {
				enc.Reset(cw.ResponseWriter)
				cw.enc = enc
				h.Del("Content-Length")
				h.Set("Content-Encoding", cw.c.name)
				h.Add("Vary", "Accept-Encoding")
			}
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.decided {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		cw.WriteHeader(http.StatusOK)
	}
	if cw.enc == nil {
		return cw.ResponseWriter.Write(b)
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) Flush() {
	if f, ok := cw.enc.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

func (cw *compressWriter) close() {
	if cw.enc == nil {
		return
	}
	_ = cw.enc.Close()
	cw.enc.Reset(io.Discard)
	cw.c.pool.Put(cw.enc)
	cw.enc = nil
}

// Compression 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應；HEAD、升級連線與無 body 的狀態碼不壓縮
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := pick(r.Header.Get("Accept-Encoding"))
		if c == nil || r.Method == http.MethodHead || r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}
		cw := &compressWriter{ResponseWriter: w, c: c}
		defer cw.close()
		next.ServeHTTP(cw, r)
	})
}

// noBody 1xx、204、304 不得帶 body
func noBody(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}
