package xtracectx

import (
	"context"
	"net/http"
	"sync"
)

// =============================================================================
// HTTP 中间件
// =============================================================================

// HTTPMiddleware 返回 HTTP 中间件。
//
// 从请求头构造 TraceContext 并放入请求 context，处理器通过 FromContext 取用。
// 启用 WithResponseHeaders 时，在处理器首次写响应时回写头，
// 因此处理器对 tracestate 的修改会反映在响应上。
func HTTPMiddleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := newMiddlewareConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, tc := cfg.extract(r.Context(), HeaderCarrier(r.Header))

			if cfg.responseHeaders {
				rw := &responseWriter{ResponseWriter: w, tc: tc}
				defer rw.inject()
				w = rw
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// responseWriter 在响应头发出前注入 trace context。
type responseWriter struct {
	http.ResponseWriter
	tc   *TraceContext
	once sync.Once
}

func (w *responseWriter) inject() {
	w.once.Do(func() {
		w.tc.ToHeaders(HeaderCarrier(w.ResponseWriter.Header()))
	})
}

func (w *responseWriter) WriteHeader(code int) {
	w.inject()
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.inject()
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Flush() {
	w.inject()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap 供 http.ResponseController 访问底层 ResponseWriter。
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// =============================================================================
// HTTP Header 注入（跨服务传播）
// =============================================================================

// InjectToRequest 将 ctx 中 TraceContext 的头写入出站请求。ctx 中没有 TraceContext 时无操作。
func InjectToRequest(ctx context.Context, req *http.Request) {
	if req == nil {
		return
	}
	tc, ok := FromContext(ctx)
	if !ok {
		return
	}
	// 防止调用方构造 &http.Request{} 导致 nil Header panic
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	tc.ToHeaders(HeaderCarrier(req.Header))
}
