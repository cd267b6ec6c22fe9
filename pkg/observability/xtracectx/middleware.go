package xtracectx

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xw3c/pkg/observability/xlog"
	"github.com/omeyang/xw3c/pkg/util/xid"
)

// MiddlewareOption HTTP 中间件与 gRPC 拦截器共用的选项。
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	generateOnMissing bool
	sampled           bool
	responseHeaders   bool
	generator         xid.Generator
	reporter          Reporter
}

func newMiddlewareConfig(opts []MiddlewareOption) *middlewareConfig {
	cfg := &middlewareConfig{generator: xid.RandomGenerator{}}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.reporter == nil {
		cfg.reporter = defaultReporter()
	}
	return cfg
}

// WithGenerateOnMissing traceparent 缺失或降级时生成新的 traceparent。
//
// 默认 false：降级后按"没有上游链路"继续处理，出站时不写 traceparent。
func WithGenerateOnMissing(enabled bool) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.generateOnMissing = enabled
	}
}

// WithGeneratedSampled 设置新生成 traceparent 的采样标志。默认 false。
func WithGeneratedSampled(sampled bool) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.sampled = sampled
	}
}

// WithGenerator 设置 ID 生成器，默认 xid.RandomGenerator。
func WithGenerator(g xid.Generator) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if g != nil {
			cfg.generator = g
		}
	}
}

// WithResponseHeaders 在响应上回写 traceparent / tracestate。仅 HTTP 中间件使用。
func WithResponseHeaders(enabled bool) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.responseHeaders = enabled
	}
}

// WithMiddlewareReporter 设置降级上报器。
func WithMiddlewareReporter(r Reporter) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if r != nil {
			cfg.reporter = r
		}
	}
}

// extract 从入站头构造 TraceContext 并放入 context。
//
// 有效的 traceparent 同时作为远端 SpanContext 写入 context，供 OpenTelemetry tracer 使用。
func (cfg *middlewareConfig) extract(ctx context.Context, c Carrier) (context.Context, *TraceContext) {
	tc := FromHeaders(c, WithContext(ctx), WithReporter(cfg.reporter))

	if cfg.generateOnMissing && tc.IsDegraded() {
		// 上游 tracestate 依附于被丢弃的 traceparent，不再继承
		fresh, err := FromScratch(cfg.generator,
			WithContext(ctx), WithReporter(cfg.reporter), WithSampled(cfg.sampled))
		if err != nil {
			xlog.Warn(ctx, "xtracectx: generate traceparent failed", slog.Any("error", err))
		} else {
			tc = fresh
		}
	}

	if !tc.IsDegraded() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, tc.SpanContext())
	}
	return NewContext(ctx, tc), tc
}
