package xtracectx

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var _ propagation.TextMapPropagator = Propagator{}

// Propagator 以 TraceContext 的降级语义实现 propagation.TextMapPropagator，
// 可替代 propagation.TraceContext 注册到 otel.SetTextMapPropagator。
//
// 与 propagation.TraceContext 的区别：Extract 无论头是否有效都会在 context 中放入
// TraceContext，无效头通过 Reporter 上报，未知版本的额外字段会被保留。
type Propagator struct {
	reporter Reporter
}

// NewPropagator 创建 Propagator，r 为 nil 时使用进程级默认 Reporter。
func NewPropagator(r Reporter) Propagator {
	return Propagator{reporter: r}
}

// Inject 写入 traceparent / tracestate。
//
// ctx 中存在本地（非远端）span 时以其为父节点，否则使用 ctx 中的 TraceContext。
func (p Propagator) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	if carrier == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() && !sc.IsRemote() {
		if tc, err := FromSpanContext(sc, p.options(ctx)...); err == nil {
			tc.ToHeaders(asCarrier(carrier))
		}
		return
	}
	if tc, ok := FromContext(ctx); ok {
		tc.ToHeaders(asCarrier(carrier))
	}
}

// Extract 从 carrier 构造 TraceContext 放入 ctx；有效时同时写入远端 SpanContext。
func (p Propagator) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	var c Carrier
	if carrier != nil {
		c = asCarrier(carrier)
	}
	tc := FromHeaders(c, p.options(ctx)...)
	if !tc.IsDegraded() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, tc.SpanContext())
	}
	return NewContext(ctx, tc)
}

// Fields 返回读写的头名称。
func (Propagator) Fields() []string {
	return []string{HeaderTraceparent, HeaderTracestate}
}

func (p Propagator) options(ctx context.Context) []Option {
	return []Option{WithContext(ctx), WithReporter(p.reporter)}
}
