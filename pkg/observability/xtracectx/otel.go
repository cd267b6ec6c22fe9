package xtracectx

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xw3c/pkg/observability/xtraceparent"
	"github.com/omeyang/xw3c/pkg/observability/xtracestate"
)

// SpanContext 返回对应的远端 OpenTelemetry SpanContext。降级时返回无效的 SpanContext。
//
// 额外字段和版本号不在 SpanContext 中体现。
func (tc *TraceContext) SpanContext() trace.SpanContext {
	r := tc.resolveParent()
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID(r.TraceID),
		SpanID:     trace.SpanID(r.ParentID),
		TraceFlags: trace.TraceFlags(r.TraceFlags()),
		TraceState: tc.TraceState().TraceState(),
		Remote:     true,
	})
}

// FromSpanContext 从 OpenTelemetry SpanContext 构造 v00 TraceContext。
// sc 无效时返回 xtraceparent.ErrInvalid。
func FromSpanContext(sc trace.SpanContext, opts ...Option) (*TraceContext, error) {
	if !sc.IsValid() {
		return nil, fmt.Errorf("%w: invalid span context", xtraceparent.ErrInvalid)
	}
	r := xtraceparent.Record{
		TraceID:  xtraceparent.TraceID(sc.TraceID()),
		ParentID: xtraceparent.ParentID(sc.SpanID()),
		Sampled:  sc.IsSampled(),
	}
	return FromTraceData(r, xtracestate.FromTraceState(sc.TraceState()), opts...)
}
