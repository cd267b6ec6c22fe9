package xtracectx

import (
	"context"

	"github.com/omeyang/xw3c/pkg/observability/xtracestate"
)

// Option TraceContext 构造选项。
type Option func(*options)

type options struct {
	ctx      context.Context
	reporter Reporter
	sampled  bool
	state    xtracestate.List
}

func applyOptions(opts []Option) *options {
	o := &options{ctx: context.Background()}
	for _, opt := range opts {
		opt(o)
	}
	if o.reporter == nil {
		o.reporter = defaultReporter()
	}
	return o
}

// WithContext 设置降级上报时使用的 context（通常是请求 context）。
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithReporter 设置降级上报器，默认使用进程级 OTelReporter。
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithSampled 设置新生成 traceparent 的采样标志，仅 FromScratch 使用。默认 false。
func WithSampled(sampled bool) Option {
	return func(o *options) {
		o.sampled = sampled
	}
}

// WithTraceState 设置初始 tracestate，仅 FromScratch 使用。默认空。
func WithTraceState(l xtracestate.List) Option {
	return func(o *options) {
		o.state = l
	}
}
