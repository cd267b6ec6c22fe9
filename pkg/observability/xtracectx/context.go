package xtracectx

import "context"

type contextKey struct{}

// NewContext 返回携带 tc 的 context。
func NewContext(ctx context.Context, tc *TraceContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext 取出 NewContext 存入的 TraceContext。
func FromContext(ctx context.Context) (*TraceContext, bool) {
	if ctx == nil {
		return nil, false
	}
	tc, ok := ctx.Value(contextKey{}).(*TraceContext)
	return tc, ok && tc != nil
}
