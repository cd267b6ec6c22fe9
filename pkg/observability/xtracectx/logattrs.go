package xtracectx

import (
	"context"
	"log/slog"

	"github.com/omeyang/xw3c/pkg/observability/xlog"
)

// 日志属性键
const (
	LogKeyTraceID  = "trace_id"
	LogKeyParentID = "parent_id"
	LogKeySampled  = "sampled"
)

var _ xlog.ContextAttrsFunc = AppendLogAttrs

// AppendLogAttrs 把 ctx 中 TraceContext 的链路字段追加到 attrs，
// 用于 xlog.Builder.AddContextAttrs。
//
// 只输出已解析为有效的 traceparent，不触发解析：未访问过的原始头和降级后的
// 空记录都不产生属性，写日志因此不会引起降级上报。
func AppendLogAttrs(ctx context.Context, attrs []slog.Attr) []slog.Attr {
	tc, ok := FromContext(ctx)
	if !ok || tc.parentState != parentValid {
		return attrs
	}
	return append(attrs,
		slog.String(LogKeyTraceID, tc.parent.TraceID.String()),
		slog.String(LogKeyParentID, tc.parent.ParentID.String()),
		slog.Bool(LogKeySampled, tc.parent.Sampled),
	)
}
