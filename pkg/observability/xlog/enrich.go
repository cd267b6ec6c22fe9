package xlog

import (
	"context"
	"log/slog"
)

// ContextAttrsFunc 从 ctx 提取属性并追加到 attrs，返回追加后的切片。
// 无可提取内容时原样返回 attrs。
type ContextAttrsFunc func(ctx context.Context, attrs []slog.Attr) []slog.Attr

// enrichHandler 在每条记录上追加 ctx 中的属性。
type enrichHandler struct {
	base slog.Handler
	fns  []ContextAttrsFunc
}

func newEnrichHandler(base slog.Handler, fns []ContextAttrsFunc) slog.Handler {
	if len(fns) == 0 {
		return base
	}
	return &enrichHandler{base: base, fns: fns}
}

func (h *enrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *enrichHandler) Handle(ctx context.Context, r slog.Record) error {
	// 栈上预分配，常见场景无堆分配
	var buf [4]slog.Attr
	attrs := buf[:0]
	for _, fn := range h.fns {
		attrs = fn(ctx, attrs)
	}
	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

func (h *enrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &enrichHandler{base: h.base.WithAttrs(attrs), fns: h.fns}
}

func (h *enrichHandler) WithGroup(name string) slog.Handler {
	return &enrichHandler{base: h.base.WithGroup(name), fns: h.fns}
}
