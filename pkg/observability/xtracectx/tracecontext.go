package xtracectx

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/omeyang/xw3c/pkg/observability/xtraceparent"
	"github.com/omeyang/xw3c/pkg/observability/xtracestate"
	"github.com/omeyang/xw3c/pkg/util/xid"
)

type parentState uint8

const (
	parentUncomputed parentState = iota
	parentValid
	parentDegraded
)

// TraceContext 单个请求的链路上下文。
//
// 非并发安全，参见包文档。
type TraceContext struct {
	rawParent string
	rawState  string

	parent      xtraceparent.Record
	parentState parentState

	state         xtracestate.List
	stateResolved bool

	ctx      context.Context
	reporter Reporter
}

// FromHeaders 从头容器构造 TraceContext。
//
// 遍历全部头，名称包含 traceparent / tracestate（大小写不敏感）的头被采集，
// 一个名称可同时匹配两者。不同名称多次匹配时最后一个生效；同一名称的多个值
// 以 "," 合并，因此多行 tracestate 保留全部成员，多行 traceparent 无法解析而降级。
// 此时不解析，也不会失败；c 为 nil 等价于没有头。
func FromHeaders(c Carrier, opts ...Option) *TraceContext {
	o := applyOptions(opts)
	tc := &TraceContext{ctx: o.ctx, reporter: o.reporter}
	if c == nil {
		return tc
	}
	var parent, state headerValue
	c.Range(func(key, value string) bool {
		if matchHeader(key, HeaderTraceparent) {
			parent.add(key, value)
		}
		if matchHeader(key, HeaderTracestate) {
			state.add(key, value)
		}
		return true
	})
	tc.rawParent, tc.rawState = parent.value, state.value
	return tc
}

// headerValue 采集匹配头的值：新名称替换，同名称追加。
type headerValue struct {
	key   string
	value string
	seen  bool
}

func (h *headerValue) add(key, value string) {
	if h.seen && key == h.key {
		if value != "" {
			if h.value != "" {
				h.value += ","
			}
			h.value += value
		}
		return
	}
	h.key, h.value, h.seen = key, value, true
}

// FromScratch 使用 g 生成新的 v00 traceparent。
//
// 采样标志和初始 tracestate 分别由 WithSampled、WithTraceState 指定。
// g 返回的错误原样向上传递。
func FromScratch(g xid.Generator, opts ...Option) (*TraceContext, error) {
	if g == nil {
		return nil, fmt.Errorf("xtracectx: nil generator")
	}
	traceID, err := g.NewTraceID()
	if err != nil {
		return nil, fmt.Errorf("xtracectx: generate trace-id: %w", err)
	}
	spanID, err := g.NewSpanID()
	if err != nil {
		return nil, fmt.Errorf("xtracectx: generate parent-id: %w", err)
	}

	o := applyOptions(opts)
	r := xtraceparent.Record{
		TraceID:  traceID,
		ParentID: spanID,
		Sampled:  o.sampled,
	}
	// 生成器契约保证非零；不满足时按无效数据处理，而不是构造出无法序列化的上下文。
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: generator returned all-zero id", xtraceparent.ErrInvalid)
	}
	return newResolved(r, o.state, o), nil
}

// FromTraceData 使用已校验的 Record 和 tracestate 构造 TraceContext。
//
// 任一 ID 全零时返回 xtraceparent.ErrInvalid。
func FromTraceData(r xtraceparent.Record, state xtracestate.List, opts ...Option) (*TraceContext, error) {
	if !r.TraceID.IsValid() {
		return nil, fmt.Errorf("%w: trace-id is all zeros", xtraceparent.ErrInvalid)
	}
	if !r.ParentID.IsValid() {
		return nil, fmt.Errorf("%w: parent-id is all zeros", xtraceparent.ErrInvalid)
	}
	return newResolved(r.Clone(), state, applyOptions(opts)), nil
}

func newResolved(r xtraceparent.Record, state xtracestate.List, o *options) *TraceContext {
	return &TraceContext{
		parent:        r,
		parentState:   parentValid,
		state:         state,
		stateResolved: true,
		ctx:           o.ctx,
		reporter:      o.reporter,
	}
}

// Version 返回 traceparent 版本。
func (tc *TraceContext) Version() uint8 { return tc.resolveParent().Version }

// TraceID 返回 trace-id，降级时为全零。
func (tc *TraceContext) TraceID() xtraceparent.TraceID { return tc.resolveParent().TraceID }

// ParentID 返回 parent-id，降级时为全零。
func (tc *TraceContext) ParentID() xtraceparent.ParentID { return tc.resolveParent().ParentID }

// Sampled 返回采样标志。
func (tc *TraceContext) Sampled() bool { return tc.resolveParent().Sampled }

// TraceFlags 返回 trace-flags。
func (tc *TraceContext) TraceFlags() xtraceparent.TraceFlags {
	return tc.resolveParent().TraceFlags()
}

// ExtraFields 返回非零版本携带的额外字段副本。
func (tc *TraceContext) ExtraFields() []string {
	return slices.Clone(tc.resolveParent().ExtraFields)
}

// Record 返回 traceparent 的深拷贝，可安全地跨 goroutine 传递。
func (tc *TraceContext) Record() xtraceparent.Record {
	return tc.resolveParent().Clone()
}

// IsDegraded 报告 traceparent 是否已降级为空记录（头缺失或不可信）。
func (tc *TraceContext) IsDegraded() bool {
	tc.resolveParent()
	return tc.parentState == parentDegraded
}

// TraceState 返回 tracestate 列表。首次调用时解析，失败时上报并视为空列表。
func (tc *TraceContext) TraceState() xtracestate.List {
	if !tc.stateResolved {
		tc.resolveState()
	}
	return tc.state
}

// TraceStateValue 返回 key 的值。
func (tc *TraceContext) TraceStateValue(key string) (string, bool) {
	return tc.TraceState().Get(key)
}

// AddTraceStateValue 新增键值对，新条目位于列表最前。key 已存在时返回 xtracestate.ErrKeyExists。
func (tc *TraceContext) AddTraceStateValue(key, value string) error {
	l, err := tc.TraceState().Add(key, value)
	if err != nil {
		return err
	}
	tc.state = l
	return nil
}

// UpdateTraceStateValue 更新已有键的值并将其移到列表最前。
// key 不存在时返回 xtracestate.ErrKeyNotFound。
func (tc *TraceContext) UpdateTraceStateValue(key, value string) error {
	l, err := tc.TraceState().Update(key, value)
	if err != nil {
		return err
	}
	tc.state = l
	return nil
}

// DeleteTraceStateValue 删除 key，不存在时无操作。
func (tc *TraceContext) DeleteTraceStateValue(key string) {
	tc.state = tc.TraceState().Delete(key)
}

// ToHeaders 将 traceparent / tracestate 写入 c 并返回 c；c 为 nil 时新建 HeaderCarrier。
//
// tracestate 仅在列表非空时写入，traceparent 仅在两个 ID 均有效时写入。
// 不读取、修改或删除其他头，也不删除已有的 traceparent / tracestate。
func (tc *TraceContext) ToHeaders(c Carrier) Carrier {
	if c == nil {
		c = HeaderCarrier(http.Header{})
	}
	if state := tc.TraceState(); state.Len() > 0 {
		c.Set(HeaderTracestate, state.Format())
	}
	if tp := xtraceparent.Format(*tc.resolveParent()); tp != "" {
		c.Set(HeaderTraceparent, tp)
	}
	return c
}

func (tc *TraceContext) resolveParent() *xtraceparent.Record {
	if tc.parentState == parentUncomputed {
		tc.parseParent()
	}
	return &tc.parent
}

func (tc *TraceContext) parseParent() {
	defer func() {
		if p := recover(); p != nil {
			tc.degrade(ReasonUnexpected, fmt.Errorf("xtracectx: panic parsing traceparent: %v", p))
		}
	}()

	if tc.rawParent == "" {
		tc.parent = xtraceparent.Null()
		tc.parentState = parentDegraded
		return
	}

	r, err := xtraceparent.Parse(tc.rawParent)
	if err != nil {
		tc.degrade(reasonOf(err), err)
		return
	}
	tc.parent = r
	tc.parentState = parentValid
}

// degrade 缓存空记录并清除原始值，之后不再重新解析。
func (tc *TraceContext) degrade(reason Reason, err error) {
	raw := tc.rawParent
	tc.rawParent = ""
	tc.parent = xtraceparent.Null()
	tc.parentState = parentDegraded
	tc.report(HeaderTraceparent, raw, reason, err)
}

func (tc *TraceContext) resolveState() {
	tc.stateResolved = true
	tc.state = xtracestate.Empty()
	raw := tc.rawState
	tc.rawState = ""
	if raw == "" {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			tc.state = xtracestate.Empty()
			tc.report(HeaderTracestate, raw, ReasonUnexpected, fmt.Errorf("xtracectx: panic parsing tracestate: %v", p))
		}
	}()

	l, err := xtracestate.Parse(raw)
	if err != nil {
		tc.report(HeaderTracestate, raw, ReasonInvalid, err)
		return
	}
	tc.state = l
}

// report 上报器自身的 panic 不影响请求处理。
func (tc *TraceContext) report(header, raw string, reason Reason, err error) {
	defer func() { _ = recover() }()
	tc.reporter.Degraded(tc.ctx, header, raw, reason, err)
}

func reasonOf(err error) Reason {
	switch xtraceparent.KindOf(err) {
	case xtraceparent.KindUnparseable:
		return ReasonUnparseable
	case xtraceparent.KindInvalid:
		return ReasonInvalid
	default:
		return ReasonUnexpected
	}
}
