// Package xtracestate 提供 W3C tracestate 有序键值列表。
//
// 底层使用 OpenTelemetry 的 trace.TraceState，键值格式、成员上限（32）
// 与解析规则均遵循其实现。List 是不可变值类型：所有修改操作返回新列表。
//
// 顺序语义（W3C）：新增或更新的键移到列表最左侧，其余成员保持相对顺序。
//
//	l, _ := xtracestate.Parse("foo=1,bar=2")
//	l, _ = l.Add("baz", "3")   // baz=3,foo=1,bar=2
//	l = l.Delete("bar")        // baz=3,foo=1
package xtracestate

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrInvalidTracestate tracestate 头或键值不符合 W3C 格式。
	ErrInvalidTracestate = errors.New("xtracestate: invalid tracestate")

	// ErrKeyExists Add 的键已存在。
	ErrKeyExists = errors.New("xtracestate: key already exists")

	// ErrKeyNotFound Update 的键不存在。
	ErrKeyNotFound = errors.New("xtracestate: key not found")
)

// Member 列表成员。
type Member struct {
	Key   string
	Value string
}

// List W3C tracestate 有序键值列表，零值为空列表。
type List struct {
	ts trace.TraceState
}

// Empty 返回空列表。
func Empty() List { return List{} }

// Parse 解析 tracestate 头。空字符串返回空列表。
func Parse(s string) (List, error) {
	ts, err := trace.ParseTraceState(s)
	if err != nil {
		return List{}, fmt.Errorf("%w: %w", ErrInvalidTracestate, err)
	}
	return List{ts: ts}, nil
}

// FromMembers 按给定顺序构造列表，重复键报错。
func FromMembers(members ...Member) (List, error) {
	l := List{}
	// Insert 会把成员移到最左侧，因此逆序插入以保持给定顺序
	for i := len(members) - 1; i >= 0; i-- {
		m := members[i]
		if _, ok := l.Get(m.Key); ok {
			return List{}, fmt.Errorf("%w: %q", ErrKeyExists, m.Key)
		}
		ts, err := l.ts.Insert(m.Key, m.Value)
		if err != nil {
			return List{}, fmt.Errorf("%w: %w", ErrInvalidTracestate, err)
		}
		l.ts = ts
	}
	return l, nil
}

// FromTraceState 包装 OpenTelemetry TraceState。
func FromTraceState(ts trace.TraceState) List { return List{ts: ts} }

// TraceState 返回底层 OpenTelemetry TraceState。
func (l List) TraceState() trace.TraceState { return l.ts }

// Len 成员数量。
func (l List) Len() int { return l.ts.Len() }

// Format 序列化为 tracestate 头。空列表返回空字符串，调用方应据此省略该头。
func (l List) Format() string { return l.ts.String() }

// String 同 Format。
func (l List) String() string { return l.Format() }

// Get 返回键对应的值。
func (l List) Get(key string) (string, bool) {
	var (
		value string
		found bool
	)
	l.ts.Walk(func(k, v string) bool {
		if k == key {
			value, found = v, true
			return false
		}
		return true
	})
	return value, found
}

// Members 按顺序返回所有成员的拷贝。
func (l List) Members() []Member {
	members := make([]Member, 0, l.Len())
	l.ts.Walk(func(k, v string) bool {
		members = append(members, Member{Key: k, Value: v})
		return true
	})
	return members
}

// Add 在最左侧新增成员。键已存在时返回 ErrKeyExists，原列表不变。
//
// 超过 32 个成员时最右侧成员被丢弃。
func (l List) Add(key, value string) (List, error) {
	if _, ok := l.Get(key); ok {
		return l, fmt.Errorf("%w: %q", ErrKeyExists, key)
	}
	return l.insert(key, value)
}

// Update 更新已有成员的值并移到最左侧。键不存在时返回 ErrKeyNotFound。
func (l List) Update(key, value string) (List, error) {
	if _, ok := l.Get(key); !ok {
		return l, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return l.insert(key, value)
}

// Delete 删除成员，键不存在时原样返回。
func (l List) Delete(key string) List {
	return List{ts: l.ts.Delete(key)}
}

func (l List) insert(key, value string) (List, error) {
	ts, err := l.ts.Insert(key, value)
	if err != nil {
		return l, fmt.Errorf("%w: %w", ErrInvalidTracestate, err)
	}
	return List{ts: ts}, nil
}
