package xtracectx

import (
	"net/http"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/propagation"
	"google.golang.org/grpc/metadata"
)

// W3C Trace Context 标准头
const (
	HeaderTraceparent = "traceparent"
	HeaderTracestate  = "tracestate"
)

// Carrier 大小写不敏感的头容器。
type Carrier interface {
	// Get 返回 key 的值，多值时返回最后一个，不存在返回空字符串。
	Get(key string) string

	// Set 用单个值替换 key 的所有值。
	Set(key, value string)

	// Has 报告 key 是否存在。
	Has(key string) bool

	// Range 按稳定顺序遍历所有 (key, value)，同一 key 的多个值连续给出，
	// fn 返回 false 时停止。
	Range(fn func(key, value string) bool)
}

// 编译时接口检查
var (
	_ Carrier = HeaderCarrier(nil)
	_ Carrier = MetadataCarrier(nil)

	_ propagation.TextMapCarrier = HeaderCarrier(nil)
	_ propagation.TextMapCarrier = MetadataCarrier(nil)
)

// HeaderCarrier 将 http.Header 适配为 Carrier。
type HeaderCarrier http.Header

func (h HeaderCarrier) Get(key string) string {
	return last(http.Header(h).Values(key))
}

func (h HeaderCarrier) Set(key, value string) {
	http.Header(h).Set(key, value)
}

func (h HeaderCarrier) Has(key string) bool {
	return len(http.Header(h).Values(key)) > 0
}

// Range 按 key 字典序遍历，同一 key 的多个值保持原顺序。
func (h HeaderCarrier) Range(fn func(key, value string) bool) {
	rangeSorted(h, fn)
}

// Keys 返回排序后的所有 key。
func (h HeaderCarrier) Keys() []string {
	return sortedKeys(h)
}

// MetadataCarrier 将 gRPC metadata.MD 适配为 Carrier。metadata 的 key 统一为小写。
type MetadataCarrier metadata.MD

func (m MetadataCarrier) Get(key string) string {
	return last(metadata.MD(m).Get(key))
}

func (m MetadataCarrier) Set(key, value string) {
	metadata.MD(m).Set(key, value)
}

func (m MetadataCarrier) Has(key string) bool {
	return len(metadata.MD(m).Get(key)) > 0
}

// Range 按 key 字典序遍历。
func (m MetadataCarrier) Range(fn func(key, value string) bool) {
	rangeSorted(m, fn)
}

// Keys 返回排序后的所有 key。
func (m MetadataCarrier) Keys() []string {
	return sortedKeys(m)
}

func sortedKeys[M ~map[string][]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func rangeSorted[M ~map[string][]string](m M, fn func(key, value string) bool) {
	for _, k := range sortedKeys(m) {
		for _, v := range m[k] {
			if !fn(k, v) {
				return
			}
		}
	}
}

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// matchHeader 头名包含 name（大小写不敏感）时返回 true。
func matchHeader(key, name string) bool {
	return strings.Contains(strings.ToLower(key), name)
}

// textMapCarrier 将 propagation.TextMapCarrier 适配为 Carrier。
type textMapCarrier struct {
	propagation.TextMapCarrier
}

func (c textMapCarrier) Has(key string) bool {
	for _, k := range c.Keys() {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func (c textMapCarrier) Range(fn func(key, value string) bool) {
	keys := c.Keys()
	slices.Sort(keys)
	for _, k := range keys {
		if !fn(k, c.Get(k)) {
			return
		}
	}
}

// asCarrier 已实现 Carrier 的直接使用，否则包装。
func asCarrier(c propagation.TextMapCarrier) Carrier {
	if cc, ok := c.(Carrier); ok {
		return cc
	}
	return textMapCarrier{c}
}
