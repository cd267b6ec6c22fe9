package xtraceparent

import (
	"slices"

	"github.com/omeyang/xw3c/pkg/util/xhex"
)

// TraceID 16 字节 trace-id（大端序）。
type TraceID [16]byte

// ParentID 8 字节 parent-id（大端序），即上游 span-id。
type ParentID [8]byte

// IsValid 至少含一个非零字节时返回 true。
func (id TraceID) IsValid() bool { return IsValidID(id[:]) }

// String 返回 32 位小写十六进制。
func (id TraceID) String() string { return xhex.HexFromBytes(id[:]) }

// IsValid 至少含一个非零字节时返回 true。
func (id ParentID) IsValid() bool { return IsValidID(id[:]) }

// String 返回 16 位小写十六进制。
func (id ParentID) String() string { return xhex.HexFromBytes(id[:]) }

// TraceFlags W3C trace-flags。
type TraceFlags byte

const (
	// FlagsNone 未采样。
	FlagsNone TraceFlags = 0x00
	// FlagsSampled 已采样（bit 0）。
	FlagsSampled TraceFlags = 0x01
)

// IsSampled 报告 bit 0 是否置位。
func (f TraceFlags) IsSampled() bool { return f&FlagsSampled == FlagsSampled }

// Record traceparent 头的解码形式。
//
// Record 是值类型；跨 goroutine 传递追踪信息时应传递 Record，而不是 xtracectx.TraceContext。
type Record struct {
	Version  uint8
	TraceID  TraceID
	ParentID ParentID
	Sampled  bool

	// ExtraFields 非零版本在四个必需字段之后携带的字段，原样保存。
	// Version == 0 时始终为空。
	ExtraFields []string
}

// Null 返回空 traceparent：版本 0、全零 ID、未采样、无额外字段。
//
// 输入不可信时用它代替解析结果，表现为"没有上游链路"。
func Null() Record {
	return Record{}
}

// IsValid 两个 ID 均有效时返回 true。
func (r Record) IsValid() bool {
	return r.TraceID.IsValid() && r.ParentID.IsValid()
}

// TraceFlags 由 Sampled 推导 trace-flags。
func (r Record) TraceFlags() TraceFlags {
	if r.Sampled {
		return FlagsSampled
	}
	return FlagsNone
}

// Clone 返回深拷贝（ExtraFields 不共享底层数组）。
func (r Record) Clone() Record {
	r.ExtraFields = slices.Clone(r.ExtraFields)
	return r
}

// IsValidID 至少含一个非零字节时返回 true。
//
// 全零 ID 是保留值，表示"不存在"；空切片同样无效。
// trace-id（16 字节）与 parent-id（8 字节）使用同一规则。
func IsValidID(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return true
		}
	}
	return false
}
