package xtraceparent

import "errors"

var (
	// ErrUnparseable traceparent 结构错误：字段缺失、长度不符或含非十六进制字符。
	ErrUnparseable = errors.New("xtraceparent: unparseable traceparent")

	// ErrInvalid traceparent 结构正确但语义无效：全零 ID、v00 带额外字段、
	// 非零版本总长度不足 55。
	ErrInvalid = errors.New("xtraceparent: invalid traceparent")
)

// Kind 错误类别。
type Kind uint8

const (
	// KindNone 非本包错误（包括 nil）。
	KindNone Kind = iota
	// KindUnparseable 对应 ErrUnparseable。
	KindUnparseable
	// KindInvalid 对应 ErrInvalid。
	KindInvalid
)

// String 返回类别名称，用于日志和指标属性。
func (k Kind) String() string {
	switch k {
	case KindUnparseable:
		return "unparseable"
	case KindInvalid:
		return "invalid"
	default:
		return "none"
	}
}

// KindOf 返回 err 的类别。
//
// 上层通过 switch KindOf(err) 显式分支，而不是依赖具体错误类型。
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnparseable):
		return KindUnparseable
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	default:
		return KindNone
	}
}
