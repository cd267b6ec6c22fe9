package xid

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrZeroID 生成器多次重试后仍得到全零 ID。
	ErrZeroID = errors.New("xid: generator produced all-zero id")

	// ErrInvalidConfig 生成器配置无效。
	ErrInvalidConfig = errors.New("xid: invalid config")
)

// maxAttempts 随机源得到全零 ID 时的最大重试次数。
const maxAttempts = 3

// Generator 追踪 ID 生成器。实现必须并发安全。
type Generator interface {
	// NewTraceID 生成 16 字节 trace-id，至少含一个非零字节。
	NewTraceID() ([16]byte, error)

	// NewSpanID 生成 8 字节 span-id，至少含一个非零字节。
	NewSpanID() ([8]byte, error)
}

// 编译时接口检查
var (
	_ Generator = RandomGenerator{}
	_ Generator = (*FlakeGenerator)(nil)
)

// RandomGenerator 基于 UUIDv4 随机字节的生成器，零值可用。
type RandomGenerator struct{}

// NewTraceID 使用一个 UUIDv4 的全部 16 字节。
func (RandomGenerator) NewTraceID() ([16]byte, error) {
	return retryNonZero(func() ([16]byte, error) {
		u, err := uuid.NewRandom()
		if err != nil {
			return [16]byte{}, fmt.Errorf("xid: generate trace id: %w", err)
		}
		return u, nil
	})
}

// NewSpanID 使用一个 UUIDv4 的前 8 字节。
func (RandomGenerator) NewSpanID() ([8]byte, error) {
	return retryNonZero(func() ([8]byte, error) {
		u, err := uuid.NewRandom()
		if err != nil {
			return [8]byte{}, fmt.Errorf("xid: generate span id: %w", err)
		}
		var id [8]byte
		copy(id[:], u[:8])
		return id, nil
	})
}

// retryNonZero 调用 gen 直到得到非零 ID，最多 maxAttempts 次。
func retryNonZero[T [16]byte | [8]byte](gen func() (T, error)) (T, error) {
	var zero T
	for range maxAttempts {
		id, err := gen()
		if err != nil {
			return zero, err
		}
		if id != zero {
			return id, nil
		}
	}
	return zero, ErrZeroID
}
