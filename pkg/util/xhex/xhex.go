// Package xhex 提供十六进制字符串与字节序列之间的转换。
//
// 与 encoding/hex 的区别：
//   - BytesFromHex 接受奇数长度输入，自动在左侧补 '0' 后按大端序解码
//   - 输入大小写不敏感，输出统一为小写
package xhex

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidHex 输入包含非十六进制字符。
var ErrInvalidHex = errors.New("xhex: invalid hex string")

// BytesFromHex 将十六进制字符串按大端序解码为字节序列。
//
// 奇数长度的输入会先在左侧补一个 '0'（"f" → [0x0f]，"101" → [0x01, 0x01]）。
// 空字符串返回空切片。
func BytesFromHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return b, nil
}

// HexFromBytes 将字节序列编码为小写十六进制字符串，每个字节固定两位。
func HexFromBytes(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeInto 将十六进制字符串解码到 dst，要求解码后长度与 dst 完全一致。
//
// 用于定长 ID（trace-id 16 字节、parent-id 8 字节）的零分配解码。
func DecodeInto(dst []byte, s string) error {
	if len(s) != 2*len(dst) {
		return fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidHex, 2*len(dst), len(s))
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return nil
}
