// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xhex: 十六进制编解码，奇数长度左补零
//   - xid: 追踪 ID 生成器（UUID、Sonyflake）
package util
