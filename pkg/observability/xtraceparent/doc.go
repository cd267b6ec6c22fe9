// Package xtraceparent 实现 W3C traceparent 头的解析、校验与序列化。
//
// # 格式
//
// traceparent 格式：{version}-{trace-id}-{parent-id}-{trace-flags}
// 示例：00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
//   - version: 2 位十六进制（1 字节）
//   - trace-id: 32 位十六进制（16 字节，大端序）
//   - parent-id: 16 位十六进制（8 字节，大端序）
//   - trace-flags: 2 位十六进制，bit 0 为采样标志，其余位保留且不校验
//
// # 错误分类
//
// Parse 只返回两类错误，可通过 errors.Is 或 KindOf 区分：
//   - ErrUnparseable: 结构错误（字段缺失、长度不符、非十六进制字符）
//   - ErrInvalid: 结构正确但语义被拒绝（全零 ID、v00 带额外字段、非零版本长度不足 55）
//
// 本包从不静默降级；降级策略由上层（xtracectx）决定。
//
// # 版本兼容
//
// 非零版本按 v00 的前四个字段解析，其后以 "-" 分隔的字段原样保存在
// Record.ExtraFields 中，不解释其内容。
//
// Format 始终只输出前四个字段，不回写 ExtraFields：读取端保留未知版本的扩展字段，
// 写入端只生成规范格式。
package xtraceparent
