// Package observability 提供链路上下文与日志相关的子包。
//
// 子包列表：
//   - xtraceparent: W3C traceparent 解析、校验与序列化
//   - xtracestate: W3C tracestate 有序键值列表
//   - xtracectx: 请求级链路上下文，HTTP/gRPC 中间件，OpenTelemetry 桥接
//   - xlog: 结构化日志，基于 log/slog 扩展
//
// 设计原则：
//   - 入站链路头不可信：解析失败时降级为"没有上游链路"，不中断请求
//   - 降级通过日志和 OpenTelemetry 指标上报
package observability
