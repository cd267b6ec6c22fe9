// Package xtracectx 提供请求级的 W3C Trace Context 对象。
//
// # 设计理念
//
// TraceContext 持有入站的原始 traceparent/tracestate 字符串，首次访问字段时才解析，
// 结果缓存。解析或校验失败时不向调用方返回错误，而是降级为空 traceparent
// （版本 0、全零 ID、未采样），请求继续处理，表现为"没有上游链路"。
// 降级通过注入的 Reporter 记录日志和指标。
//
// traceparent 缓存是一个三态状态机：
//
//	未计算 ──解析成功/直接构造──▶ 有效
//	   │
//	   └────解析失败/头缺失────▶ 已降级（终态，不再重新解析）
//
// # 构造方式
//
//   - FromHeaders: 从入站头构造，不解析、不会失败
//   - FromScratch: 用 xid.Generator 生成新的 v00 traceparent
//   - FromTraceData: 使用调用方已校验的 Record，ID 无效时返回 xtraceparent.ErrInvalid
//   - FromSpanContext: 从 OpenTelemetry SpanContext 构造
//
// # 并发
//
// TraceContext 不是并发安全的，由创建它的请求独占。跨 goroutine 传递链路信息时
// 应传递不可变的 Record()/TraceState() 值，在接收方重新构造 TraceContext。
//
// # 传输层
//
// Carrier 抽象大小写不敏感的头容器：HeaderCarrier 适配 http.Header，
// MetadataCarrier 适配 gRPC metadata.MD。HTTPMiddleware、GRPCUnaryServerInterceptor
// 把 TraceContext 放入 context.Context，InjectToRequest、InjectToOutgoingContext
// 和 GRPCUnaryClientInterceptor 在出站时写回头。
//
// Propagator 以同样的降级语义实现 OpenTelemetry 的 propagation.TextMapPropagator。
//
// ToHeaders 只写 traceparent/tracestate，不读取、不修改、不删除其他头。
package xtracectx
