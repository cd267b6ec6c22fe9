package xtracectx

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// =============================================================================
// gRPC 服务端拦截器
// =============================================================================

// GRPCUnaryServerInterceptor 返回 gRPC 一元服务端拦截器，从 incoming metadata 构造 TraceContext。
func GRPCUnaryServerInterceptor(opts ...MiddlewareOption) grpc.UnaryServerInterceptor {
	cfg := newMiddlewareConfig(opts)

	return func(
		ctx context.Context,
		req any,
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		ctx, _ = cfg.extract(ctx, MetadataCarrier(md))
		return handler(ctx, req)
	}
}

// GRPCStreamServerInterceptor 返回 gRPC 流式服务端拦截器。
func GRPCStreamServerInterceptor(opts ...MiddlewareOption) grpc.StreamServerInterceptor {
	cfg := newMiddlewareConfig(opts)

	return func(
		srv any,
		ss grpc.ServerStream,
		_ *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx := ss.Context()
		md, _ := metadata.FromIncomingContext(ctx)
		ctx, _ = cfg.extract(ctx, MetadataCarrier(md))
		return handler(srv, &serverStream{ServerStream: ss, ctx: ctx})
	}
}

// serverStream 替换 Context() 的 ServerStream 包装。
type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *serverStream) Context() context.Context {
	return s.ctx
}

// =============================================================================
// gRPC 客户端拦截器
// =============================================================================

// GRPCUnaryClientInterceptor 返回 gRPC 一元客户端拦截器，将 ctx 中的 TraceContext 写入 outgoing metadata。
func GRPCUnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(InjectToOutgoingContext(ctx), method, req, reply, cc, opts...)
	}
}

// InjectToOutgoingContext 返回写入了 traceparent / tracestate 的 outgoing context。
// ctx 中没有 TraceContext 时原样返回。已有的其他 metadata 保留。
func InjectToOutgoingContext(ctx context.Context) context.Context {
	tc, ok := FromContext(ctx)
	if !ok {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	tc.ToHeaders(MetadataCarrier(md))
	return metadata.NewOutgoingContext(ctx, md)
}
