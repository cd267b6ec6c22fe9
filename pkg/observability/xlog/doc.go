// Package xlog 提供基于 log/slog 的结构化日志。
//
// 设计要点：
//   - 所有方法强制传入 context.Context
//   - 方法签名只接受 slog.Attr，避免隐式 key-value 转换
//   - 动态级别：Build 返回的 Logger 支持运行时 SetLevel
//   - 生命周期：Build 返回 cleanup 函数，用于关闭轮转文件
//
// 示例：
//
//	logger, cleanup, err := xlog.New().
//		SetLevel(xlog.LevelDebug).
//		SetFormat("json").
//		SetRotation("/var/log/app.log", xlog.RotationConfig{MaxSizeMB: 100}).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
//	logger.Warn(ctx, "xtracectx: invalid traceparent", slog.String("traceparent", raw))
//
// 库代码推荐依赖注入；全局 Default 仅用于命令行工具等简单场景。
package xlog
