package xtracectx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xw3c/pkg/observability/xlog"
)

const (
	instrumentationName = "github.com/omeyang/xw3c/xtracectx"
	metricDegraded      = "xw3c.header.degraded"
)

// Reason 降级原因。
type Reason string

const (
	// ReasonUnparseable 结构错误（xtraceparent.ErrUnparseable）。
	ReasonUnparseable Reason = "unparseable"
	// ReasonInvalid 语义无效（xtraceparent.ErrInvalid）。
	ReasonInvalid Reason = "invalid"
	// ReasonUnexpected 解析过程中出现非预期故障。
	ReasonUnexpected Reason = "unexpected"
)

// Reporter 接收降级事件。实现必须并发安全，因为同一个 Reporter 通常被所有请求共享。
type Reporter interface {
	// Degraded 报告 header 的原始值 raw 因 reason 被丢弃。
	Degraded(ctx context.Context, header, raw string, reason Reason, err error)
}

// OTelReporter 通过 xlog 记录日志，并通过 OpenTelemetry 计数器
// xw3c.header.degraded（属性 header、reason）记录降级次数。
type OTelReporter struct {
	logger  xlog.Logger
	counter metric.Int64Counter
}

// ReporterOption OTelReporter 选项。
type ReporterOption func(*reporterConfig)

type reporterConfig struct {
	logger        xlog.Logger
	meterProvider metric.MeterProvider
}

// WithLogger 设置日志记录器，默认在记录时使用 xlog.Default()。
func WithLogger(l xlog.Logger) ReporterOption {
	return func(cfg *reporterConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认 otel.GetMeterProvider()。
func WithMeterProvider(mp metric.MeterProvider) ReporterOption {
	return func(cfg *reporterConfig) {
		if mp != nil {
			cfg.meterProvider = mp
		}
	}
}

// NewOTelReporter 创建 OTelReporter。
func NewOTelReporter(opts ...ReporterOption) (*OTelReporter, error) {
	cfg := &reporterConfig{meterProvider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(cfg)
	}

	counter, err := cfg.meterProvider.Meter(instrumentationName).Int64Counter(
		metricDegraded,
		metric.WithDescription("trace context headers dropped because they could not be trusted"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xtracectx: create counter failed: %w", err)
	}
	return &OTelReporter{logger: cfg.logger, counter: counter}, nil
}

// Degraded 记录 Warn 日志（ReasonUnexpected 为 Error）并累加计数器。
func (r *OTelReporter) Degraded(ctx context.Context, header, raw string, reason Reason, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	attrs := []slog.Attr{
		slog.String("header", header),
		slog.String("value", raw),
		slog.String("reason", string(reason)),
		slog.Any("error", err),
	}
	l := r.logger
	if l == nil {
		l = xlog.Default()
	}
	if reason == ReasonUnexpected {
		l.Error(ctx, "xtracectx: unexpected failure processing "+header+", discarding", attrs...)
	} else {
		l.Warn(ctx, "xtracectx: invalid "+header+", discarding", attrs...)
	}

	r.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("header", header),
		attribute.String("reason", string(reason)),
	))
}

// defaultReporter 惰性创建；使用全局 MeterProvider（otel 全局 provider 会委托给之后设置的实现）。
var defaultReporter = sync.OnceValue(func() Reporter {
	r, err := NewOTelReporter()
	if err != nil {
		return logOnlyReporter{}
	}
	return r
})

// logOnlyReporter 计数器创建失败时的兜底实现。
type logOnlyReporter struct{}

func (logOnlyReporter) Degraded(ctx context.Context, header, raw string, reason Reason, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	xlog.Warn(ctx, "xtracectx: invalid "+header+", discarding",
		slog.String("value", raw), slog.String("reason", string(reason)), slog.Any("error", err))
}
