package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xw3c/pkg/observability/xtracectx"
	"github.com/omeyang/xw3c/pkg/observability/xtraceparent"
	"github.com/omeyang/xw3c/pkg/observability/xtracestate"
)

// commands 创建所有子命令。
func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:         "parse",
			Usage:        "解析 traceparent",
			ArgsUsage:    "<traceparent>",
			OnUsageError: onUsageError,
			Action: func(_ context.Context, cmd *cli.Command) error {
				if cmd.NArg() != 1 {
					return &usageError{msg: "parse 需要且只需要一个参数"}
				}
				return a.parse(cmd.Args().First())
			},
		},
		{
			Name:         "new",
			Usage:        "生成新的 traceparent / tracestate",
			OnUsageError: onUsageError,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "sampled", Usage: "设置采样标志（默认取配置 trace.sampled）"},
				&cli.StringFlag{Name: "state", Usage: "初始 tracestate，如 k1=v1,k2=v2"},
				&cli.StringFlag{Name: "generator", Usage: "ID 生成器 (random/flake，默认取配置 trace.generator)"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				sampled := a.cfg.Sampled
				if cmd.IsSet("sampled") {
					sampled = cmd.Bool("sampled")
				}
				generator := a.cfg.Generator
				if cmd.IsSet("generator") {
					generator = cmd.String("generator")
				}
				return a.generate(ctx, sampled, cmd.String("state"), generator)
			},
		},
		{
			Name:         "inspect",
			Usage:        "用给定请求头构造链路上下文并打印回写的头",
			OnUsageError: onUsageError,

			// 子命令不继承根命令的设置；tracestate 的值本身含逗号
			DisableSliceFlagSeparator: true,

			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:    "header",
					Aliases: []string{"H"},
					Usage:   `请求头，格式 "name: value"，可重复`,
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				h, err := parseHeaders(cmd.StringSlice("header"))
				if err != nil {
					return err
				}
				return a.inspect(ctx, h)
			},
		},
	}
}

// parse 打印 traceparent 各字段，无效时以退出码 1 结束。
func (a *app) parse(raw string) error {
	r, err := xtraceparent.Parse(raw)
	if err != nil {
		fmt.Fprintf(a.errOut, "%s: %v\n", xtraceparent.KindOf(err), err)
		return &exitError{code: 1}
	}
	printRecord(a, r)
	return nil
}

// generate 生成新的链路上下文并打印其头。
func (a *app) generate(ctx context.Context, sampled bool, rawState, generator string) error {
	state, err := xtracestate.Parse(rawState)
	if err != nil {
		return &usageError{msg: err.Error()}
	}
	g, err := xtracectx.NewGenerator(generator)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	tc, err := xtracectx.FromScratch(g,
		xtracectx.WithContext(ctx),
		xtracectx.WithReporter(a.reporter),
		xtracectx.WithSampled(sampled),
		xtracectx.WithTraceState(state),
	)
	if err != nil {
		return err
	}
	printHeaders(a, tc.ToHeaders(nil))
	return nil
}

// inspect 降级不是错误：输出 status: degraded，退出码仍为 0。
func (a *app) inspect(ctx context.Context, h http.Header) error {
	opts := []xtracectx.Option{xtracectx.WithContext(ctx), xtracectx.WithReporter(a.reporter)}
	tc := xtracectx.FromHeaders(xtracectx.HeaderCarrier(h), opts...)

	status := "valid"
	if tc.IsDegraded() {
		status = "degraded"
		if a.cfg.GenerateOnMissing {
			g, err := xtracectx.NewGenerator(a.cfg.Generator)
			if err != nil {
				return err
			}
			fresh, err := xtracectx.FromScratch(g, append(opts, xtracectx.WithSampled(a.cfg.Sampled))...)
			if err != nil {
				return err
			}
			tc, status = fresh, "generated"
		}
	}

	a.logger.Debug(xtracectx.NewContext(ctx, tc), "trace context resolved", slog.String("status", status))

	fmt.Fprintf(a.out, "status: %s\n", status)
	printRecord(a, tc.Record())
	printHeaders(a, tc.ToHeaders(nil))
	return nil
}

// parseHeaders 解析 "name: value" 形式的请求头。
func parseHeaders(values []string) (http.Header, error) {
	h := make(http.Header, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, &usageError{msg: fmt.Sprintf("无效的请求头 %q，应为 \"name: value\"", v)}
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h, nil
}

func printRecord(a *app, r xtraceparent.Record) {
	fmt.Fprintf(a.out, "version: %02x\n", r.Version)
	fmt.Fprintf(a.out, "trace-id: %s\n", r.TraceID)
	fmt.Fprintf(a.out, "parent-id: %s\n", r.ParentID)
	fmt.Fprintf(a.out, "sampled: %t\n", r.Sampled)
	if len(r.ExtraFields) > 0 {
		fmt.Fprintf(a.out, "extra-fields: %s\n", strings.Join(r.ExtraFields, ","))
	}
}

func printHeaders(a *app, c xtracectx.Carrier) {
	c.Range(func(key, value string) bool {
		fmt.Fprintf(a.out, "%s: %s\n", strings.ToLower(key), value)
		return true
	})
}
