// xw3cctl 是 W3C Trace Context 头的命令行工具。
//
// 用法:
//
//	xw3cctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config     配置文件（YAML/JSON），读取其中的 trace 段
//	-l, --log-level  日志级别 (默认: warn)，日志输出到 stderr
//
// 命令:
//
//	parse <traceparent>   解析并打印 traceparent 各字段
//	new                   生成新的 traceparent / tracestate
//	inspect -H "k: v"...  用给定请求头构造链路上下文，打印回写的头
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（如 traceparent 无效）
//	2: 参数错误
//
// 示例:
//
//	xw3cctl parse 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	xw3cctl new --sampled --state vendor=abc
//	xw3cctl inspect -H "traceparent: d-s-c-s" -H "tracestate: foo=1"
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 执行命令并映射退出码。
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{out: stdout, errOut: stderr}
	defer a.close()

	if err := a.command().Run(ctx, args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// command 创建 CLI 根命令。
func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "xw3cctl",
		Usage:     "W3C Trace Context 头解析与生成工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    a.out,
		ErrWriter: a.errOut,

		// tracestate 本身以逗号分隔，不能按逗号拆分切片参数
		DisableSliceFlagSeparator: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "日志级别 (debug/info/warn/error)",
				Value:   "warn",
			},
		},
		Before:       a.before,
		Commands:     a.commands(),
		OnUsageError: onUsageError,
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				return &usageError{msg: fmt.Sprintf("未知命令 %q", cmd.Args().First())}
			}
			return cli.ShowAppHelp(cmd)
		},
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// exitError 命令已完成输出，只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{msg: err.Error()}
}
