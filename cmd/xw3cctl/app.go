package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xw3c/pkg/config/xconf"
	"github.com/omeyang/xw3c/pkg/observability/xlog"
	"github.com/omeyang/xw3c/pkg/observability/xtracectx"
)

// configPath 配置文件中链路配置所在的段。
const configPath = "trace"

// app 一次命令执行的共享状态。
type app struct {
	out    io.Writer
	errOut io.Writer

	logger   xlog.LoggerWithLevel
	cleanup  func() error
	cfg      xtracectx.Config
	reporter xtracectx.Reporter
}

// before 初始化日志和配置。
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := xlog.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, &usageError{msg: err.Error()}
	}
	logger, cleanup, err := xlog.New().SetOutput(a.errOut).SetLevel(level).
		AddContextAttrs(xtracectx.AppendLogAttrs).Build()
	if err != nil {
		return ctx, fmt.Errorf("init logger: %w", err)
	}
	a.logger, a.cleanup = logger, cleanup

	reporter, err := xtracectx.NewOTelReporter(xtracectx.WithLogger(logger))
	if err != nil {
		return ctx, err
	}
	a.reporter = reporter

	a.cfg = xtracectx.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		c, err := xconf.New(path)
		if err != nil {
			return ctx, err
		}
		if a.cfg, err = xtracectx.LoadConfig(c, configPath); err != nil {
			return ctx, err
		}
		logger.Debug(ctx, "config loaded",
			slog.String("path", path), slog.String("generator", a.cfg.Generator))
	}
	return ctx, nil
}

func (a *app) close() {
	if a.cleanup != nil {
		_ = a.cleanup()
	}
}
