package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xw3c/pkg/observability/xtraceparent"
)

const example1 = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), append([]string{"xw3cctl"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

// headerValue 从 "name: value" 输出中取值
func headerValue(out, name string) string {
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, name+": "); ok {
			return v
		}
	}
	return ""
}

func TestParse(t *testing.T) {
	t.Run("有效", func(t *testing.T) {
		code, out, _ := runCLI(t, "parse", example1)
		require.Equal(t, 0, code)
		assert.Equal(t, "00", headerValue(out, "version"))
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", headerValue(out, "trace-id"))
		assert.Equal(t, "00f067aa0ba902b7", headerValue(out, "parent-id"))
		assert.Equal(t, "true", headerValue(out, "sampled"))
		assert.NotContains(t, out, "extra-fields")
	})

	t.Run("额外字段", func(t *testing.T) {
		code, out, _ := runCLI(t, "parse", "01-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00-01234-5678")
		require.Equal(t, 0, code)
		assert.Equal(t, "01", headerValue(out, "version"))
		assert.Equal(t, "01234,5678", headerValue(out, "extra-fields"))
	})

	t.Run("结构错误", func(t *testing.T) {
		code, out, errOut := runCLI(t, "parse", "d-s-c-s")
		assert.Equal(t, 1, code)
		assert.Empty(t, out)
		assert.True(t, strings.HasPrefix(errOut, "unparseable: "), errOut)
	})

	t.Run("语义无效", func(t *testing.T) {
		code, _, errOut := runCLI(t, "parse", "00-00000000000000000000000000000000-00f067aa0ba902b7-01")
		assert.Equal(t, 1, code)
		assert.True(t, strings.HasPrefix(errOut, "invalid: "), errOut)
	})

	t.Run("缺少参数", func(t *testing.T) {
		code, _, _ := runCLI(t, "parse")
		assert.Equal(t, 2, code)
	})
}

func TestNew(t *testing.T) {
	t.Run("默认", func(t *testing.T) {
		code, out, _ := runCLI(t, "new")
		require.Equal(t, 0, code)

		r, err := xtraceparent.Parse(headerValue(out, "traceparent"))
		require.NoError(t, err)
		assert.False(t, r.Sampled)
		assert.Empty(t, headerValue(out, "tracestate"))
	})

	t.Run("采样与 tracestate", func(t *testing.T) {
		code, out, _ := runCLI(t, "new", "--sampled", "--state", "foo=1,bar=2")
		require.Equal(t, 0, code)

		r, err := xtraceparent.Parse(headerValue(out, "traceparent"))
		require.NoError(t, err)
		assert.True(t, r.Sampled)
		assert.Equal(t, "foo=1,bar=2", headerValue(out, "tracestate"))
	})

	t.Run("flake 生成器", func(t *testing.T) {
		t.Setenv("XID_MACHINE_ID", "42")
		code, out, _ := runCLI(t, "new", "--generator", "flake")
		require.Equal(t, 0, code)
		_, err := xtraceparent.Parse(headerValue(out, "traceparent"))
		assert.NoError(t, err)
	})

	t.Run("无效 tracestate", func(t *testing.T) {
		code, _, _ := runCLI(t, "new", "--state", "not a state")
		assert.Equal(t, 2, code)
	})

	t.Run("未知生成器", func(t *testing.T) {
		code, _, _ := runCLI(t, "new", "--generator", "bogus")
		assert.Equal(t, 2, code)
	})
}

func TestInspect(t *testing.T) {
	t.Run("有效头原样回写", func(t *testing.T) {
		code, out, _ := runCLI(t, "inspect", "-H", "traceparent: "+example1, "-H", "tracestate: foo=1,bar=2", "-H", "x-other: 1")
		require.Equal(t, 0, code)
		assert.Equal(t, "valid", headerValue(out, "status"))
		assert.Equal(t, example1, headerValue(out, "traceparent"))
		assert.Equal(t, "foo=1,bar=2", headerValue(out, "tracestate"))
		assert.Empty(t, headerValue(out, "x-other"), "只回写 trace context 头")
	})

	t.Run("调试日志带链路字段", func(t *testing.T) {
		code, _, errOut := runCLI(t, "--log-level", "debug", "inspect", "-H", "traceparent: "+example1)
		require.Equal(t, 0, code, errOut)
		assert.Contains(t, errOut, "status=valid")
		assert.Contains(t, errOut, "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
		assert.Contains(t, errOut, "parent_id=00f067aa0ba902b7")
	})

	t.Run("降级时日志不带链路字段", func(t *testing.T) {
		code, _, errOut := runCLI(t, "--log-level", "debug", "inspect", "-H", "traceparent: d-s-c-s")
		require.Equal(t, 0, code, errOut)
		assert.Contains(t, errOut, "status=degraded")
		assert.NotContains(t, errOut, "trace_id=")
	})

	t.Run("多行 tracestate 合并", func(t *testing.T) {
		code, out, errOut := runCLI(t, "inspect", "-H", "traceparent: "+example1, "-H", "tracestate: a=1", "-H", "tracestate: b=2")
		require.Equal(t, 0, code, errOut)
		assert.Equal(t, "a=1,b=2", headerValue(out, "tracestate"))
	})

	t.Run("多成员 tracestate 不被拆分", func(t *testing.T) {
		code, out, errOut := runCLI(t, "inspect", "-H", "traceparent: "+example1, "-H", "tracestate: a=1,b=2,c=3")
		require.Equal(t, 0, code, errOut)
		assert.Equal(t, "a=1,b=2,c=3", headerValue(out, "tracestate"))
	})

	t.Run("无效头降级", func(t *testing.T) {
		code, out, errOut := runCLI(t, "inspect", "-H", "traceparent: d-s-c-s")
		require.Equal(t, 0, code)
		assert.Equal(t, "degraded", headerValue(out, "status"))
		assert.Equal(t, "00000000000000000000000000000000", headerValue(out, "trace-id"))
		assert.Empty(t, headerValue(out, "traceparent"))
		assert.Contains(t, errOut, "unparseable", "降级以 warn 日志上报")
	})

	t.Run("日志级别", func(t *testing.T) {
		_, _, errOut := runCLI(t, "--log-level", "error", "inspect", "-H", "traceparent: d-s-c-s")
		assert.Empty(t, errOut)
	})

	t.Run("无效的头格式", func(t *testing.T) {
		code, _, _ := runCLI(t, "inspect", "-H", "no-colon")
		assert.Equal(t, 2, code)
	})
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xw3c.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
trace:
  generate_on_missing: true
  sampled: true
`), 0o600))

	t.Run("缺失时生成", func(t *testing.T) {
		code, out, _ := runCLI(t, "--config", path, "inspect")
		require.Equal(t, 0, code)
		assert.Equal(t, "generated", headerValue(out, "status"))

		r, err := xtraceparent.Parse(headerValue(out, "traceparent"))
		require.NoError(t, err)
		assert.True(t, r.Sampled)
	})

	t.Run("new 使用配置默认值", func(t *testing.T) {
		code, out, _ := runCLI(t, "-c", path, "new")
		require.Equal(t, 0, code)
		r, err := xtraceparent.Parse(headerValue(out, "traceparent"))
		require.NoError(t, err)
		assert.True(t, r.Sampled)
	})

	t.Run("命令行覆盖配置", func(t *testing.T) {
		code, out, _ := runCLI(t, "-c", path, "new", "--sampled=false")
		require.Equal(t, 0, code)
		r, err := xtraceparent.Parse(headerValue(out, "traceparent"))
		require.NoError(t, err)
		assert.False(t, r.Sampled)
	})

	t.Run("配置文件不存在", func(t *testing.T) {
		code, _, _ := runCLI(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "new")
		assert.Equal(t, 1, code)
	})
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "未知命令", args: []string{"bogus"}},
		{name: "未知 flag", args: []string{"new", "--bogus"}},
		{name: "无效日志级别", args: []string{"--log-level", "loud", "new"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			assert.Equal(t, 2, code)
		})
	}
}
