package xtracectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xw3c/pkg/config/xconf"
	"github.com/omeyang/xw3c/pkg/observability/xtracectx"
	"github.com/omeyang/xw3c/pkg/util/xid"
)

func TestLoadConfig(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		c, err := xconf.NewFromBytes([]byte(`
trace:
  generate_on_missing: true
  sampled: true
  response_headers: true
  generator: flake
`), xconf.FormatYAML)
		require.NoError(t, err)

		cfg, err := xtracectx.LoadConfig(c, "trace")
		require.NoError(t, err)
		assert.Equal(t, xtracectx.Config{
			GenerateOnMissing: true,
			Sampled:           true,
			ResponseHeaders:   true,
			Generator:         xtracectx.GeneratorFlake,
		}, cfg)
	})

	t.Run("缺失字段使用默认值", func(t *testing.T) {
		c, err := xconf.NewFromBytes([]byte(`{"trace":{"sampled":true}}`), xconf.FormatJSON)
		require.NoError(t, err)

		cfg, err := xtracectx.LoadConfig(c, "trace")
		require.NoError(t, err)
		assert.True(t, cfg.Sampled)
		assert.Equal(t, xtracectx.GeneratorRandom, cfg.Generator)
	})

	t.Run("未知生成器", func(t *testing.T) {
		c, err := xconf.NewFromBytes([]byte("trace:\n  generator: snowflake\n"), xconf.FormatYAML)
		require.NoError(t, err)

		_, err = xtracectx.LoadConfig(c, "trace")
		assert.ErrorIs(t, err, xtracectx.ErrInvalidConfig)
	})

	t.Run("类型错误", func(t *testing.T) {
		c, err := xconf.NewFromBytes([]byte("trace:\n  sampled:\n    nested: 1\n"), xconf.FormatYAML)
		require.NoError(t, err)

		_, err = xtracectx.LoadConfig(c, "trace")
		assert.ErrorIs(t, err, xtracectx.ErrInvalidConfig)
		assert.ErrorIs(t, err, xconf.ErrUnmarshalFailed)
	})

	t.Run("nil 配置源", func(t *testing.T) {
		_, err := xtracectx.LoadConfig(nil, "trace")
		assert.ErrorIs(t, err, xtracectx.ErrInvalidConfig)
	})
}

func TestNewGenerator(t *testing.T) {
	t.Setenv(xid.EnvMachineID, "7")

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "空", input: ""},
		{name: "random", input: "random"},
		{name: "大小写与空白", input: " Flake "},
		{name: "未知", input: "snowflake", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := xtracectx.NewGenerator(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, xtracectx.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			id, err := g.NewTraceID()
			require.NoError(t, err)
			assert.NotEqual(t, [16]byte{}, id)
		})
	}
}

func TestConfig_MiddlewareOptions(t *testing.T) {
	cfg := xtracectx.Config{GenerateOnMissing: true, Sampled: true, ResponseHeaders: true}
	opts, err := cfg.MiddlewareOptions()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	tc, rec := serve(t, req, nil, opts...)

	assert.False(t, tc.IsDegraded())
	assert.True(t, tc.Sampled())
	assert.NotEmpty(t, rec.Header().Get("traceparent"))

	_, err = xtracectx.Config{Generator: "bogus"}.MiddlewareOptions()
	assert.ErrorIs(t, err, xtracectx.ErrInvalidConfig)
}
