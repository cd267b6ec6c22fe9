package xtracectx_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"

	"github.com/omeyang/xw3c/pkg/observability/xtracectx"
)

func TestCarriers(t *testing.T) {
	carriers := map[string]func() xtracectx.Carrier{
		"HeaderCarrier":   func() xtracectx.Carrier { return xtracectx.HeaderCarrier(http.Header{}) },
		"MetadataCarrier": func() xtracectx.Carrier { return xtracectx.MetadataCarrier(metadata.MD{}) },
	}

	for name, newCarrier := range carriers {
		t.Run(name, func(t *testing.T) {
			c := newCarrier()
			assert.False(t, c.Has("traceparent"))
			assert.Empty(t, c.Get("traceparent"))

			c.Set("TraceParent", "a")
			assert.True(t, c.Has("traceparent"), "大小写不敏感")
			assert.Equal(t, "a", c.Get("TRACEPARENT"))

			c.Set("traceparent", "b")
			assert.Equal(t, "b", c.Get("traceparent"), "Set 替换已有值")

			c.Set("b-key", "1")
			c.Set("a-key", "2")

			var keys []string
			c.Range(func(key, _ string) bool {
				keys = append(keys, key)
				return true
			})
			assert.Len(t, keys, 3)
			assert.IsNonDecreasing(t, keys, "按 key 字典序遍历")

			var visited int
			c.Range(func(string, string) bool {
				visited++
				return false
			})
			assert.Equal(t, 1, visited, "返回 false 时停止")
		})
	}
}

func TestCarrier_MultiValue(t *testing.T) {
	h := http.Header{}
	h.Add("traceparent", "first")
	h.Add("traceparent", "second")
	assert.Equal(t, "second", xtracectx.HeaderCarrier(h).Get("traceparent"))

	md := metadata.Pairs("traceparent", "first", "traceparent", "second")
	assert.Equal(t, "second", xtracectx.MetadataCarrier(md).Get("traceparent"))
}
