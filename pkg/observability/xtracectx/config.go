package xtracectx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/omeyang/xw3c/pkg/config/xconf"
	"github.com/omeyang/xw3c/pkg/util/xid"
)

// ErrInvalidConfig 配置无效。
var ErrInvalidConfig = errors.New("xtracectx: invalid config")

// 生成器名称
const (
	GeneratorRandom = "random"
	GeneratorFlake  = "flake"
)

// Config 中间件配置。
//
// YAML 示例：
//
//	trace:
//	  generate_on_missing: true
//	  sampled: false
//	  response_headers: true
//	  generator: flake
type Config struct {
	GenerateOnMissing bool   `koanf:"generate_on_missing" json:"generate_on_missing"`
	Sampled           bool   `koanf:"sampled" json:"sampled"`
	ResponseHeaders   bool   `koanf:"response_headers" json:"response_headers"`
	Generator         string `koanf:"generator" json:"generator"`
}

// DefaultConfig 返回默认配置：不生成、不回写、随机生成器。
func DefaultConfig() Config {
	return Config{Generator: GeneratorRandom}
}

// LoadConfig 从 c 的 path 路径加载配置，缺失字段保留默认值。
func LoadConfig(c xconf.Config, path string) (Config, error) {
	cfg := DefaultConfig()
	if c == nil {
		return cfg, fmt.Errorf("%w: nil config source", ErrInvalidConfig)
	}
	if err := c.Unmarshal(path, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate 校验生成器名称。
func (c Config) Validate() error {
	switch normalizeGenerator(c.Generator) {
	case "", GeneratorRandom, GeneratorFlake:
		return nil
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, c.Generator)
	}
}

func normalizeGenerator(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MiddlewareOptions 将配置转换为中间件选项。
func (c Config) MiddlewareOptions() ([]MiddlewareOption, error) {
	g, err := NewGenerator(c.Generator)
	if err != nil {
		return nil, err
	}
	return []MiddlewareOption{
		WithGenerateOnMissing(c.GenerateOnMissing),
		WithGeneratedSampled(c.Sampled),
		WithResponseHeaders(c.ResponseHeaders),
		WithGenerator(g),
	}, nil
}

// NewGenerator 按名称创建生成器，空名称等价于 random。
func NewGenerator(name string) (xid.Generator, error) {
	switch normalizeGenerator(name) {
	case "", GeneratorRandom:
		return xid.RandomGenerator{}, nil
	case GeneratorFlake:
		g, err := xid.NewFlakeGenerator()
		if err != nil {
			return nil, fmt.Errorf("xtracectx: create flake generator: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, name)
	}
}
