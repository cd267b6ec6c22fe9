package xid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sony/sonyflake/v2"
)

const (
	// EnvMachineID 直接指定机器 ID 的环境变量（0-65535）
	EnvMachineID = "XID_MACHINE_ID"

	// EnvPodName K8s Pod 名称环境变量（通过 Downward API 注入）
	EnvPodName = "POD_NAME"
)

// 测试注入点
var osHostname = os.Hostname

// FlakeOption FlakeGenerator 选项。
type FlakeOption func(*flakeOptions)

type flakeOptions struct {
	machineID func() (uint16, error)
}

// WithMachineID 设置机器 ID 获取函数，默认 DefaultMachineID。
func WithMachineID(fn func() (uint16, error)) FlakeOption {
	return func(o *flakeOptions) {
		o.machineID = fn
	}
}

// FlakeGenerator trace-id 使用 UUIDv7，span-id 使用 Sonyflake。
type FlakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewFlakeGenerator 创建 FlakeGenerator。
func NewFlakeGenerator(opts ...FlakeOption) (*FlakeGenerator, error) {
	cfg := &flakeOptions{machineID: DefaultMachineID}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.machineID == nil {
		return nil, fmt.Errorf("%w: nil machine id func", ErrInvalidConfig)
	}

	sf, err := sonyflake.New(sonyflake.Settings{
		MachineID: func() (int, error) {
			id, err := cfg.machineID()
			return int(id), err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &FlakeGenerator{sf: sf}, nil
}

// NewTraceID 使用 UUIDv7 的 16 字节。
func (g *FlakeGenerator) NewTraceID() ([16]byte, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return [16]byte{}, fmt.Errorf("xid: generate trace id: %w", err)
	}
	return u, nil
}

// NewSpanID 将 Sonyflake ID 按大端序写入 8 字节。
//
// Sonyflake ID 包含自 epoch 起的时间分量，恒为正数，不会出现全零。
func (g *FlakeGenerator) NewSpanID() ([8]byte, error) {
	var id [8]byte
	n, err := g.sf.NextID()
	if err != nil {
		return id, fmt.Errorf("xid: generate span id: %w", err)
	}
	if n <= 0 {
		return id, ErrZeroID
	}
	binary.BigEndian.PutUint64(id[:], uint64(n))
	return id, nil
}

// DefaultMachineID 按 XID_MACHINE_ID → POD_NAME 哈希 → 主机名哈希的顺序获取机器 ID。
func DefaultMachineID() (uint16, error) {
	if s := os.Getenv(EnvMachineID); s != "" {
		id, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("xid: invalid %s value %q: %w", EnvMachineID, s, err)
		}
		return uint16(id), nil
	}

	if pod := os.Getenv(EnvPodName); pod != "" {
		return hashToMachineID(pod), nil
	}

	hostname, err := osHostname()
	if err != nil {
		return 0, fmt.Errorf("xid: resolve hostname: %w", err)
	}
	if hostname == "" {
		return 0, errors.New("xid: os.Hostname returned empty string")
	}
	return hashToMachineID(hostname), nil
}

// hashToMachineID 将 64 位 xxhash 按 16 位分段异或折叠。
func hashToMachineID(s string) uint16 {
	h := xxhash.Sum64String(s)
	return uint16(h) ^ uint16(h>>16) ^ uint16(h>>32) ^ uint16(h>>48)
}
