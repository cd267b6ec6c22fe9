package xtraceparent

import (
	"fmt"
	"strings"

	"github.com/omeyang/xw3c/pkg/util/xhex"
)

const (
	versionLen  = 2
	traceIDLen  = 32
	parentIDLen = 16
	flagsLen    = 2

	// requiredFields version、trace-id、parent-id、trace-flags
	requiredFields = 4

	// MinLength 非零版本 traceparent 的最小总长度：{2}-{32}-{16}-{2}。
	MinLength = versionLen + 1 + traceIDLen + 1 + parentIDLen + 1 + flagsLen
)

// Parse 解析 traceparent 头。
//
// 长度校验先于十六进制解码，长度不符的输入不会进入解码器。
// 十六进制输入大小写不敏感。trace-flags 只读取 bit 0，其余位忽略。
func Parse(s string) (Record, error) {
	if len(s) < versionLen {
		return Record{}, fmt.Errorf("%w: missing version", ErrUnparseable)
	}
	version, err := xhex.BytesFromHex(s[:versionLen])
	if err != nil {
		return Record{}, fmt.Errorf("%w: version %q is not a hex byte", ErrUnparseable, s[:versionLen])
	}

	fields := strings.Split(s, "-")
	if len(fields[0]) != versionLen {
		return Record{}, fmt.Errorf("%w: version field has length %d", ErrUnparseable, len(fields[0]))
	}
	if len(fields) < requiredFields {
		return Record{}, fmt.Errorf("%w: want at least %d fields, got %d", ErrUnparseable, requiredFields, len(fields))
	}
	traceIDHex, parentIDHex, flagsHex, extra := fields[1], fields[2], fields[3], fields[4:]

	if len(traceIDHex) != traceIDLen {
		return Record{}, fmt.Errorf("%w: trace-id has length %d", ErrUnparseable, len(traceIDHex))
	}
	if len(parentIDHex) != parentIDLen {
		return Record{}, fmt.Errorf("%w: parent-id has length %d", ErrUnparseable, len(parentIDHex))
	}
	if len(flagsHex) != flagsLen {
		return Record{}, fmt.Errorf("%w: trace-flags has length %d", ErrUnparseable, len(flagsHex))
	}

	r := Record{Version: version[0]}
	if err := xhex.DecodeInto(r.TraceID[:], traceIDHex); err != nil {
		return Record{}, fmt.Errorf("%w: trace-id: %w", ErrUnparseable, err)
	}
	if err := xhex.DecodeInto(r.ParentID[:], parentIDHex); err != nil {
		return Record{}, fmt.Errorf("%w: parent-id: %w", ErrUnparseable, err)
	}
	flags, err := xhex.BytesFromHex(flagsHex)
	if err != nil {
		return Record{}, fmt.Errorf("%w: trace-flags: %w", ErrUnparseable, err)
	}
	r.Sampled = TraceFlags(flags[0]).IsSampled()

	if !r.TraceID.IsValid() {
		return Record{}, fmt.Errorf("%w: all-zero trace-id", ErrInvalid)
	}
	if !r.ParentID.IsValid() {
		return Record{}, fmt.Errorf("%w: all-zero parent-id", ErrInvalid)
	}

	if r.Version == 0 {
		if len(extra) != 0 {
			return Record{}, fmt.Errorf("%w: %d extra fields in version 00", ErrInvalid, len(extra))
		}
		return r, nil
	}

	if len(s) < MinLength {
		return Record{}, fmt.Errorf("%w: length %d below minimum %d", ErrInvalid, len(s), MinLength)
	}
	if len(extra) > 0 {
		r.ExtraFields = extra
	}
	return r, nil
}

// Format 将 Record 序列化为规范 traceparent。
//
// 任一 ID 无效时返回空字符串：不得发出无法标识链路的 traceparent。
// ExtraFields 不会被输出。
func Format(r Record) string {
	if !r.IsValid() {
		return ""
	}

	var b strings.Builder
	b.Grow(MinLength)
	b.WriteString(xhex.HexFromBytes([]byte{r.Version}))
	b.WriteByte('-')
	b.WriteString(r.TraceID.String())
	b.WriteByte('-')
	b.WriteString(r.ParentID.String())
	b.WriteByte('-')
	b.WriteString(xhex.HexFromBytes([]byte{byte(r.TraceFlags())}))
	return b.String()
}
