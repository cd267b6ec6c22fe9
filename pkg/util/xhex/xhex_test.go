package xhex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesFromHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"空字符串", "", []byte{}},
		{"单字符", "1", []byte{1}},
		{"单字符_f", "f", []byte{15}},
		{"两字符", "10", []byte{16}},
		{"两字符_ff", "ff", []byte{255}},
		{"双字节_零", "0000", []byte{0, 0}},
		{"双字节", "1234", []byte{18, 52}},
		{"双字节_ffff", "ffff", []byte{255, 255}},
		{"奇数长度补零", "101", []byte{1, 1}},
		{"奇数长度补零_前导零", "022", []byte{0, 34}},
		{"大小写混合_aB", "aB", []byte{171}},
		{"大小写混合_Ab", "Ab", []byte{171}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BytesFromHex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBytesFromHex_Invalid(t *testing.T) {
	for _, input := range []string{"zz", "0g", "-1", "12 4"} {
		t.Run(input, func(t *testing.T) {
			_, err := BytesFromHex(input)
			assert.ErrorIs(t, err, ErrInvalidHex)
		})
	}
}

func TestHexFromBytes(t *testing.T) {
	assert.Equal(t, "", HexFromBytes(nil))
	assert.Equal(t, "00", HexFromBytes([]byte{0}))
	assert.Equal(t, "0f10ff", HexFromBytes([]byte{15, 16, 255}))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736",
		HexFromBytes([]byte{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6,
			0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36}))
}

func TestDecodeInto(t *testing.T) {
	var dst [4]byte
	require.NoError(t, DecodeInto(dst[:], "DEADbeef"))
	assert.Equal(t, [4]byte{0xde, 0xad, 0xbe, 0xef}, dst)

	assert.ErrorIs(t, DecodeInto(dst[:], "dead"), ErrInvalidHex)
	assert.ErrorIs(t, DecodeInto(dst[:], "deadbeeg"), ErrInvalidHex)
}

func TestRoundTrip(t *testing.T) {
	in := []byte{0, 1, 2, 3, 0xa0, 0xff}
	out, err := BytesFromHex(HexFromBytes(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
