package xconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type traceSection struct {
	Sampled   bool   `koanf:"sampled"`
	Generator string `koanf:"generator"`
}

func TestNewFromBytes_YAML(t *testing.T) {
	data := []byte("trace:\n  sampled: true\n  generator: flake\n")
	c, err := NewFromBytes(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, c.Format())
	assert.Empty(t, c.Path())

	var sec traceSection
	require.NoError(t, c.Unmarshal("trace", &sec))
	assert.True(t, sec.Sampled)
	assert.Equal(t, "flake", sec.Generator)
	assert.Equal(t, "flake", c.Client().String("trace.generator"))
}

func TestNewFromBytes_JSON(t *testing.T) {
	c, err := NewFromBytes([]byte(`{"trace":{"sampled":false,"generator":"random"}}`), FormatJSON)
	require.NoError(t, err)

	var sec traceSection
	require.NoError(t, c.Unmarshal("trace", &sec))
	assert.Equal(t, "random", sec.Generator)
}

func TestNewFromBytes_Empty(t *testing.T) {
	c, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)

	var sec traceSection
	require.NoError(t, c.Unmarshal("trace", &sec))
	assert.Equal(t, traceSection{}, sec)
}

func TestNewFromBytes_Errors(t *testing.T) {
	_, err := NewFromBytes([]byte("a: 1"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewFromBytes([]byte("{not json"), FormatJSON)
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	c, err := NewFromBytes([]byte("trace:\n  sampled:\n    nested: 1\n"), FormatYAML)
	require.NoError(t, err)

	var sec traceSection
	assert.ErrorIs(t, c.Unmarshal("trace", &sec), ErrUnmarshalFailed)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("trace:\n  generator: flake\n"), 0o600))

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path())

	var sec traceSection
	require.NoError(t, c.Unmarshal("trace", &sec))
	assert.Equal(t, "flake", sec.Generator)
}

func TestNew_Errors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = New("config.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestOptions(t *testing.T) {
	type sec struct {
		Name string `json:"name"`
	}
	c, err := NewFromBytes([]byte("a:\n  name: x\n"), FormatYAML, WithDelim("/"), WithTag("json"))
	require.NoError(t, err)
	assert.Equal(t, "x", c.Client().String("a/name"))

	var s sec
	require.NoError(t, c.Unmarshal("a", &s))
	assert.Equal(t, "x", s.Name)
}
