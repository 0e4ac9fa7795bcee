package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/automainint/go-family/internal/docio"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	t.Chdir(t.TempDir())
	v := viper.New()
	SetDefaults(v)
	return v
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDefaults(t *testing.T) {
	v := newViper(t)
	require.NoError(t, Init(v, ""))

	c, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, &Config{
		From:      docio.FormatAuto,
		To:        docio.FormatAuto,
		Indent:    2,
		MaxDepth:  1000,
		MaxValues: 1 << 22,
	}, c)
	require.Len(t, c.DecodeOptions(), 2)
	require.Len(t, c.EncodeOptions(), 1)
}

func TestEnvironment(t *testing.T) {
	v := newViper(t)
	t.Setenv("FAMILY_MAX_DEPTH", "5")
	t.Setenv("FAMILY_MAX_VALUES", "64")
	t.Setenv("FAMILY_TO", "text")
	t.Setenv("FAMILY_PACK", "true")
	require.NoError(t, Init(v, ""))

	c, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 5, c.MaxDepth)
	require.Equal(t, 64, c.MaxValues)
	require.Equal(t, docio.FormatText, c.To)
	require.True(t, c.Pack)
	require.Len(t, c.EncodeOptions(), 2)
}

func TestDotEnv(t *testing.T) {
	v := newViper(t)
	unsetenv(t, "FAMILY_COMPRESS")
	unsetenv(t, "FAMILY_INDENT")
	writeFile(t, ".env", "FAMILY_COMPRESS=true\n")
	writeFile(t, ".env.local", "FAMILY_INDENT=0\n")
	require.NoError(t, Init(v, ""))

	c, err := Load(v)
	require.NoError(t, err)
	require.True(t, c.Compress)
	require.Equal(t, 0, c.Indent)
}

func TestDefaultConfigFile(t *testing.T) {
	v := newViper(t)
	writeFile(t, "family.toml", "indent = 4\nfrom = \"binary\"\nunpack = true\n")
	require.NoError(t, Init(v, ""))

	c, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 4, c.Indent)
	require.Equal(t, docio.FormatBinary, c.From)
	require.True(t, c.Unpack)
	require.Len(t, c.DecodeOptions(), 3)
}

func TestExplicitConfigFile(t *testing.T) {
	v := newViper(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "verbose = 2\nlog-file = \"family.log\"\n")
	require.NoError(t, Init(v, path))

	c, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 2, c.Verbosity)
	require.Equal(t, "family.log", c.LogFile)

	err = Init(viper.New(), filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorContains(t, err, "config:")
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		expected string
	}{
		{"pack and unpack", map[string]any{KeyPack: true, KeyUnpack: true}, "mutually exclusive"},
		{"negative indent", map[string]any{KeyIndent: -1}, "indent cannot be negative"},
		{"zero depth", map[string]any{KeyMaxDepth: 0}, "max-depth must be a positive integer"},
		{"zero values", map[string]any{KeyMaxValues: 0}, "max-values must be a positive integer"},
		{"unknown format", map[string]any{KeyTo: "xml"}, `unknown format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			for key, value := range tt.settings {
				v.Set(key, value)
			}
			_, err := Load(v)
			require.ErrorContains(t, err, tt.expected)
		})
	}
}
