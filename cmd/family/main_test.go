package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	family "github.com/automainint/go-family"
)

const scene = `{
  name = cube
  position = (1.5, 0.0, -2.0)
  draw(1)
}`

// run executes the command line in a fresh working directory.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(viper.New(), strings.NewReader(stdin), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("scene.ft", []byte(scene), 0o600))

	_, err := run(t, "", "convert", "scene.ft", "scene.fb", "--pack", "--compress")
	require.NoError(t, err)

	data, err := os.ReadFile("scene.fb")
	require.NoError(t, err)
	require.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, data[:4])

	out, err := run(t, "", "dump", "scene.fb", "--indent", "0")
	require.NoError(t, err)
	require.Equal(t, "{0x1e = cube; 0x9 = (1.5, 0.0, -2.0); 0x3 = ({0x1 = draw; 0x2 = (1)})}\n", out)

	out, err = run(t, "", "convert", "scene.fb", "-", "--unpack", "--to", "text")
	require.NoError(t, err)
	expected := "{\n  name = cube\n  position = (1.5, 0.0, -2.0)\n  commands = (draw(1))\n}\n"
	require.Equal(t, expected, out)

	v, err := family.UnmarshalText([]byte(out))
	require.NoError(t, err)
	want, err := family.UnmarshalText([]byte(scene))
	require.NoError(t, err)
	require.True(t, want.Equal(v))
}

func TestPackUnpackCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "{ width = 4; height = 2 }", "pack", "-", "-", "--to", "text", "--indent", "0")
	require.NoError(t, err)
	require.Equal(t, "{0x5 = 4; 0x6 = 2}\n", out)

	out, err = run(t, out, "unpack", "-", "-", "--to", "text", "--indent", "0")
	require.NoError(t, err)
	require.Equal(t, "{width = 4; height = 2}\n", out)
}

func TestCBOR(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, scene, "convert", "-", "scene.cbor")
	require.NoError(t, err)

	out, err := run(t, "", "dump", "scene.cbor", "--indent", "0")
	require.NoError(t, err)
	require.Equal(t, "{name = cube; position = (1.5, 0.0, -2.0); commands = (draw(1))}\n", out)
}

func TestEnvironmentSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FAMILY_INDENT", "0")

	out, err := run(t, "{a = (1, 2)}", "dump", "-")
	require.NoError(t, err)
	require.Equal(t, "{a = (1, 2)}\n", out)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "family.toml"), []byte("max-depth = 2\n"), 0o600))

	_, err := run(t, "(((1)))", "dump", "-")
	require.ErrorIs(t, err, family.ErrInvalidFormat)
}

func TestMaxValuesFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "1, 2", "dump", "--max-values", "3", "-")
	require.NoError(t, err)

	_, err = run(t, "1, 2", "dump", "--max-values", "2", "-")
	require.ErrorIs(t, err, family.ErrInvalidFormat)
}

func TestErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "", "dump", "missing.fb")
	require.Error(t, err)

	_, err = run(t, "{a = }", "dump", "-")
	require.ErrorIs(t, err, family.ErrParse)

	_, err = run(t, "", "convert", "only-one-arg")
	require.Error(t, err)

	_, err = run(t, "1", "convert", "-", "-", "--pack", "--unpack")
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestKeys(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "", "keys")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(family.Keys()))
	require.Equal(t, "0x0   _undefined", lines[0])
	require.Equal(t, "0x9   position", lines[9])
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "family v"+Version+"\n", out)
}
