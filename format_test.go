package family

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatScalars(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"empty", Empty(), "empty"},
		{"true", Boolean(true), "true"},
		{"false", Boolean(false), "false"},
		{"integer", Integer(-5), "-5"},
		{"min integer", Integer(math.MinInt64), "-9223372036854775808"},
		{"unsigned", UnsignedInt(255), "0xff"},
		{"unsigned zero", UnsignedInt(0), "0x0"},
		{"real", Real(1), "1.0"},
		{"real fraction", Real(0.1), "0.1"},
		{"real exponent", Real(1e6), "1e+06"},
		{"real small", Real(-2.5e-10), "-2.5e-10"},
		{"negative zero", Real(math.Copysign(0, -1)), "-0.0"},
		{"nan", Real(math.NaN()), "nan"},
		{"inf", Real(math.Inf(1)), "inf"},
		{"negative inf", Real(math.Inf(-1)), "-inf"},
		{"identifier", String("abc_1"), "abc_1"},
		{"empty string", String(""), `""`},
		{"keyword", String("true"), `"true"`},
		{"keyword empty", String("empty"), `"empty"`},
		{"keyword nan", String("nan"), `"nan"`},
		{"spaces", String("two words"), `"two words"`},
		{"leading digit", String("1abc"), `"1abc"`},
		{"escapes", String("a\"b\\c\n\t"), `"a\"b\\c\n\t"`},
		{"control", String("\x01\x7f"), `"\u0001\u007f"`},
		{"invalid utf-8", String("a\xffb"), `"a\xffb"`},
		{"unicode", String("é"), `"é"`},
		{"empty bytes", ByteVector(nil), ":: { }"},
		{"bytes", ByteVector([]byte{0x0a, 0xff, 0x00}), ":: { 0a ff 00 }"},
		{"empty vector", Vector(), "()"},
		{"vector", Vector(Integer(1), String("x"), Vector()), "(1, x, ())"},
		{"empty composite", Composite(), "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MarshalText(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.expected, string(out))
		})
	}
}

func call(name string, args ...Value) Value {
	return Composite(
		Pair(String(KeyFunction), String(name)),
		Pair(String(KeyArguments), Vector(args...)),
	)
}

func TestFormatCallSugar(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"call", call("draw", Integer(1), Integer(2)), "draw(1, 2)"},
		{"no arguments", call("run"), "run()"},
		{"nested", call("f", call("g")), "f(g())"},
		{"quoted name", call("two words"), `{function = "two words"; arguments = ()}`},
		{"keyword name", call("true"), `{function = "true"; arguments = ()}`},
		{"arguments not a vector", Composite(
			Pair(String(KeyFunction), String("f")),
			Pair(String(KeyArguments), Integer(1)),
		), "{function = f; arguments = 1}"},
		{"swapped entries", Composite(
			Pair(String(KeyArguments), Vector()),
			Pair(String(KeyFunction), String("f")),
		), "{arguments = (); function = f}"},
		{"packed keys", Pack(call("f")), "{0x1 = f; 0x2 = ()}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MarshalText(tt.value, Indent(0))
			require.NoError(t, err)
			require.Equal(t, tt.expected, string(out))
		})
	}
}

func TestFormatIndent(t *testing.T) {
	v := Composite(
		Pair(String("name"), String("cube")),
		Pair(String("child"), Composite(Pair(String("a"), Integer(1)))),
		Pair(String("list"), Vector(Composite(Pair(String("b"), Integer(2))))),
		Pair(String("none"), Composite()),
		Pair(Composite(Pair(String("k"), Empty())), call("f")),
	)

	testCases := []struct {
		name     string
		opts     []Option
		expected string
	}{
		{
			name:     "Compact Mode",
			opts:     []Option{Indent(0)},
			expected: `{name = cube; child = {a = 1}; list = ({b = 2}); none = {}; {k = empty} = f()}`,
		},
		{
			name: "Default Indent",
			expected: `{
  name = cube
  child = {
    a = 1
  }
  list = ({
    b = 2
  })
  none = {}
  {
    k = empty
  } = f()
}`,
		},
		{
			name: "Four Spaces",
			opts: []Option{Indent(4)},
			expected: `{
    name = cube
    child = {
        a = 1
    }
    list = ({
        b = 2
    })
    none = {}
    {
        k = empty
    } = f()
}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteText(&buf, v, tc.opts...))
			require.Equal(t, tc.expected, buf.String())

			got, err := UnmarshalText(buf.Bytes())
			require.NoError(t, err)
			requireTree(t, v, got)
		})
	}
}

func TestFormatPackKeys(t *testing.T) {
	v := Composite(Pair(String("width"), Integer(4)))
	out, err := MarshalText(v, PackKeys())
	require.NoError(t, err)
	require.Equal(t, "{\n  0x5 = 4\n}", string(out))

	out, err = v.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "{\n  width = 4\n}", string(out))
}

func TestFormatWriterError(t *testing.T) {
	err := WriteText(failingWriter{}, Vector(Integer(1), Integer(2)))
	require.ErrorContains(t, err, "disk full")

	_, err = MarshalText(Empty(), Indent(-1))
	require.Error(t, err)
}
