package family

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/automainint/go-family/internal/lexer"
	"github.com/automainint/go-family/internal/token"
)

// formatter writes the text form of a Value to an output stream.
type formatter struct {
	w      io.Writer
	indent string
	depth  int
	err    error
}

// newFormatter returns a new formatter that writes to w. An indent of zero
// writes every composite on a single line.
func newFormatter(w io.Writer, opts *options) *formatter {
	var indentStr string
	if opts.indent > 0 {
		indentStr = strings.Repeat(" ", opts.indent)
	}
	return &formatter{w: w, indent: indentStr}
}

// format writes the text representation of v to the writer.
func (f *formatter) format(v Value) error {
	f.writeValue(v)
	return f.err
}

func (f *formatter) write(s string) {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.w, s)
}

func (f *formatter) writeIndent() {
	if f.indent == "" {
		return
	}
	for i := 0; i < f.depth; i++ {
		f.write(f.indent)
	}
}

func (f *formatter) writeValue(v Value) {
	switch v.kind {
	case KindEmpty:
		f.write("empty")
	case KindBoolean:
		f.write(strconv.FormatBool(v.boolVal))
	case KindInteger:
		f.write(strconv.FormatInt(v.intVal, 10))
	case KindUnsignedInt:
		f.write("0x" + strconv.FormatUint(v.uintVal, 16))
	case KindReal:
		f.write(formatReal(v.realVal))
	case KindString:
		f.write(formatString(v.strVal))
	case KindByteVector:
		f.writeBytes(v.bytesVal)
	case KindVector:
		f.write("(")
		f.writeList(v.items)
		f.write(")")
	case KindComposite:
		if name, args, ok := callShape(v); ok {
			f.write(name + "(")
			f.writeList(args)
			f.write(")")
			return
		}
		f.writeComposite(v.entries)
	default:
		f.err = fmt.Errorf("family: unsupported kind %d for formatting", v.kind)
	}
}

func (f *formatter) writeList(items []Value) {
	for i, item := range items {
		if i > 0 {
			f.write(", ")
		}
		f.writeValue(item)
	}
}

func (f *formatter) writeBytes(buf []byte) {
	f.write(":: {")
	for _, b := range buf {
		f.write(" ")
		f.write(hexByte(b))
	}
	f.write(" }")
}

func (f *formatter) writeComposite(entries []Entry) {
	if len(entries) == 0 {
		f.write("{}")
		return
	}
	if f.indent == "" {
		f.writeCompactComposite(entries)
		return
	}
	f.writePrettyComposite(entries)
}

func (f *formatter) writeCompactComposite(entries []Entry) {
	f.write("{")
	for i, e := range entries {
		if i > 0 {
			f.write("; ")
		}
		f.writeEntry(e)
	}
	f.write("}")
}

func (f *formatter) writePrettyComposite(entries []Entry) {
	f.write("{\n")
	f.depth++
	for _, e := range entries {
		f.writeIndent()
		f.writeEntry(e)
		f.write("\n")
	}
	f.depth--
	f.writeIndent()
	f.write("}")
}

func (f *formatter) writeEntry(e Entry) {
	f.writeValue(e.Key)
	f.write(" = ")
	f.writeValue(e.Value)
}

// callShape reports whether v can be written with call sugar: exactly the
// entries function = identifier and arguments = vector, in that order.
func callShape(v Value) (string, []Value, bool) {
	if len(v.entries) != 2 {
		return "", nil, false
	}
	fn, args := v.entries[0], v.entries[1]
	if !fn.Key.Equal(String(KeyFunction)) || !args.Key.Equal(String(KeyArguments)) {
		return "", nil, false
	}
	if fn.Value.kind != KindString || !isBareString(fn.Value.strVal) {
		return "", nil, false
	}
	if args.Value.kind != KindVector {
		return "", nil, false
	}
	return fn.Value.strVal, args.Value.items, true
}

func isBareString(s string) bool {
	return lexer.IsIdentifier(s) && !token.IsKeyword(s)
}

func formatReal(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatString(s string) string {
	if isBareString(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(`\x`)
			b.WriteString(hexByte(s[i]))
			i++
			continue
		}
		i += size
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
