package family

import (
	"bytes"
	"fmt"
	"io"

	"github.com/automainint/go-family/internal/ast"
	"github.com/automainint/go-family/internal/lexer"
	"github.com/automainint/go-family/internal/parser"
	"github.com/automainint/go-family/internal/token"
)

// Decoder reads values from an input stream and hands them to an
// Unmarshaler.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// The stream may be in either form; it is detected with ReadAny. The
// decoder reads the whole of r before decoding.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads one document and passes the decoded tree to u. An error
// returned by u is wrapped in an *UnmarshalerError.
func (d *Decoder) Decode(u Unmarshaler) error {
	if d.r == nil {
		return fmt.Errorf("family: Decode(nil reader)")
	}
	if u == nil {
		return fmt.Errorf("family: Decode(nil Unmarshaler)")
	}
	v, err := ReadAny(d.r, d.opts...)
	if err != nil {
		return err
	}
	if err := u.UnmarshalFamily(v); err != nil {
		return &UnmarshalerError{Type: fmt.Sprintf("%T", u), Err: err}
	}
	return nil
}

// ReadText reads a text document from r.
//
// Syntax errors are reported all at once as ParseErrors. Errors from r are
// returned unchanged.
func ReadText(r io.Reader, opts ...Option) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return UnmarshalText(data, opts...)
}

// UnmarshalText decodes a text document.
func UnmarshalText(data []byte, opts ...Option) (Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Value{}, err
	}
	return decodeText(data, o)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(data []byte) error {
	x, err := UnmarshalText(data)
	if err != nil {
		return err
	}
	*v = x
	return nil
}

func decodeText(data []byte, o *options) (Value, error) {
	p := parser.New(lexer.New(bytes.NewReader(data)), o.maxDepth)
	doc := p.Parse()

	if errs := p.Errors(); len(errs) > 0 {
		perrs := make(ParseErrors, 0, len(errs))
		for _, e := range errs {
			perrs = append(perrs, parseError(e.Token, e.Message))
		}
		return Value{}, perrs
	}

	ds := &decodeState{maxDepth: o.maxDepth, maxValues: o.maxValues}
	v := ds.mapValue(doc.Root, 1)
	if len(ds.errs) > 0 {
		return Value{}, ds.errs
	}
	if o.unpackKeys {
		v = Unpack(v)
	}
	return v, nil
}

func parseError(tok token.Token, msg string) ParseError {
	return ParseError{Message: msg, Line: tok.Line, Column: tok.Column, Offset: tok.Offset}
}

// decodeState maps a syntax tree to a Value. Semantic errors are collected
// so that a document reports all of them at once.
//
// Depth and size limits are charged per tree node, exactly as the binary
// decoder charges them, so that both forms accept the same trees.
type decodeState struct {
	errs      ParseErrors
	maxDepth  int
	maxValues int
	values    int
	exceeded  bool
}

func (ds *decodeState) errorf(node ast.Node, format string, args ...any) {
	ds.errs = append(ds.errs, parseError(node.Pos(), fmt.Sprintf(format, args...)))
}

// enter charges n tree nodes at depth. Once a limit is exceeded nothing
// more is mapped.
func (ds *decodeState) enter(node ast.Node, depth, n int) bool {
	if ds.exceeded {
		return false
	}
	if depth > ds.maxDepth {
		ds.errorf(node, "maximum nesting depth of %d exceeded", ds.maxDepth)
		ds.exceeded = true
		return false
	}
	ds.values += n
	if ds.values > ds.maxValues {
		ds.errorf(node, "document holds more than %d values", ds.maxValues)
		ds.exceeded = true
		return false
	}
	return true
}

func (ds *decodeState) mapValue(expr ast.Expression, depth int) Value {
	if !ds.enter(expr, depth, 1) {
		return Empty()
	}
	switch n := expr.(type) {
	case *ast.EmptyLiteral:
		return Empty()
	case *ast.BooleanLiteral:
		return Boolean(n.Value)
	case *ast.IntegerLiteral:
		return Integer(n.Value)
	case *ast.UnsignedLiteral:
		return UnsignedInt(n.Value)
	case *ast.RealLiteral:
		return Real(n.Value)
	case *ast.StringLiteral:
		return String(n.Value)
	case *ast.BytesLiteral:
		return ByteVector(n.Value)
	case *ast.VectorLiteral:
		return Value{kind: KindVector, items: ds.mapList(n.Elements, depth+1)}
	case *ast.CallExpression:
		return ds.mapCall(n, depth)
	case *ast.CompositeLiteral:
		return ds.mapComposite(n, depth)
	default:
		ds.errorf(expr, "unsupported expression %T", expr)
		return Empty()
	}
}

func (ds *decodeState) mapList(list []ast.Expression, depth int) []Value {
	items := make([]Value, 0, len(list))
	for _, e := range list {
		items = append(items, ds.mapValue(e, depth))
	}
	return items
}

// mapCall turns name(args) into { function = name; arguments = (args) }.
// The call itself has already been charged at depth.
func (ds *decodeState) mapCall(call *ast.CallExpression, depth int) Value {
	// Two keys, the name and the argument vector.
	if !ds.enter(call, depth+1, 4) {
		return Empty()
	}
	return Value{kind: KindComposite, entries: []Entry{
		{Key: String(KeyFunction), Value: String(call.Name)},
		{Key: String(KeyArguments), Value: Value{kind: KindVector, items: ds.mapList(call.Arguments, depth+2)}},
	}}
}

// mapComposite builds a composite in source order. Bare calls are gathered
// into a commands vector placed where the first of them appears.
func (ds *decodeState) mapComposite(obj *ast.CompositeLiteral, depth int) Value {
	ks := newKeySet(len(obj.Members))
	entries := make([]Entry, 0, len(obj.Members))
	commands := -1

	for _, m := range obj.Members {
		switch n := m.(type) {
		case *ast.PairExpression:
			key := ds.mapValue(n.Key, depth+1)
			if ds.exceeded {
				return Empty()
			}
			if !ks.add(key) {
				ds.errorf(n, "duplicate key %s", key)
				continue
			}
			entries = append(entries, Entry{Key: key, Value: ds.mapValue(n.Value, depth+1)})
		case *ast.CallExpression:
			if commands < 0 {
				key := String(KeyCommands)
				if !ks.add(key) {
					ds.errorf(n, "duplicate key %s", key)
					continue
				}
				// The commands key and its vector.
				if !ds.enter(n, depth+1, 2) {
					return Empty()
				}
				commands = len(entries)
				entries = append(entries, Entry{Key: key, Value: Value{kind: KindVector}})
			}
			if !ds.enter(n, depth+2, 1) {
				return Empty()
			}
			cmds := &entries[commands].Value
			cmds.items = append(cmds.items, ds.mapCall(n, depth+2))
		default:
			ds.errorf(m, "unsupported composite member %T", m)
		}
	}
	return Value{kind: KindComposite, entries: entries}
}

// keySet detects duplicate keys. String and UnsignedInt keys are hashed,
// other keys are compared one by one.
type keySet struct {
	scalar map[keyID]struct{}
	other  []Value
}

func newKeySet(n int) *keySet {
	return &keySet{scalar: make(map[keyID]struct{}, n)}
}

// add records key and reports whether it was not present yet.
func (ks *keySet) add(key Value) bool {
	if id, ok := scalarKeyID(key); ok {
		if _, dup := ks.scalar[id]; dup {
			return false
		}
		ks.scalar[id] = struct{}{}
		return true
	}
	for _, k := range ks.other {
		if k.Equal(key) {
			return false
		}
	}
	ks.other = append(ks.other, key)
	return true
}
