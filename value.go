package family

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindString
	KindUnsignedInt
	KindByteVector
	KindVector
	KindComposite
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindUnsignedInt:
		return "unsigned integer"
	case KindByteVector:
		return "byte vector"
	case KindVector:
		return "vector"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// Value is one node of a family tree. The zero Value is Empty.
//
// A Value owns its children. Constructors copy the slices passed to them,
// so a tree never shares nodes with its inputs.
type Value struct {
	kind Kind

	// Scalar payloads (only one valid based on kind)
	boolVal  bool
	intVal   int64
	uintVal  uint64
	realVal  float64
	strVal   string
	bytesVal []byte

	// Container payloads
	items   []Value
	entries []Entry
}

// Entry is a key-value pair of a Composite.
type Entry struct {
	Key   Value
	Value Value
}

// Pair creates an Entry for use in Composite construction.
func Pair(key, value Value) Entry {
	return Entry{Key: key, Value: value}
}

// ============================================================
// Constructors
// ============================================================

// Empty creates an empty value.
func Empty() Value {
	return Value{}
}

// Boolean creates a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, boolVal: b}
}

// Integer creates a signed integer value.
func Integer(n int64) Value {
	return Value{kind: KindInteger, intVal: n}
}

// Real creates a floating-point value.
func Real(x float64) Value {
	return Value{kind: KindReal, realVal: x}
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// UnsignedInt creates an unsigned integer value.
func UnsignedInt(n uint64) Value {
	return Value{kind: KindUnsignedInt, uintVal: n}
}

// ByteVector creates a byte vector value holding a copy of buf.
func ByteVector(buf []byte) Value {
	return Value{kind: KindByteVector, bytesVal: bytes.Clone(buf)}
}

// Vector creates a vector value from items.
func Vector(items ...Value) Value {
	return Value{kind: KindVector, items: cloneValues(items)}
}

// Composite creates a composite value from entries, keeping their order.
func Composite(entries ...Entry) Value {
	return Value{kind: KindComposite, entries: cloneEntries(entries)}
}

// ============================================================
// Kind inspection
// ============================================================

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsEmpty() bool       { return v.kind == KindEmpty }
func (v Value) IsBoolean() bool     { return v.kind == KindBoolean }
func (v Value) IsInteger() bool     { return v.kind == KindInteger }
func (v Value) IsReal() bool        { return v.kind == KindReal }
func (v Value) IsString() bool      { return v.kind == KindString }
func (v Value) IsUnsignedInt() bool { return v.kind == KindUnsignedInt }
func (v Value) IsByteVector() bool  { return v.kind == KindByteVector }
func (v Value) IsVector() bool      { return v.kind == KindVector }
func (v Value) IsComposite() bool   { return v.kind == KindComposite }

// ============================================================
// Accessors
// ============================================================

func (v Value) expect(k Kind) error {
	if v.kind != k {
		return &KindMismatchError{Want: k, Got: v.kind}
	}
	return nil
}

// AsBoolean returns the boolean payload.
func (v Value) AsBoolean() (bool, error) {
	if err := v.expect(KindBoolean); err != nil {
		return false, err
	}
	return v.boolVal, nil
}

// AsInteger returns the signed integer payload.
func (v Value) AsInteger() (int64, error) {
	if err := v.expect(KindInteger); err != nil {
		return 0, err
	}
	return v.intVal, nil
}

// AsReal returns the floating-point payload.
func (v Value) AsReal() (float64, error) {
	if err := v.expect(KindReal); err != nil {
		return 0, err
	}
	return v.realVal, nil
}

// AsString returns the string payload.
func (v Value) AsString() (string, error) {
	if err := v.expect(KindString); err != nil {
		return "", err
	}
	return v.strVal, nil
}

// AsUnsignedInt returns the unsigned integer payload.
func (v Value) AsUnsignedInt() (uint64, error) {
	if err := v.expect(KindUnsignedInt); err != nil {
		return 0, err
	}
	return v.uintVal, nil
}

// AsByteVector returns a copy of the byte vector payload.
func (v Value) AsByteVector() ([]byte, error) {
	if err := v.expect(KindByteVector); err != nil {
		return nil, err
	}
	return bytes.Clone(v.bytesVal), nil
}

// AsVector returns the vector elements. The returned slice is a shallow
// copy; modify the vector through Append.
func (v Value) AsVector() ([]Value, error) {
	if err := v.expect(KindVector); err != nil {
		return nil, err
	}
	return slices.Clone(v.items), nil
}

// AsComposite returns the composite entries in order. The returned slice is
// a shallow copy; modify the composite through Set.
func (v Value) AsComposite() ([]Entry, error) {
	if err := v.expect(KindComposite); err != nil {
		return nil, err
	}
	return slices.Clone(v.entries), nil
}

// Len returns the number of elements of a vector, entries of a composite or
// bytes of a byte vector. It is 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindVector:
		return len(v.items)
	case KindComposite:
		return len(v.entries)
	case KindByteVector:
		return len(v.bytesVal)
	default:
		return 0
	}
}

// Index returns the i-th element of a vector or the value of the i-th
// entry of a composite.
func (v Value) Index(i int) (Value, bool) {
	switch v.kind {
	case KindVector:
		if i >= 0 && i < len(v.items) {
			return v.items[i], true
		}
	case KindComposite:
		if i >= 0 && i < len(v.entries) {
			return v.entries[i].Value, true
		}
	}
	return Value{}, false
}

// Get returns the value stored under key in a composite.
func (v Value) Get(key Value) (Value, bool) {
	if i := v.find(key); i >= 0 {
		return v.entries[i].Value, true
	}
	return Value{}, false
}

// Has reports whether a composite holds key.
func (v Value) Has(key Value) bool {
	return v.find(key) >= 0
}

func (v Value) find(key Value) int {
	if v.kind != KindComposite {
		return -1
	}
	for i := range v.entries {
		if v.entries[i].Key.Equal(key) {
			return i
		}
	}
	return -1
}

// ============================================================
// Mutators
// ============================================================

// Append adds a copy of item to the end of a vector.
func (v *Value) Append(item Value) error {
	if err := v.expect(KindVector); err != nil {
		return err
	}
	v.items = append(v.items, item.Clone())
	return nil
}

// Set stores a copy of value under key in a composite. An existing entry
// keeps its position; a new key is appended.
func (v *Value) Set(key, value Value) error {
	if err := v.expect(KindComposite); err != nil {
		return err
	}
	if i := v.find(key); i >= 0 {
		v.entries[i].Value = value.Clone()
		return nil
	}
	v.entries = append(v.entries, Entry{Key: key.Clone(), Value: value.Clone()})
	return nil
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindByteVector:
		v.bytesVal = bytes.Clone(v.bytesVal)
	case KindVector:
		v.items = cloneValues(v.items)
	case KindComposite:
		v.entries = cloneEntries(v.entries)
	}
	return v
}

func cloneValues(items []Value) []Value {
	if items == nil {
		return nil
	}
	out := make([]Value, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = Entry{Key: entries[i].Key.Clone(), Value: entries[i].Value.Clone()}
	}
	return out
}

// ============================================================
// Equality and ordering
// ============================================================

// Equal reports whether v and other have the same kind and recursively
// equal payloads.
func (v Value) Equal(other Value) bool {
	return v.Compare(other) == 0
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, with or
// after other. Values of different kinds are ordered by kind. Real values
// follow cmp.Compare, so NaN equals NaN and sorts before every other number.
func (v Value) Compare(other Value) int {
	if c := cmp.Compare(v.kind, other.kind); c != 0 {
		return c
	}
	switch v.kind {
	case KindBoolean:
		return compareBool(v.boolVal, other.boolVal)
	case KindInteger:
		return cmp.Compare(v.intVal, other.intVal)
	case KindReal:
		return cmp.Compare(v.realVal, other.realVal)
	case KindString:
		return strings.Compare(v.strVal, other.strVal)
	case KindUnsignedInt:
		return cmp.Compare(v.uintVal, other.uintVal)
	case KindByteVector:
		return bytes.Compare(v.bytesVal, other.bytesVal)
	case KindVector:
		return slices.CompareFunc(v.items, other.items, Value.Compare)
	case KindComposite:
		return slices.CompareFunc(v.entries, other.entries, func(a, b Entry) int {
			if c := a.Key.Compare(b.Key); c != 0 {
				return c
			}
			return a.Value.Compare(b.Value)
		})
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	default:
		return 1
	}
}

// String returns the single-line text form of v.
func (v Value) String() string {
	var b strings.Builder
	f := newFormatter(&b, &options{indent: 0})
	_ = f.format(v)
	return b.String()
}
