package family

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/automainint/go-family/internal/wire"
)

// Kind tags of the binary form. Every encoded value starts with one of them.
const (
	tagEmpty            byte = 0x00
	tagFalse            byte = 0x01
	tagTrue             byte = 0x02
	tagInteger          byte = 0x03
	tagUnsignedInt      byte = 0x04
	tagReal             byte = 0x05
	tagString           byte = 0x06
	tagByteVector       byte = 0x07
	tagVector           byte = 0x08
	tagComposite        byte = 0x09
	tagBitfield         byte = 0x0A
	tagCompactComposite byte = 0x0B
)

// WriteBinary writes the binary encoding of v to w. Only a failing w can
// make it return an error.
func WriteBinary(w io.Writer, v Value, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	if o.packKeys {
		v = Pack(v)
	}
	bw := bufio.NewWriter(w)
	ww := wire.NewWriter(bw)
	writeValue(ww, v)
	if err := ww.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

// MarshalBinary returns the binary encoding of v.
func MarshalBinary(v Value, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBinary(&buf, v, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v Value) MarshalBinary() ([]byte, error) {
	return MarshalBinary(v)
}

func writeValue(w *wire.Writer, v Value) {
	switch v.kind {
	case KindEmpty:
		w.Byte(tagEmpty)
	case KindBoolean:
		if v.boolVal {
			w.Byte(tagTrue)
		} else {
			w.Byte(tagFalse)
		}
	case KindInteger:
		w.Byte(tagInteger)
		w.Int64(v.intVal)
	case KindUnsignedInt:
		w.Byte(tagUnsignedInt)
		w.Uint64(v.uintVal)
	case KindReal:
		w.Byte(tagReal)
		w.Float64(v.realVal)
	case KindString:
		w.Byte(tagString)
		w.Uint64(uint64(len(v.strVal)))
		w.Bytes([]byte(v.strVal))
	case KindByteVector:
		w.Byte(tagByteVector)
		w.Uint64(uint64(len(v.bytesVal)))
		w.Bytes(v.bytesVal)
	case KindVector:
		if isBitfield(v) {
			writeBitfield(w, v)
			return
		}
		w.Byte(tagVector)
		w.Uint64(uint64(len(v.items)))
		for _, item := range v.items {
			writeValue(w, item)
		}
	case KindComposite:
		if isCompact(v) {
			w.Byte(tagCompactComposite)
			w.Uint64(uint64(len(v.entries)))
			for _, e := range v.entries {
				w.Uint64(e.Key.uintVal)
				writeValue(w, e.Value)
			}
			return
		}
		w.Byte(tagComposite)
		w.Uint64(uint64(len(v.entries)))
		for _, e := range v.entries {
			writeValue(w, e.Key)
			writeValue(w, e.Value)
		}
	}
}

// isBitfield reports whether a vector is non-empty and holds booleans only.
func isBitfield(v Value) bool {
	if len(v.items) == 0 {
		return false
	}
	for _, item := range v.items {
		if item.kind != KindBoolean {
			return false
		}
	}
	return true
}

// isCompact reports whether a composite is non-empty and keyed by unsigned
// integers only, which is what a packed document mostly looks like.
func isCompact(v Value) bool {
	if len(v.entries) == 0 {
		return false
	}
	for _, e := range v.entries {
		if e.Key.kind != KindUnsignedInt {
			return false
		}
	}
	return true
}

func writeBitfield(w *wire.Writer, v Value) {
	n := len(v.items)
	bits := make([]byte, (n+7)/8)
	for i, item := range v.items {
		if item.boolVal {
			bits[i/8] |= 0x80 >> (i % 8)
		}
	}
	w.Byte(tagBitfield)
	w.Uint64(uint64(n))
	w.Bytes(bits)
}

// ReadBinary reads a binary document from r. The whole stream must be
// exactly one encoded value.
func ReadBinary(r io.Reader, opts ...Option) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return UnmarshalBinary(data, opts...)
}

// UnmarshalBinary decodes a binary document.
func UnmarshalBinary(data []byte, opts ...Option) (Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Value{}, err
	}
	d := &binaryDecoder{r: wire.NewReader(data), depth: o.maxDepth, budget: uint64(o.maxValues), maxValues: o.maxValues}
	v, err := d.readValue()
	if err != nil {
		return Value{}, err
	}
	if n := d.r.Remaining(); n > 0 {
		return Value{}, malformed(d.offset(), "%d trailing bytes after document", n)
	}
	if o.unpackKeys {
		v = Unpack(v)
	}
	return v, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Value) UnmarshalBinary(data []byte) error {
	x, err := UnmarshalBinary(data)
	if err != nil {
		return err
	}
	*v = x
	return nil
}

// binaryDecoder reads one document. depth counts the levels still allowed
// and budget the values still allowed.
type binaryDecoder struct {
	r         *wire.Reader
	depth     int
	budget    uint64
	maxValues int
}

func (d *binaryDecoder) offset() int64 { return int64(d.r.Offset()) }

func (d *binaryDecoder) truncated(what string, err error) error {
	if errors.Is(err, wire.ErrShort) {
		return &StreamError{Err: ErrTruncatedStream, Offset: d.offset(), Msg: "reading " + what}
	}
	return err
}

// checkCount rejects a count of elements that cannot fit in the remaining
// input, given the minimum encoded size of one element.
func (d *binaryDecoder) checkCount(what string, n, minSize uint64) error {
	if n > uint64(d.r.Remaining())/minSize {
		return &StreamError{
			Err:    ErrTruncatedStream,
			Offset: d.offset(),
			Msg:    "declared " + what + " exceeds remaining input",
		}
	}
	return nil
}

// reserve fails when n more values would not fit in the budget.
func (d *binaryDecoder) reserve(n uint64) error {
	if n > d.budget {
		return malformed(d.offset(), "document holds more than %d values", d.maxValues)
	}
	return nil
}

// spend charges n values to the budget.
func (d *binaryDecoder) spend(n uint64) error {
	if err := d.reserve(n); err != nil {
		return err
	}
	d.budget -= n
	return nil
}

func (d *binaryDecoder) readValue() (Value, error) {
	d.depth--
	defer func() { d.depth++ }()
	if d.depth < 0 {
		return Value{}, malformed(d.offset(), "maximum nesting depth exceeded")
	}
	if err := d.spend(1); err != nil {
		return Value{}, err
	}

	tag, err := d.r.Byte()
	if err != nil {
		return Value{}, d.truncated("kind tag", err)
	}

	switch tag {
	case tagEmpty:
		return Empty(), nil
	case tagFalse:
		return Boolean(false), nil
	case tagTrue:
		return Boolean(true), nil
	case tagInteger:
		n, err := d.r.Int64()
		if err != nil {
			return Value{}, d.truncated("integer", err)
		}
		return Integer(n), nil
	case tagUnsignedInt:
		n, err := d.r.Uint64()
		if err != nil {
			return Value{}, d.truncated("unsigned integer", err)
		}
		return UnsignedInt(n), nil
	case tagReal:
		x, err := d.r.Float64()
		if err != nil {
			return Value{}, d.truncated("real", err)
		}
		return Real(x), nil
	case tagString:
		b, err := d.readRun("string")
		if err != nil {
			return Value{}, err
		}
		return String(string(b)), nil
	case tagByteVector:
		b, err := d.readRun("byte vector")
		if err != nil {
			return Value{}, err
		}
		return ByteVector(b), nil
	case tagVector:
		return d.readVector()
	case tagComposite:
		return d.readComposite()
	case tagBitfield:
		return d.readBitfield()
	case tagCompactComposite:
		return d.readCompactComposite()
	default:
		return Value{}, malformed(d.offset()-1, "unknown kind tag 0x%02x", tag)
	}
}

func (d *binaryDecoder) readRun(what string) ([]byte, error) {
	n, err := d.r.Uint64()
	if err != nil {
		return nil, d.truncated(what+" length", err)
	}
	b, err := d.r.Bytes(n)
	if err != nil {
		return nil, d.truncated(what+" payload", err)
	}
	return b, nil
}

func (d *binaryDecoder) readCount(what string, minSize uint64) (uint64, error) {
	n, err := d.r.Uint64()
	if err != nil {
		return 0, d.truncated(what+" count", err)
	}
	if err := d.checkCount(what+" count", n, minSize); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *binaryDecoder) readVector() (Value, error) {
	n, err := d.readCount("vector", 1)
	if err != nil {
		return Value{}, err
	}
	if err := d.reserve(n); err != nil {
		return Value{}, err
	}
	items := make([]Value, 0, n)
	for range n {
		item, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	return Value{kind: KindVector, items: items}, nil
}

func (d *binaryDecoder) readComposite() (Value, error) {
	n, err := d.readCount("composite", 2)
	if err != nil {
		return Value{}, err
	}
	if err := d.reserve(2 * n); err != nil {
		return Value{}, err
	}
	entries := make([]Entry, 0, n)
	for range n {
		key, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		value, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return Value{kind: KindComposite, entries: entries}, nil
}

func (d *binaryDecoder) readCompactComposite() (Value, error) {
	n, err := d.readCount("compact composite", 9)
	if err != nil {
		return Value{}, err
	}
	// Keys are built here, values are charged as they are read.
	if err := d.spend(n); err != nil {
		return Value{}, err
	}
	if err := d.reserve(n); err != nil {
		return Value{}, err
	}
	entries := make([]Entry, 0, n)
	for range n {
		key, err := d.r.Uint64()
		if err != nil {
			return Value{}, d.truncated("compact composite key", err)
		}
		value, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: UnsignedInt(key), Value: value})
	}
	return Value{kind: KindComposite, entries: entries}, nil
}

func (d *binaryDecoder) readBitfield() (Value, error) {
	n, err := d.r.Uint64()
	if err != nil {
		return Value{}, d.truncated("bitfield count", err)
	}
	size := n / 8
	if n%8 != 0 {
		size++
	}
	bits, err := d.r.Bytes(size)
	if err != nil {
		return Value{}, d.truncated("bitfield payload", err)
	}
	// The bools sit one level below the bitfield.
	if n > 0 && d.depth < 1 {
		return Value{}, malformed(d.offset(), "maximum nesting depth exceeded")
	}
	if err := d.spend(n); err != nil {
		return Value{}, err
	}
	items := make([]Value, n)
	for i := range items {
		items[i] = Boolean(bits[i/8]&(0x80>>(i%8)) != 0)
	}
	return Value{kind: KindVector, items: items}, nil
}
