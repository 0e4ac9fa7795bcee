// Package wire provides the little-endian primitives of the binary family
// form: a bounds-checked Reader over an in-memory buffer and a Writer with a
// sticky error.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrShort is returned when a read would go past the end of the buffer.
var ErrShort = errors.New("wire: short buffer")

// Reader reads primitives from buf. Every read is checked against the
// remaining input before it is taken.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Byte reads one byte.
func (r *Reader) Byte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrShort
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	if r.Remaining() < 8 {
		return 0, ErrShort
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

// Int64 reads a little-endian two's complement int64.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Float64 reads a little-endian IEEE-754 double.
func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}

// Bytes reads n bytes. The returned slice aliases the buffer.
func (r *Reader) Bytes(n uint64) ([]byte, error) {
	if n > uint64(r.Remaining()) {
		return nil, ErrShort
	}
	b := r.buf[r.off : r.off+int(n)]
	r.off += int(n)
	return b, nil
}

// Writer writes primitives to an io.Writer. After the first failed write
// every further call is a no-op and Err reports the failure.
type Writer struct {
	w       io.Writer
	err     error
	scratch [8]byte
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error { return w.err }

// Byte writes one byte.
func (w *Writer) Byte(b byte) {
	w.scratch[0] = b
	w.write(w.scratch[:1])
}

// Uint64 writes a little-endian uint64.
func (w *Writer) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(w.scratch[:], v)
	w.write(w.scratch[:])
}

// Int64 writes a little-endian two's complement int64.
func (w *Writer) Int64(v int64) { w.Uint64(uint64(v)) }

// Float64 writes a little-endian IEEE-754 double.
func (w *Writer) Float64(v float64) { w.Uint64(math.Float64bits(v)) }

// Bytes writes b as is.
func (w *Writer) Bytes(b []byte) { w.write(b) }

func (w *Writer) write(b []byte) {
	if w.err != nil || len(b) == 0 {
		return
	}
	_, w.err = w.w.Write(b)
}
