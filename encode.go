package family

import (
	"bytes"
	"fmt"
	"io"
)

// Encoder writes trees produced by a Marshaler to an output stream.
type Encoder struct {
	w      io.Writer
	format Format
	opts   []Option
}

// NewEncoder returns a new encoder that writes to w in the given form.
func NewEncoder(w io.Writer, format Format, opts ...Option) *Encoder {
	return &Encoder{w: w, format: format, opts: opts}
}

// Encode asks m for its tree and writes it to the stream. An error returned
// by m is wrapped in a *MarshalerError.
func (e *Encoder) Encode(m Marshaler) error {
	if m == nil {
		return fmt.Errorf("family: Encode(nil Marshaler)")
	}
	v, err := m.MarshalFamily()
	if err != nil {
		return &MarshalerError{Type: fmt.Sprintf("%T", m), Err: err}
	}

	switch e.format {
	case FormatBinary:
		return WriteBinary(e.w, v, e.opts...)
	case FormatText:
		return WriteText(e.w, v, e.opts...)
	default:
		return fmt.Errorf("family: unknown format %d", e.format)
	}
}

// WriteText writes the text encoding of v to w. Nested composites are
// indented by two spaces unless the Indent option says otherwise. Only a
// failing w can make it return an error.
func WriteText(w io.Writer, v Value, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	if o.packKeys {
		v = Pack(v)
	}
	return newFormatter(w, o).format(v)
}

// MarshalText returns the text encoding of v.
func MarshalText(v Value, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteText(&buf, v, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return MarshalText(v)
}
