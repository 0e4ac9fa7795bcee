package family

import (
	"fmt"
	"io"
)

// Marshaler is the interface implemented by host models that can describe
// themselves as a tree.
type Marshaler interface {
	MarshalFamily() (Value, error)
}

// Unmarshaler is the interface implemented by host models that can load
// themselves from a tree. It may reject a well-formed tree that does not
// describe the model.
type Unmarshaler interface {
	UnmarshalFamily(Value) error
}

// Format selects the stream form written by Encode.
type Format int

const (
	FormatBinary Format = iota
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MarshalFamily implements Marshaler, so a tree can be encoded directly.
func (v Value) MarshalFamily() (Value, error) {
	return v, nil
}

// UnmarshalFamily implements Unmarshaler.
func (v *Value) UnmarshalFamily(x Value) error {
	*v = x
	return nil
}

// Encode writes the tree of m to w in the given form.
func Encode(w io.Writer, m Marshaler, format Format, opts ...Option) error {
	return NewEncoder(w, format, opts...).Encode(m)
}

// Decode reads one document of either form from r and passes it to u.
func Decode(r io.Reader, u Unmarshaler, opts ...Option) error {
	return NewDecoder(r, opts...).Decode(u)
}
