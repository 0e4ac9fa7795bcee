/*
Package family implements a self-describing hierarchical value format used to
exchange scene and asset data between tools.

A document is a single Value: empty, a boolean, a signed or unsigned 64-bit
integer, a real, a string, a byte vector, a vector of values or a composite
of ordered key-value entries. Keys of a composite may be any value.

Every Value has two equivalent encodings. The binary form is compact and
exact:

	data, err := family.MarshalBinary(v, family.PackKeys())

The text form is meant for people:

	{
	  name = cube
	  position = (1.5, 0.0, -2.0)
	  pixels = :: { af b7 00 }
	  draw(1, 2)
	}

Bare identifiers are strings, unsigned integers are written in hexadecimal
and name(args) is shorthand for the composite

	{ function = name; arguments = (args) }

Inside a composite, bare calls are gathered into a commands vector.

Well-known key names can be replaced by their index in a fixed key
dictionary with Pack and restored with Unpack. Both always succeed and never
merge entries.

ReadAny accepts either form and tells them apart by trying the binary
decoder first:

	v, err := family.ReadAny(r)
	if errors.Is(err, family.ErrInvalidFormat) {
		// neither binary nor text
	}

Host models take part through the Marshaler and Unmarshaler interfaces and
the Encode and Decode functions.
*/
package family
