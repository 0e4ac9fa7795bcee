package family

import (
	"errors"
	"io"
)

// ReadAny reads a document of either form from r.
//
// The binary decoder is tried first. When it rejects the stream as
// malformed or truncated, the same bytes are decoded as text. If that fails
// too, the error is an *InvalidFormatError holding both decoder errors.
// Errors from r and invalid options are returned unchanged.
func ReadAny(r io.Reader, opts ...Option) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return UnmarshalAny(data, opts...)
}

// UnmarshalAny decodes a document of either form.
func UnmarshalAny(data []byte, opts ...Option) (Value, error) {
	if _, err := newOptions(opts); err != nil {
		return Value{}, err
	}

	v, binErr := UnmarshalBinary(data, opts...)
	if binErr == nil {
		return v, nil
	}
	if !errors.Is(binErr, ErrMalformedStream) && !errors.Is(binErr, ErrTruncatedStream) {
		return Value{}, binErr
	}

	v, textErr := UnmarshalText(data, opts...)
	if textErr == nil {
		return v, nil
	}
	return Value{}, &InvalidFormatError{Binary: binErr, Text: textErr}
}
