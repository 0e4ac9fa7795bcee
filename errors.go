package family

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrKindMismatch is matched by errors returned from accessors
	// that were asked for a payload of the wrong kind.
	ErrKindMismatch = errors.New("family: kind mismatch")

	// ErrMalformedStream is matched by binary decode errors caused by an
	// unknown kind tag or otherwise inconsistent data.
	ErrMalformedStream = errors.New("family: malformed stream")

	// ErrTruncatedStream is matched by binary decode errors caused by a
	// stream that ends before a declared length or count is satisfied.
	ErrTruncatedStream = errors.New("family: truncated stream")

	// ErrParse is matched by text decode errors.
	ErrParse = errors.New("family: parse error")

	// ErrInvalidFormat is matched by ReadAny errors when neither the binary
	// nor the text decoder accepted the stream.
	ErrInvalidFormat = errors.New("family: invalid format")
)

// A KindMismatchError reports an access to a Value payload of the wrong kind.
type KindMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *KindMismatchError) Error() string {
	return "family: expected " + e.Want.String() + ", got " + e.Got.String()
}

func (e *KindMismatchError) Is(target error) bool { return target == ErrKindMismatch }

// A StreamError describes a binary decode failure at a byte offset.
// Err is ErrMalformedStream or ErrTruncatedStream.
type StreamError struct {
	Err    error
	Offset int64
	Msg    string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Offset, e.Msg)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ParseError represents a single error that occurred during text decoding.
// It includes the position of the error.
type ParseError struct {
	Message string
	Line    int
	Column  int
	Offset  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ParseErrors is a slice of ParseError that implements the error interface.
// All syntax errors found in a document are returned at once.
type ParseErrors []ParseError

func (p ParseErrors) Error() string {
	switch len(p) {
	case 0:
		return ""
	case 1:
		return "family: parse error at " + p[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "family: %d parse errors:", len(p))
	for _, e := range p {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

func (p ParseErrors) Is(target error) bool { return target == ErrParse && len(p) > 0 }

// An InvalidFormatError is returned by ReadAny when the stream is neither a
// binary nor a text document. It carries both decoder errors.
type InvalidFormatError struct {
	Binary error
	Text   error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: binary: %v; text: %v", ErrInvalidFormat, e.Binary, e.Text)
}

func (e *InvalidFormatError) Unwrap() []error {
	return []error{ErrInvalidFormat, e.Binary, e.Text}
}

// A MarshalerError represents an error from calling a MarshalFamily method.
type MarshalerError struct {
	Type string
	Err  error
}

func (e *MarshalerError) Error() string {
	return "family: error calling MarshalFamily for type " + e.Type + ": " + e.Err.Error()
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// An UnmarshalerError represents an error from calling an UnmarshalFamily
// method: the host rejected a well-formed tree.
type UnmarshalerError struct {
	Type string
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "family: error calling UnmarshalFamily for type " + e.Type + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }

func malformed(offset int64, format string, args ...any) error {
	return &StreamError{Err: ErrMalformedStream, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
