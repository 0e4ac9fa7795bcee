package family

import "fmt"

const (
	defaultIndent    = 2
	defaultMaxDepth  = 1000
	defaultMaxValues = 1 << 22
)

// Option configures encoding and decoding.
type Option func(*options) error

type options struct {
	indent     int
	maxDepth   int
	maxValues  int
	packKeys   bool
	unpackKeys bool
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		indent:    defaultIndent,
		maxDepth:  defaultMaxDepth,
		maxValues: defaultMaxValues,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Indent returns an Option that sets the number of spaces used to indent
// nested composites in the text form. Zero writes the whole document on
// a single line.
func Indent(spaces int) Option {
	return func(o *options) error {
		if spaces < 0 {
			return fmt.Errorf("family: indent spaces cannot be negative")
		}
		o.indent = spaces
		return nil
	}
}

// MaxDepth returns an Option that sets the maximum nesting depth accepted
// by the decoders. This bounds the recursion on hostile input.
//
// Depth is counted on the decoded tree, so it means the same for every
// form. The root is at depth 1 and everything inside a container is one
// level below it. In the text form the arguments of a call f(x) sit two
// levels below the call, and a bare command sits two levels below its
// composite.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("family: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// MaxValues returns an Option that sets the maximum number of values a
// decoded document may hold, counting every node of the tree. A bitfield
// of n bools counts n+1.
//
// The limit n must be a positive integer. The default is 4194304.
func MaxValues(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("family: max values must be a positive integer")
		}
		o.maxValues = n
		return nil
	}
}

// PackKeys returns an Option that runs Pack on the tree before it is
// encoded.
func PackKeys() Option {
	return func(o *options) error {
		o.packKeys = true
		return nil
	}
}

// UnpackKeys returns an Option that runs Unpack on the tree after it has
// been decoded.
func UnpackKeys() Option {
	return func(o *options) error {
		o.unpackKeys = true
		return nil
	}
}
