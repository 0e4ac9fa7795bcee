package family

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
)

// CBOR tag numbers for the kinds CBOR has no native item for. They are in
// the first-come-first-served range of the IANA registry.
const (
	cborTagUnsignedInt uint64 = 55800
	cborTagComposite   uint64 = 55801
)

// The nesting limits of the CBOR library. Every composite level takes
// three CBOR levels: tag, entry array and key-value pair.
const (
	cborMinNestedLevels = 4
	cborMaxNestedLevels = 65535
	cborMaxElements     = 2147483647
)

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("family: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := newCBORDecMode(defaultMaxDepth)
	if err != nil {
		panic(fmt.Sprintf("family: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// newCBORDecMode returns a decoding mode deep enough for trees of maxDepth.
// Element counts are left to the MaxValues budget.
func newCBORDecMode(maxDepth int) (cbor.DecMode, error) {
	levels := min(max(3*maxDepth, cborMinNestedLevels), cborMaxNestedLevels)
	return cbor.DecOptions{
		MaxNestedLevels:  levels,
		MaxArrayElements: cborMaxElements,
		MaxMapPairs:      cborMaxElements,
	}.DecMode()
}

// MarshalCBOR implements cbor.Marshaler.
//
// UnsignedInt is written as tag 55800 around an unsigned integer and a
// Composite as tag 55801 around an array of [key, value] pairs, so that
// key order and key kinds survive. Strings must be valid UTF-8.
func (v Value) MarshalCBOR() ([]byte, error) {
	return MarshalCBOR(v)
}

// MarshalCBOR returns the CBOR encoding of v. Only PackKeys has an effect.
func MarshalCBOR(v Value, opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if o.packKeys {
		v = Pack(v)
	}
	item, err := toCBOR(v)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(item)
}

// UnmarshalCBOR implements cbor.Unmarshaler with the default options.
func (v *Value) UnmarshalCBOR(data []byte) error {
	x, err := UnmarshalCBOR(data)
	if err != nil {
		return err
	}
	*v = x
	return nil
}

// UnmarshalCBOR decodes a CBOR item. Untagged CBOR maps are accepted as
// composites with entries sorted by key.
//
// MaxDepth and MaxValues are checked on the decoded tree, as for the
// binary and text forms. The CBOR nesting limit is set to three levels per
// tree level, capped at the 65535 levels the CBOR library supports.
func UnmarshalCBOR(data []byte, opts ...Option) (Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Value{}, err
	}
	dm := cborDecMode
	if o.maxDepth != defaultMaxDepth {
		if dm, err = newCBORDecMode(o.maxDepth); err != nil {
			return Value{}, fmt.Errorf("family: cbor: %w", err)
		}
	}

	var item any
	if err := dm.Unmarshal(data, &item); err != nil {
		return Value{}, fmt.Errorf("family: cbor: %w", err)
	}
	d := &cborDecoder{maxDepth: o.maxDepth, maxValues: o.maxValues}
	v, err := d.value(item, 1)
	if err != nil {
		return Value{}, err
	}
	if o.unpackKeys {
		v = Unpack(v)
	}
	return v, nil
}

func toCBOR(v Value) (any, error) {
	switch v.kind {
	case KindEmpty:
		return nil, nil
	case KindBoolean:
		return v.boolVal, nil
	case KindInteger:
		return v.intVal, nil
	case KindUnsignedInt:
		return cbor.Tag{Number: cborTagUnsignedInt, Content: v.uintVal}, nil
	case KindReal:
		return v.realVal, nil
	case KindString:
		if !utf8.ValidString(v.strVal) {
			return nil, fmt.Errorf("family: cbor: string %q is not valid UTF-8", v.strVal)
		}
		return v.strVal, nil
	case KindByteVector:
		// A nil slice would be written as null.
		if v.bytesVal == nil {
			return []byte{}, nil
		}
		return v.bytesVal, nil
	case KindVector:
		items := make([]any, 0, len(v.items))
		for _, item := range v.items {
			x, err := toCBOR(item)
			if err != nil {
				return nil, err
			}
			items = append(items, x)
		}
		return items, nil
	case KindComposite:
		pairs := make([]any, 0, len(v.entries))
		for _, e := range v.entries {
			k, err := toCBOR(e.Key)
			if err != nil {
				return nil, err
			}
			x, err := toCBOR(e.Value)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, []any{k, x})
		}
		return cbor.Tag{Number: cborTagComposite, Content: pairs}, nil
	default:
		return nil, fmt.Errorf("family: cbor: unsupported kind %s", v.kind)
	}
}

// cborDecoder maps decoded CBOR items to a tree, charging depth and values
// the way the binary decoder does.
type cborDecoder struct {
	maxDepth  int
	maxValues int
	values    int
}

func (d *cborDecoder) value(item any, depth int) (Value, error) {
	if depth > d.maxDepth {
		return Value{}, fmt.Errorf("family: cbor: maximum nesting depth of %d exceeded", d.maxDepth)
	}
	d.values++
	if d.values > d.maxValues {
		return Value{}, fmt.Errorf("family: cbor: document holds more than %d values", d.maxValues)
	}

	switch x := item.(type) {
	case nil:
		return Empty(), nil
	case bool:
		return Boolean(x), nil
	case int64:
		return Integer(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return UnsignedInt(x), nil
		}
		return Integer(int64(x)), nil
	case float64:
		return Real(x), nil
	case float32:
		return Real(float64(x)), nil
	case string:
		return String(x), nil
	case []byte:
		return ByteVector(x), nil
	case []any:
		items := make([]Value, 0, len(x))
		for _, elem := range x {
			v, err := d.value(elem, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindVector, items: items}, nil
	case map[any]any:
		entries := make([]Entry, 0, len(x))
		for k, elem := range x {
			key, err := d.value(k, depth+1)
			if err != nil {
				return Value{}, err
			}
			value, err := d.value(elem, depth+1)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: key, Value: value})
		}
		slices.SortFunc(entries, func(a, b Entry) int { return a.Key.Compare(b.Key) })
		return Value{kind: KindComposite, entries: entries}, nil
	case cbor.Tag:
		return d.tag(x, depth)
	default:
		return Value{}, fmt.Errorf("family: cbor: unsupported item of type %T", item)
	}
}

func (d *cborDecoder) tag(tag cbor.Tag, depth int) (Value, error) {
	switch tag.Number {
	case cborTagUnsignedInt:
		n, ok := tag.Content.(uint64)
		if !ok {
			return Value{}, fmt.Errorf("family: cbor: tag %d expects an unsigned integer, got %T", tag.Number, tag.Content)
		}
		return UnsignedInt(n), nil
	case cborTagComposite:
		pairs, ok := tag.Content.([]any)
		if !ok {
			return Value{}, fmt.Errorf("family: cbor: tag %d expects an array, got %T", tag.Number, tag.Content)
		}
		entries := make([]Entry, 0, len(pairs))
		for i, p := range pairs {
			pair, ok := p.([]any)
			if !ok || len(pair) != 2 {
				return Value{}, fmt.Errorf("family: cbor: composite entry %d is not a [key, value] pair", i)
			}
			key, err := d.value(pair[0], depth+1)
			if err != nil {
				return Value{}, err
			}
			value, err := d.value(pair[1], depth+1)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: key, Value: value})
		}
		return Value{kind: KindComposite, entries: entries}, nil
	default:
		return Value{}, fmt.Errorf("family: cbor: unsupported tag %d", tag.Number)
	}
}
