package family

// Pack returns a copy of v in which every composite key that is a String
// naming a dictionary entry is replaced by UnsignedInt(index), in place.
// Keys outside the dictionary are kept. Vector elements, composite keys and
// composite values are packed recursively.
//
// A key is not rewritten when its packed form is already used by another
// key of the same composite, so entries are never merged. Pack never fails.
func Pack(v Value) Value {
	return rewrite(v, packKey)
}

// Unpack is the inverse of Pack: every composite key UnsignedInt(i) with a
// valid dictionary index is replaced by String(NameAt(i)). Out-of-range
// indices are kept. Unpack never fails.
func Unpack(v Value) Value {
	return rewrite(v, unpackKey)
}

func packKey(k Value) (Value, bool) {
	if k.kind != KindString {
		return k, false
	}
	i, ok := IndexOf(k.strVal)
	if !ok {
		return k, false
	}
	return UnsignedInt(i), true
}

func unpackKey(k Value) (Value, bool) {
	if k.kind != KindUnsignedInt {
		return k, false
	}
	name, ok := NameAt(k.uintVal)
	if !ok {
		return k, false
	}
	return String(name), true
}

// rewrite builds a fresh tree; the input is never modified.
func rewrite(v Value, fn func(Value) (Value, bool)) Value {
	switch v.kind {
	case KindVector:
		items := make([]Value, len(v.items))
		for i := range v.items {
			items[i] = rewrite(v.items[i], fn)
		}
		return Value{kind: KindVector, items: items}
	case KindComposite:
		return rewriteComposite(v, fn)
	default:
		return v.Clone()
	}
}

func rewriteComposite(v Value, fn func(Value) (Value, bool)) Value {
	used := make(map[keyID]struct{}, len(v.entries))
	for _, e := range v.entries {
		if id, ok := scalarKeyID(e.Key); ok {
			used[id] = struct{}{}
		}
	}

	entries := make([]Entry, len(v.entries))
	for i, e := range v.entries {
		key := e.Key
		if candidate, ok := fn(key); ok {
			id, _ := scalarKeyID(candidate)
			if _, taken := used[id]; !taken {
				used[id] = struct{}{}
				key = candidate
			}
		}
		entries[i] = Entry{
			Key:   rewrite(key, fn),
			Value: rewrite(e.Value, fn),
		}
	}
	return Value{kind: KindComposite, entries: entries}
}

// keyID identifies String and UnsignedInt keys for collision checks.
type keyID struct {
	kind Kind
	str  string
	num  uint64
}

func scalarKeyID(k Value) (keyID, bool) {
	switch k.kind {
	case KindString:
		return keyID{kind: KindString, str: k.strVal}, true
	case KindUnsignedInt:
		return keyID{kind: KindUnsignedInt, num: k.uintVal}, true
	}
	return keyID{}, false
}
