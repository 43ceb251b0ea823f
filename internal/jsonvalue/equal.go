// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

// Equal implements the structural equality used by const, enum, and
// uniqueItems (spec §4.6): numeric equality is by mathematical value (1
// equals 1.0), arrays are ordered, objects are unordered.
func Equal(a, b Value) bool {
	af, aIsNum := a.AsFloat()
	bf, bIsNum := b.AsFloat()
	if aIsNum && bIsNum {
		return af == bf
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	case KindArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !Equal(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for _, am := range a.Members {
			bv, ok := b.Lookup(am.Name)
			if !ok || !Equal(am.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromAny builds a Value from a decoded encoding/json-style any (as
// produced by json.Unmarshal into an any, or constructed by callers
// embedding literal schema/instance fragments in Go code). Object key
// order is not recoverable from a map[string]any, so members come out in
// Go's (randomized) map iteration order; prefer Parse for anything where
// document order or duplicate-key rejection matters.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null
	case bool:
		return Value{Kind: KindBool, Bool: x}
	case int:
		return Value{Kind: KindInt, Int: int64(x)}
	case int64:
		return Value{Kind: KindInt, Int: x}
	case float64:
		if x == float64(int64(x)) && !isInfOrNaN(x) {
			return Value{Kind: KindFloat, Float: x}
		}
		return Value{Kind: KindFloat, Float: x}
	case string:
		return Value{Kind: KindString, Str: x}
	case []any:
		arr := make([]Value, len(x))
		for i, e := range x {
			arr[i] = FromAny(e)
		}
		return Value{Kind: KindArray, Array: arr}
	case map[string]any:
		members := make([]Member, 0, len(x))
		for k, v := range x {
			members = append(members, Member{Name: k, Value: FromAny(v)})
		}
		return Value{Kind: KindObject, Members: members}
	default:
		return Null
	}
}

// ToAny converts a Value back to the encoding/json-style any
// representation, for embedding in ValidationError messages or
// interoperating with callers that hold plain Go values.
func ToAny(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindArray:
		out := make([]any, len(v.Array))
		for i, e := range v.Array {
			out[i] = ToAny(e)
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Members))
		for _, m := range v.Members {
			out[m.Name] = ToAny(m.Value)
		}
		return out
	default:
		return nil
	}
}
