// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonpointer implements RFC 6901 JSON Pointers and evaluates
// them against a jsonvalue.Value tree. Relative JSON Pointers are not
// parsed here; pkg/format checks their syntax, sharing only ValidEscapes
// with this package. The escaping rules mirror the teacher's
// pkg/format/jsonpointer.go relative-pointer grammar check
// (checkJSONPointerEscapes); this package adds parsing, rendering, and
// evaluation on top of that shape check.
package jsonpointer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
)

// Pointer is a parsed JSON Pointer: a sequence of reference tokens.
type Pointer []string

// Parse decodes s (which must start with "/" or be empty) into a
// Pointer, undoing the ~0/~1 escaping.
func Parse(s string) (Pointer, error) {
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("jsonpointer: %q must start with '/'", s)
	}
	raw := strings.Split(s[1:], "/")
	toks := make(Pointer, len(raw))
	for i, r := range raw {
		toks[i] = decodeToken(r)
	}
	return toks, nil
}

// String renders p back into RFC 6901 escaped form, with a leading "/"
// (empty for the root pointer).
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, t := range p {
		sb.WriteByte('/')
		sb.WriteString(encodeToken(t))
	}
	return sb.String()
}

// Append returns a new Pointer with tok appended.
func (p Pointer) Append(tok string) Pointer {
	out := make(Pointer, len(p)+1)
	copy(out, p)
	out[len(p)] = tok
	return out
}

func decodeToken(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}

func encodeToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

// Eval walks v following p, returning the referenced value.
func Eval(v jsonvalue.Value, p Pointer) (jsonvalue.Value, error) {
	cur := v
	for i, tok := range p {
		switch cur.Kind {
		case jsonvalue.KindObject:
			next, ok := cur.Lookup(tok)
			if !ok {
				return jsonvalue.Value{}, fmt.Errorf("jsonpointer: member %q not found at /%s", tok, strings.Join(p[:i+1], "/"))
			}
			cur = next
		case jsonvalue.KindArray:
			if tok == "-" {
				return jsonvalue.Value{}, fmt.Errorf("jsonpointer: %q denotes a non-existent array element", tok)
			}
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(cur.Array) {
				return jsonvalue.Value{}, fmt.Errorf("jsonpointer: index %q out of range for array of length %d", tok, len(cur.Array))
			}
			cur = cur.Array[idx]
		default:
			return jsonvalue.Value{}, fmt.Errorf("jsonpointer: cannot descend into %s with token %q", cur.Kind, tok)
		}
	}
	return cur, nil
}

// ValidEscapes reports whether s's "~" escapes are well-formed (each "~"
// is immediately followed by "0" or "1"), independent of whether s is
// structurally a valid pointer. Used by the "json-pointer" and
// "relative-json-pointer" formats.
func ValidEscapes(s string) bool {
	for {
		_, after, ok := strings.Cut(s, "~")
		if !ok {
			return true
		}
		if len(after) == 0 || (after[0] != '0' && after[0] != '1') {
			return false
		}
		s = after
	}
}
