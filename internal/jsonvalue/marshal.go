// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

import (
	"strconv"
	"unicode/utf8"
)

// MarshalCompact renders v as compact JSON text, suitable as input to a
// JSON Canonicalization Scheme transform. Unlike Value.String, this
// never elides content and escapes strings fully (not just via %q,
// which is Go-string syntax, not JSON-string syntax).
func MarshalCompact(v Value) ([]byte, error) {
	var buf []byte
	buf, err := appendValue(buf, v)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func appendValue(buf []byte, v Value) ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		if v.Bool {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case KindInt:
		return strconv.AppendInt(buf, v.Int, 10), nil
	case KindFloat:
		return strconv.AppendFloat(buf, v.Float, 'g', -1, 64), nil
	case KindString:
		return appendString(buf, v.Str), nil
	case KindArray:
		buf = append(buf, '[')
		for i, e := range v.Array {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = appendValue(buf, e)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindObject:
		buf = append(buf, '{')
		for i, m := range v.Members {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, m.Name)
			buf = append(buf, ':')
			var err error
			buf, err = appendValue(buf, m.Value)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	default:
		return buf, nil
	}
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"', c == '\\':
			buf = append(buf, '\\', c)
			i++
		case c == '\n':
			buf = append(buf, '\\', 'n')
			i++
		case c == '\r':
			buf = append(buf, '\\', 'r')
			i++
		case c == '\t':
			buf = append(buf, '\\', 't')
			i++
		case c < 0x20:
			const hex = "0123456789abcdef"
			buf = append(buf, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
			i++
		case c < utf8.RuneSelf:
			buf = append(buf, c)
			i++
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf = append(buf, c)
				i++
				continue
			}
			buf = append(buf, s[i:i+size]...)
			i += size
		}
	}
	return append(buf, '"')
}
