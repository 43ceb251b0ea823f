// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"math"
	"unicode/utf8"

	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/pkg/format"
	"github.com/shiftjson/jsonschema/pkg/output"
)

// evalAssertions checks every keyword that looks only at the instance's
// own kind/value — type, enum, const, the numeric keywords, and the
// string keywords — none of which descend into a subschema. Grounded on
// internal/validator/validator.go's ValidateType/ValidateEnum/
// ValidateConst/ValidateMultipleOf/ValidateMaximum/.../ValidatePattern,
// adapted to work directly off jsonvalue.Value instead of reflection
// over an any-typed instance.
func (e *Evaluator) evalAssertions(node *compiler.Node, inst jsonvalue.Value, o *outcome) {
	evalType(node, inst, o)
	evalEnum(node, inst, o)
	evalConst(node, inst, o)
	evalNumeric(node, inst, o)
	evalString(node, inst, o, e.FormatMode)
}

func evalType(node *compiler.Node, inst jsonvalue.Value, o *outcome) {
	if len(node.Types) == 0 {
		return
	}
	for _, t := range node.Types {
		if instanceHasType(inst, t) {
			return
		}
	}
	o.failf("type", "instance has type %q, want %v", inst.Kind, node.Types)
}

func instanceHasType(v jsonvalue.Value, t string) bool {
	switch t {
	case "null":
		return v.Kind == jsonvalue.KindNull
	case "boolean":
		return v.Kind == jsonvalue.KindBool
	case "object":
		return v.Kind == jsonvalue.KindObject
	case "array":
		return v.Kind == jsonvalue.KindArray
	case "string":
		return v.Kind == jsonvalue.KindString
	case "integer":
		return v.IsInteger()
	case "number":
		_, ok := v.AsFloat()
		return ok
	default:
		return false
	}
}

func evalEnum(node *compiler.Node, inst jsonvalue.Value, o *outcome) {
	if !node.HasEnum {
		return
	}
	for _, e := range node.Enum {
		if jsonvalue.Equal(inst, e) {
			return
		}
	}
	o.failf("enum", "%s does not match any value in enum", inst)
}

func evalConst(node *compiler.Node, inst jsonvalue.Value, o *outcome) {
	if !node.HasConst {
		return
	}
	if !jsonvalue.Equal(inst, node.Const) {
		o.failf("const", "%s does not equal const value %s", inst, node.Const)
	}
}

func evalNumeric(node *compiler.Node, inst jsonvalue.Value, o *outcome) {
	f, ok := inst.AsFloat()
	if !ok {
		return
	}
	if node.HasMultipleOf {
		quo := f / node.MultipleOf
		if quo != math.Trunc(quo) || math.IsInf(quo, 0) {
			o.failf("multipleOf", "%v is not a multiple of %v", f, node.MultipleOf)
		}
	}
	if node.HasMaximum && f > node.Maximum {
		o.failf("maximum", "%v exceeds maximum %v", f, node.Maximum)
	}
	if node.HasExclusiveMaximum && f >= node.ExclusiveMaximum {
		o.failf("exclusiveMaximum", "%v does not satisfy exclusiveMaximum %v", f, node.ExclusiveMaximum)
	}
	if node.HasMinimum && f < node.Minimum {
		o.failf("minimum", "%v is below minimum %v", f, node.Minimum)
	}
	if node.HasExclusiveMinimum && f <= node.ExclusiveMinimum {
		o.failf("exclusiveMinimum", "%v does not satisfy exclusiveMinimum %v", f, node.ExclusiveMinimum)
	}
}

func evalString(node *compiler.Node, inst jsonvalue.Value, o *outcome, formatMode format.Mode) {
	if inst.Kind != jsonvalue.KindString {
		return
	}
	s := inst.Str
	length := utf8.RuneCountInString(s)
	if node.HasMaxLength && length > node.MaxLength {
		o.failf("maxLength", "string length %d exceeds maxLength %d", length, node.MaxLength)
	}
	if node.HasMinLength && length < node.MinLength {
		o.failf("minLength", "string length %d is below minLength %d", length, node.MinLength)
	}
	if node.HasPattern && !node.Pattern.MatchString(s) {
		o.failf("pattern", "%q does not match pattern %q", s, node.PatternSrc)
	}
	if node.Format == "" || formatMode == format.Off {
		return
	}
	checker, ok := format.Lookup(node.Format)
	if !ok {
		return
	}
	if err := checker(s); err != nil {
		if formatMode == format.Assert {
			o.failf("format", "format %q: %v", node.Format, err)
			return
		}
	}
	o.annotations = append(o.annotations, output.Annotation{Keyword: "format", Value: s})
}
