// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
)

// evalUnevaluated checks "unevaluatedProperties"/"unevaluatedItems",
// which must run after every other keyword on this node (and anything
// it delegates to via allOf/anyOf/oneOf/if-then-else/$ref) has had a
// chance to mark its object members or array elements "evaluated" in o
// — eval calls this last for exactly that reason. Grounded on
// internal/validator.ValidateUnevaluatedProperties/
// ValidateUnevaluatedItems's "found" set built from prior notes,
// expressed here as outcome.evalProps/evalItems instead of a side
// *schema.Notes map.
func (e *Evaluator) evalUnevaluated(node *compiler.Node, inst jsonvalue.Value, scope resolver.Scope, depth int, o *outcome) {
	if node.UnevaluatedItems != compiler.NoNode && inst.Kind == jsonvalue.KindArray {
		for i, elem := range inst.Array {
			if o.evalItems[i] {
				continue
			}
			child := e.eval(node.UnevaluatedItems, elem, scope, depth+1)
			o.absorb(child, "unevaluatedItems", itoa(i))
			o.markItem(i)
		}
	}
	if node.UnevaluatedProperties != compiler.NoNode && inst.Kind == jsonvalue.KindObject {
		for _, m := range inst.Members {
			if o.evalProps[m.Name] {
				continue
			}
			child := e.eval(node.UnevaluatedProperties, m.Value, scope, depth+1)
			o.absorb(child, "unevaluatedProperties", m.Name)
			o.markProp(m.Name)
		}
	}
}
