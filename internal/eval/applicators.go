// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
)

// evalApplicators checks allOf/anyOf/oneOf/not/if-then-else. Grounded on
// internal/validator.ValidateAllOf/ValidateAnyOf/ValidateOneOf/
// ValidateIf/ValidateThen/ValidateElse, restructured so each branch's
// evaluated-properties/evaluated-items tracking is merged according to
// spec.md §4.6: allOf always, anyOf/oneOf only from branches that
// passed, if/then/else per the nuance that "if"'s own annotations are
// kept only when "then" (or its absence) lets the node as a whole pass.
func (e *Evaluator) evalApplicators(node *compiler.Node, inst jsonvalue.Value, scope resolver.Scope, depth int, o *outcome) {
	for i, sub := range node.AllOf {
		child := e.eval(sub, inst, scope, depth+1)
		o.absorb(child, "allOf/"+itoa(i), "")
	}

	if len(node.AnyOf) > 0 {
		anyValid := false
		var branchErrs []*outcome
		for i, sub := range node.AnyOf {
			child := e.eval(sub, inst, scope, depth+1)
			if child.valid {
				anyValid = true
				o.absorb(child, "anyOf/"+itoa(i), "")
			} else {
				branchErrs = append(branchErrs, child)
			}
		}
		if !anyValid {
			o.fail("anyOf", "instance does not match any subschema in \"anyOf\"")
			for i, child := range branchErrs {
				o.absorb(child, "anyOf/"+itoa(i), "")
			}
		}
	}

	if len(node.OneOf) > 0 {
		var matched []int
		for i, sub := range node.OneOf {
			child := e.eval(sub, inst, scope, depth+1)
			if child.valid {
				matched = append(matched, i)
				o.absorb(child, "oneOf/"+itoa(i), "")
			}
		}
		switch len(matched) {
		case 1:
			// exactly one match: valid, already absorbed above.
		case 0:
			o.fail("oneOf", "instance does not match any subschema in \"oneOf\"")
		default:
			o.failf("oneOf", "instance matches %d subschemas in \"oneOf\" (%v), want exactly one", len(matched), matched)
		}
	}

	if node.Not != compiler.NoNode {
		child := e.eval(node.Not, inst, scope, depth+1)
		if child.valid {
			o.fail("not", "instance matches schema in \"not\"")
		}
	}

	if node.If != compiler.NoNode {
		ifResult := e.eval(node.If, inst, scope, depth+1)
		if ifResult.valid {
			o.absorb(ifResult, "if", "")
			if node.Then != compiler.NoNode {
				child := e.eval(node.Then, inst, scope, depth+1)
				o.absorb(child, "then", "")
			}
		} else if node.Else != compiler.NoNode {
			child := e.eval(node.Else, inst, scope, depth+1)
			o.absorb(child, "else", "")
		}
	}
}
