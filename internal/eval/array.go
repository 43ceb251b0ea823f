// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
)

// evalArray checks every array-only keyword: size, prefixItems/items
// (both 2020-12's split form and the ≤2019 tuple form plus
// additionalItems), contains, and uniqueItems. Grounded on
// internal/validator.ValidatePrefixItems/ValidateItems/ValidateContains,
// restructured around NodeIndex subschemas instead of schema.PartSchemas.
func (e *Evaluator) evalArray(node *compiler.Node, inst jsonvalue.Value, scope resolver.Scope, depth int, o *outcome) {
	if inst.Kind != jsonvalue.KindArray {
		return
	}
	items := inst.Array
	if node.HasMaxItems && len(items) > node.MaxItems {
		o.failf("maxItems", "array has %d items, exceeds maxItems %d", len(items), node.MaxItems)
	}
	if node.HasMinItems && len(items) < node.MinItems {
		o.failf("minItems", "array has %d items, below minItems %d", len(items), node.MinItems)
	}
	if node.UniqueItems {
		for i := 1; i < len(items); i++ {
			for j := 0; j < i; j++ {
				if jsonvalue.Equal(items[i], items[j]) {
					o.failf("uniqueItems", "array elements at indices %d and %d are equal, want uniqueItems", j, i)
				}
			}
		}
	}

	evaluatedThrough := -1 // last index covered by prefixItems/tuple items, inclusive

	if len(node.PrefixItems) > 0 {
		for i, sub := range node.PrefixItems {
			if i >= len(items) {
				break
			}
			child := e.eval(sub, items[i], scope, depth+1)
			o.absorb(child, "prefixItems/"+itoa(i), itoa(i))
			o.markItem(i)
			evaluatedThrough = i
		}
	} else if len(node.TupleItems) > 0 {
		for i, sub := range node.TupleItems {
			if i >= len(items) {
				break
			}
			child := e.eval(sub, items[i], scope, depth+1)
			o.absorb(child, "items/"+itoa(i), itoa(i))
			o.markItem(i)
			evaluatedThrough = i
		}
	}

	if node.Items != compiler.NoNode {
		if len(node.PrefixItems) > 0 {
			// 2020-12 remainder form: "items" covers everything past prefixItems.
			for i := evaluatedThrough + 1; i < len(items); i++ {
				child := e.eval(node.Items, items[i], scope, depth+1)
				o.absorb(child, "items", itoa(i))
				o.markItem(i)
			}
		} else if len(node.TupleItems) == 0 {
			// ≤2019 single-schema "items": applies to every element.
			for i, elem := range items {
				child := e.eval(node.Items, elem, scope, depth+1)
				o.absorb(child, "items", itoa(i))
				o.markItem(i)
			}
			evaluatedThrough = len(items) - 1
		}
	} else if node.AdditionalItems != compiler.NoNode && len(node.TupleItems) > 0 {
		for i := evaluatedThrough + 1; i < len(items); i++ {
			child := e.eval(node.AdditionalItems, items[i], scope, depth+1)
			o.absorb(child, "additionalItems", itoa(i))
			o.markItem(i)
		}
	}

	if node.Contains != compiler.NoNode {
		var matched []int
		for i, elem := range items {
			child := e.eval(node.Contains, elem, scope, depth+1)
			if child.valid {
				matched = append(matched, i)
			}
		}
		min, max := 1, -1
		if node.HasMinContains {
			min = node.MinContains
		}
		if node.HasMaxContains {
			max = node.MaxContains
		}
		// Every element individually satisfying "contains" counts as
		// evaluated regardless of whether the aggregate min/maxContains
		// bound is met, matching the original's mark_evaluated_indexes
		// (it marks on a bare per-item contains.is_valid check, never
		// conditioned on the count the keyword ultimately asserts).
		for _, i := range matched {
			o.markItem(i)
		}
		if len(matched) < min {
			o.failf("contains", "array has %d elements matching \"contains\", want at least %d", len(matched), min)
		} else if max >= 0 && len(matched) > max {
			o.failf("maxContains", "array has %d elements matching \"contains\", want at most %d", len(matched), max)
		}
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
