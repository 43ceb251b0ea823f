// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
)

// evalObject checks every object-only keyword: size, required,
// dependentRequired/dependentSchemas, propertyNames, properties,
// patternProperties, and additionalProperties. Grounded on
// internal/validator.ValidateProperties/ValidatePatternProperties/
// ValidateAdditionalProperties's "found" bookkeeping, which this package
// expresses as outcome.evalProps rather than a side *schema.Notes map.
func (e *Evaluator) evalObject(node *compiler.Node, inst jsonvalue.Value, scope resolver.Scope, depth int, o *outcome) {
	if inst.Kind != jsonvalue.KindObject {
		return
	}
	if node.HasMaxProperties && len(inst.Members) > node.MaxProperties {
		o.failf("maxProperties", "object has %d properties, exceeds maxProperties %d", len(inst.Members), node.MaxProperties)
	}
	if node.HasMinProperties && len(inst.Members) < node.MinProperties {
		o.failf("minProperties", "object has %d properties, below minProperties %d", len(inst.Members), node.MinProperties)
	}
	for _, name := range node.Required {
		if !inst.Has(name) {
			o.failf("required", "missing required property %q", name)
		}
	}
	for _, m := range inst.Members {
		required, ok := node.DependentRequired[m.Name]
		if !ok {
			continue
		}
		for _, name := range required {
			if !inst.Has(name) {
				o.failf("dependentRequired", "property %q requires property %q (dependentRequired)", m.Name, name)
			}
		}
	}
	for _, m := range inst.Members {
		sub, ok := node.DependentSchemas[m.Name]
		if !ok {
			continue
		}
		child := e.eval(sub, inst, scope, depth+1)
		o.absorb(child, "dependentSchemas/"+m.Name, "")
	}
	if node.PropertyNames != compiler.NoNode {
		for _, m := range inst.Members {
			child := e.eval(node.PropertyNames, jsonvalue.Value{Kind: jsonvalue.KindString, Str: m.Name}, scope, depth+1)
			o.absorb(child, "propertyNames", "")
		}
	}

	claimed := make(map[string]bool, len(inst.Members))

	for _, m := range inst.Members {
		sub, ok := node.Properties[m.Name]
		if !ok {
			continue
		}
		child := e.eval(sub, m.Value, scope, depth+1)
		o.absorb(child, "properties/"+m.Name, m.Name)
		o.markProp(m.Name)
		claimed[m.Name] = true
	}

	for _, pp := range node.PatternProperties {
		for _, m := range inst.Members {
			if !pp.Pattern.MatchString(m.Name) {
				continue
			}
			child := e.eval(pp.Node, m.Value, scope, depth+1)
			o.absorb(child, "patternProperties/"+pp.Source, m.Name)
			o.markProp(m.Name)
			claimed[m.Name] = true
		}
	}

	if node.AdditionalProperties != compiler.NoNode {
		for _, m := range inst.Members {
			if claimed[m.Name] {
				continue
			}
			child := e.eval(node.AdditionalProperties, m.Value, scope, depth+1)
			o.absorb(child, "additionalProperties", m.Name)
			o.markProp(m.Name)
		}
	}
}
