// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
)

// evalRefs follows "$ref" and "$dynamicRef"/"$recursiveRef". A plain
// "$ref" always targets the node compiler.Compile already resolved
// statically. A "$dynamicRef"/"$recursiveRef" instead walks the current
// dynamic scope stack outermost-first, per spec.md §4.4, looking for a
// resource that registered a matching anchor in
// Evaluator.DynamicAnchors; finding none, it falls back to the same
// static target a "$ref" would use.
func (e *Evaluator) evalRefs(node *compiler.Node, inst jsonvalue.Value, scope resolver.Scope, depth int, o *outcome) {
	if node.Ref != compiler.NoNode {
		child := e.eval(node.Ref, inst, scope, depth+1)
		o.absorb(child, "$ref", "")
	}
	if node.DynamicRef == nil {
		return
	}
	target := e.resolveDynamic(node.DynamicRef, scope)
	child := e.eval(target, inst, scope, depth+1)
	kw := "$dynamicRef"
	if node.DynamicRef.Recursive {
		kw = "$recursiveRef"
	}
	o.absorb(child, kw, "")
}

// resolveDynamic finds the NodeIndex a "$dynamicRef"/"$recursiveRef"
// should follow, given the dynamic scope at the point it's evaluated.
func (e *Evaluator) resolveDynamic(dr *compiler.DynamicRef, scope resolver.Scope) compiler.NodeIndex {
	if dr.Recursive {
		if len(scope) == 0 {
			return dr.Static
		}
		if idx, ok := e.DynamicAnchors[compiler.DynamicAnchorKey{Resource: scope[0], Name: ""}]; ok {
			return idx
		}
		return dr.Static
	}
	if dr.AnchorName == "" {
		return dr.Static
	}
	for _, res := range scope {
		if idx, ok := e.DynamicAnchors[compiler.DynamicAnchorKey{Resource: res, Name: dr.AnchorName}]; ok {
			return idx
		}
	}
	return dr.Static
}
