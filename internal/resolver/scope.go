// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import "github.com/shiftjson/jsonschema/internal/schema"

// Scope is the runtime dynamic-scope stack spec.md §4.4 requires for
// "$dynamicRef"/"$recursiveRef": the chain of schema resources entered
// via $ref evaluation to reach the current position, outermost first.
// Grounded on the teacher's recordDynamicAnchor/clearDynamicAnchor pair
// (pkg/draft202012/builder.go), which pushes a marker part when a
// $dynamicAnchor is compiled and pops it on the way back out of that
// subschema during evaluation; this type makes that push/pop explicit
// state the evaluator owns instead of synthetic keyword parts spliced
// into the schema tree.
type Scope []*schema.Resource

// Push returns a new Scope with res appended as the innermost frame.
// Resources are pushed once per $ref crossing into a distinct resource,
// not once per keyword, so re-entering the same resource via recursion
// adds another frame (each is a distinct point in the call stack).
func (s Scope) Push(res *schema.Resource) Scope {
	out := make(Scope, len(s)+1)
	copy(out, s)
	out[len(s)] = res
	return out
}

// ResolveDynamic finds the target a "$dynamicRef" to anchor name should
// use, given static (the location a plain "$ref" with the same string
// would resolve to) and the current dynamic scope. Per spec.md §4.4,
// "$dynamicRef" resolves to the outermost resource in the current
// dynamic scope that declares a "$dynamicAnchor" with this name; if
// none does, it behaves exactly like "$ref" (the static target).
func ResolveDynamic(scope Scope, anchorName string, static Location) Location {
	for _, res := range scope {
		for key, a := range res.Anchors {
			if a.Dynamic && anchorSuffix(key) == anchorName {
				return Location{Resource: res, Pointer: a.Pointer}
			}
		}
	}
	return static
}

// ResolveRecursive finds the target a "$recursiveRef" (draft 2019-09)
// should use. Per the draft 2019-09 spec, it resolves to the outermost
// resource in the dynamic scope that declares "$recursiveAnchor": true
// at its root; if the outermost scope resource has no such anchor, it
// behaves like "$ref" to the static target.
func ResolveRecursive(scope Scope, static Location) Location {
	if len(scope) == 0 {
		return static
	}
	outermost := scope[0]
	for _, a := range outermost.Anchors {
		if a.Recursive && len(a.Pointer) == 0 {
			return Location{Resource: outermost, Pointer: nil}
		}
	}
	return static
}

// anchorSuffix extracts the fragment name from an anchorKey-shaped
// "base#name" string, mirroring internal/schema's own anchorKey
// encoding without re-exporting it.
func anchorSuffix(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '#' {
			return key[i+1:]
		}
	}
	return ""
}
