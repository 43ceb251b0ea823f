// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolver turns a "$ref"/"$dynamicRef"/"$recursiveRef" string
// into a concrete location in an internal/schema.Registry: a (Resource,
// jsonpointer.Pointer) pair the compiler can lower into an arena node.
// Grounded on the teacher's pkg/draft202012/builder.go resolveRef/
// resolveURI (resolveState.anchors/uris lookup, then a JSON-pointer
// fragment walk), adapted from its *types.Schema result to this
// module's (Resource, Pointer) location and split into a static half
// (this file; everything a $ref needs) and a dynamic half (scope.go;
// what $dynamicRef/$recursiveRef additionally need at evaluation time).
package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/schema"
	"github.com/shiftjson/jsonschema/pkg/juri"
	"github.com/shiftjson/jsonschema/pkg/jsonpointer"
)

// Location names a single schema position: the resource it lives in
// (for its base URI, draft, and anchor table) and the JSON Pointer from
// that resource's root Value down to the schema itself.
type Location struct {
	Resource *schema.Resource
	Pointer  jsonpointer.Pointer
}

// Schema returns the jsonvalue.Value the location points to.
func (l Location) Schema() (jsonvalue.Value, error) {
	return jsonpointer.Eval(l.Resource.Value, l.Pointer)
}

// Resolve resolves ref (the literal string value of a "$ref",
// "$dynamicRef", or "$recursiveRef" keyword) seen at from, against reg.
// It always returns the *static* target: the location a plain "$ref"
// with this same string would name. Callers handling "$dynamicRef" or
// "$recursiveRef" use this as the fallback target when no enclosing
// dynamic scope frame overrides it (scope.go).
func Resolve(reg *schema.Registry, from Location, ref string) (Location, error) {
	refURI, err := juri.Parse(ref)
	if err != nil {
		return Location{}, fmt.Errorf("resolver: invalid reference %q: %w", ref, err)
	}
	target := juri.Normalize(juri.Join(from.Resource.BaseURI, refURI))

	if juri.HasFragment(target) && !juri.IsPointerFragment(target.Fragment) {
		return resolveAnchor(reg, target)
	}

	base := juri.Base(target)
	res := reg.Lookup(base)
	if res == nil {
		return Location{}, fmt.Errorf("resolver: no schema resource registered for %q", juri.String(base))
	}

	var ptr jsonpointer.Pointer
	if target.Fragment != "" {
		ptr, err = jsonpointer.Parse("/" + strings.TrimPrefix(target.Fragment, "/"))
		if err != nil {
			return Location{}, fmt.Errorf("resolver: bad JSON pointer fragment in %q: %w", ref, err)
		}
	}
	if _, err := jsonpointer.Eval(res.Value, ptr); err != nil {
		return Location{}, fmt.Errorf("resolver: %q: %w", ref, err)
	}
	return Location{Resource: res, Pointer: ptr}, nil
}

// resolveAnchor resolves a target URI whose fragment is a plain name
// (not a JSON pointer) against every resource's anchor table. Anchor
// keys are recorded as full "base#name" URIs (internal/schema's
// anchorKey), so — matching the teacher's single flat
// resolveState.anchors map — the owning resource can be any resource in
// the registry, not only the one whose base URI equals target's.
func resolveAnchor(reg *schema.Registry, target *url.URL) (Location, error) {
	key := juri.String(target)
	for _, res := range reg.All() {
		if a, ok := res.Anchors[key]; ok {
			return Location{Resource: res, Pointer: a.Pointer}, nil
		}
	}
	return Location{}, fmt.Errorf("resolver: no anchor registered for %q", key)
}

// AnchorName returns the anchor name ref points to, and whether ref's
// fragment actually is a bare name rather than a JSON pointer. Used by
// the compiler to decide whether a "$dynamicRef" needs
// dynamic-scope tracking at all (spec.md §4.4: a dynamicRef whose
// fragment is a JSON pointer is never really dynamic).
func AnchorName(from Location, ref string) (name string, isAnchor bool, err error) {
	refURI, err := juri.Parse(ref)
	if err != nil {
		return "", false, fmt.Errorf("resolver: invalid reference %q: %w", ref, err)
	}
	target := juri.Normalize(juri.Join(from.Resource.BaseURI, refURI))
	if !juri.HasFragment(target) || juri.IsPointerFragment(target.Fragment) {
		return "", false, nil
	}
	return target.Fragment, true, nil
}
