// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	jsoncanonicalizer "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/regexcache"
	"github.com/shiftjson/jsonschema/internal/resolver"
	"github.com/shiftjson/jsonschema/internal/schema"
	"github.com/shiftjson/jsonschema/pkg/format"
)

// Options configures a Compile call.
type Options struct {
	// FormatMode controls whether "format" is asserted, annotated, or
	// skipped (spec.md §4.6). Compile records the keyword regardless;
	// the mode decides how internal/eval treats it.
	FormatMode format.Mode
}

// Result is a fully compiled validator: an Arena plus the entry point
// to start evaluation from.
type Result struct {
	Arena *Arena
	Root  NodeIndex

	// DynamicAnchors maps every "$dynamicAnchor"-bearing resource/name
	// pair (and every "$recursiveAnchor" resource, under the empty
	// name) reachable from Root to its compiled Node, so internal/eval
	// can resolve a "$dynamicRef"/"$recursiveRef" against whichever
	// resource sits on the dynamic scope stack at evaluation time
	// without reaching back into the registry or compiler. Grounded on
	// the deferred design noted while building internal/resolver: this
	// module's evaluator is a real tree-walking interpreter with its
	// own explicit scope stack, so the anchor targets it might jump to
	// are precompiled here rather than looked up live.
	DynamicAnchors map[DynamicAnchorKey]NodeIndex
}

// DynamicAnchorKey identifies one "$dynamicAnchor" (by resource and
// name) or "$recursiveAnchor" (by resource, under the empty name;
// draft 2019-09 permits at most one per resource root) target.
type DynamicAnchorKey struct {
	Resource *schema.Resource
	Name     string
}

// compiler holds state across one Compile call: the registry being
// compiled against, the arena being built, and memoization tables that
// make $ref cycles terminate and identical subschemas share a node.
type compiler struct {
	reg *schema.Registry
	arena *Arena
	opts  Options

	// byLocation memoizes by (resource identity, pointer string),
	// which is what makes a self-referential "$ref" terminate: the
	// second visit to the same location finds its NodeIndex already
	// allocated (possibly still being populated) instead of recursing
	// forever.
	byLocation map[locationKey]NodeIndex

	// byCanonical deduplicates structurally identical subschemas that
	// appear at different locations (e.g. the same enum repeated under
	// several "properties" entries), keyed by their JSON
	// Canonicalization Scheme (RFC 8785) form, per spec.md §9's note
	// that implementations "may deduplicate structurally identical
	// subschemas." Grounded on cyberphone/json-canonicalization, the
	// upstream library lattice-substrate-json-canon reimplements;
	// wiring the real upstream module keeps this repo on a maintained
	// dependency instead of a vendored algorithm.
	byCanonical map[string]NodeIndex
}

type locationKey struct {
	resource *schema.Resource
	pointer  string
}

// Compile lowers the schema resource at root (the location of the
// top-level schema passed to jsonschema.Build) into an Arena.
func Compile(reg *schema.Registry, root resolver.Location, opts Options) (*Result, error) {
	c := &compiler{
		reg:         reg,
		arena:       &Arena{},
		opts:        opts,
		byLocation:  make(map[locationKey]NodeIndex),
		byCanonical: make(map[string]NodeIndex),
	}
	idx, err := c.compileLocation(root)
	if err != nil {
		return nil, err
	}

	dynAnchors := make(map[DynamicAnchorKey]NodeIndex)
	for _, res := range reg.All() {
		for key, a := range res.Anchors {
			if !a.Dynamic && !a.Recursive {
				continue
			}
			if a.Recursive && len(a.Pointer) != 0 {
				// Only a "$recursiveAnchor" at the resource root counts.
				continue
			}
			name := ""
			if a.Dynamic {
				name = anchorName(key)
			}
			dkey := DynamicAnchorKey{Resource: res, Name: name}
			if _, ok := dynAnchors[dkey]; ok {
				continue
			}
			anchorIdx, err := c.compileLocation(resolver.Location{Resource: res, Pointer: a.Pointer})
			if err != nil {
				return nil, err
			}
			dynAnchors[dkey] = anchorIdx
		}
	}

	return &Result{Arena: c.arena, Root: idx, DynamicAnchors: dynAnchors}, nil
}

// anchorName extracts the fragment name from an anchorKey-shaped
// "base#name" string (internal/schema's encoding), mirroring
// internal/resolver's unexported anchorSuffix without re-exporting it.
func anchorName(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '#' {
			return key[i+1:]
		}
	}
	return ""
}

func (c *compiler) compileLocation(loc resolver.Location) (NodeIndex, error) {
	key := locationKey{resource: loc.Resource, pointer: loc.Pointer.String()}
	if idx, ok := c.byLocation[key]; ok {
		return idx, nil
	}

	v, err := loc.Schema()
	if err != nil {
		return NoNode, motmedelErrors.NewWithTrace(fmt.Errorf("compiler: %s: %w", key.pointer, err))
	}

	// Reserve the slot before descending, so a "$ref" cycle back to
	// this exact location finds an index here (even if Nodes[idx] is
	// still nil while we're in the middle of populating it — a cyclic
	// reference is only ever dereferenced lazily, at evaluation time).
	idx := c.arena.Alloc()
	c.byLocation[key] = idx

	if canon, ok := canonicalForm(v); ok && resolutionContextFree(v) {
		if existing, ok := c.byCanonical[canon]; ok {
			c.byLocation[key] = existing
			// The reserved slot goes unused; leave it nil, Get() is
			// never called on an index nobody holds a reference to.
			return existing, nil
		}
		c.byCanonical[canon] = idx
	}

	node, err := c.compileValue(loc, v)
	if err != nil {
		return NoNode, err
	}
	c.arena.Nodes[idx] = node
	return idx, nil
}

// resolutionContextFree reports whether v contains no keyword whose
// meaning depends on the base URI or dynamic scope it's compiled in
// ("$id"/"id" change the base for everything nested inside; "$ref" and
// its relatives resolve relative to the current base). Structural JSON
// equality of two such schemas is only safe to dedupe into one Node
// when neither side's meaning depends on where it sits — e.g. two
// identical {"type":"integer","minimum":1} leaves — never for a schema
// carrying a reference, whose target would silently change if the node
// were shared across two different base URIs.
func resolutionContextFree(v jsonvalue.Value) bool {
	switch v.Kind {
	case jsonvalue.KindObject:
		for _, name := range []string{"$id", "id", "$ref", "$dynamicRef", "$recursiveRef"} {
			if v.Has(name) {
				return false
			}
		}
		for _, m := range v.Members {
			if !resolutionContextFree(m.Value) {
				return false
			}
		}
	case jsonvalue.KindArray:
		for _, elem := range v.Array {
			if !resolutionContextFree(elem) {
				return false
			}
		}
	}
	return true
}

// canonicalForm returns v's JCS canonical serialization for
// deduplication, and false if v can't be canonicalized (numbers outside
// RFC 8785's representable range, etc.) — in which case it's simply
// never deduplicated, never a compile error.
func canonicalForm(v jsonvalue.Value) (string, bool) {
	raw, err := jsonvalue.MarshalCompact(v)
	if err != nil {
		return "", false
	}
	canon, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", false
	}
	return string(canon), true
}

func (c *compiler) compileValue(loc resolver.Location, v jsonvalue.Value) (*Node, error) {
	if v.Kind == jsonvalue.KindBool {
		b := v.Bool
		return &Node{BoolSchema: &b, Resource: loc.Resource, PointerPath: loc.Pointer.String()}, nil
	}
	if v.Kind != jsonvalue.KindObject {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("compiler: %s: schema must be an object or boolean, got %s", loc.Pointer, v.Kind))
	}

	n := newNode()
	n.Resource = loc.Resource
	n.PointerPath = loc.Pointer.String()

	sub := func(name string) (NodeIndex, bool, error) {
		mv, ok := v.Lookup(name)
		if !ok {
			return NoNode, false, nil
		}
		idx, err := c.compileLocation(resolver.Location{Resource: loc.Resource, Pointer: loc.Pointer.Append(name)})
		return idx, true, err
	}

	for _, m := range v.Members {
		switch m.Name {
		case "type":
			switch m.Value.Kind {
			case jsonvalue.KindString:
				n.Types = []string{m.Value.Str}
			case jsonvalue.KindArray:
				for _, e := range m.Value.Array {
					n.Types = append(n.Types, e.Str)
				}
			}
		case "enum":
			n.HasEnum = true
			n.Enum = append([]jsonvalue.Value(nil), m.Value.Array...)
		case "const":
			n.HasConst = true
			n.Const = m.Value
		case "multipleOf":
			n.HasMultipleOf, n.MultipleOf = true, asFloat(m.Value)
		case "maximum":
			n.HasMaximum, n.Maximum = true, asFloat(m.Value)
		case "minimum":
			n.HasMinimum, n.Minimum = true, asFloat(m.Value)
		case "exclusiveMaximum":
			n.HasExclusiveMaximum, n.ExclusiveMaximum = true, asFloat(m.Value)
		case "exclusiveMinimum":
			n.HasExclusiveMinimum, n.ExclusiveMinimum = true, asFloat(m.Value)
		case "maxLength":
			n.HasMaxLength, n.MaxLength = true, int(asFloat(m.Value))
		case "minLength":
			n.HasMinLength, n.MinLength = true, int(asFloat(m.Value))
		case "pattern":
			re, err := regexcache.Compile(m.Value.Str)
			if err != nil {
				return nil, motmedelErrors.NewWithTrace(fmt.Errorf("compiler: %s/pattern: %w", loc.Pointer, err))
			}
			n.HasPattern, n.Pattern, n.PatternSrc = true, re, m.Value.Str
		case "format":
			n.Format = m.Value.Str
		case "maxItems":
			n.HasMaxItems, n.MaxItems = true, int(asFloat(m.Value))
		case "minItems":
			n.HasMinItems, n.MinItems = true, int(asFloat(m.Value))
		case "uniqueItems":
			n.UniqueItems = m.Value.Bool
		case "maxContains":
			n.HasMaxContains, n.MaxContains = true, int(asFloat(m.Value))
		case "minContains":
			n.HasMinContains, n.MinContains = true, int(asFloat(m.Value))
		case "maxProperties":
			n.HasMaxProperties, n.MaxProperties = true, int(asFloat(m.Value))
		case "minProperties":
			n.HasMinProperties, n.MinProperties = true, int(asFloat(m.Value))
		case "required":
			for _, e := range m.Value.Array {
				n.Required = append(n.Required, e.Str)
			}
		case "contentEncoding":
			n.ContentEncoding = m.Value.Str
		case "contentMediaType":
			n.ContentMediaType = m.Value.Str
		}
	}

	var err error
	if n.PrefixItems, err = c.compileArrayOfSchemas(loc, v, "prefixItems"); err != nil {
		return nil, err
	}
	if itemsV, ok := v.Lookup("items"); ok {
		if itemsV.Kind == jsonvalue.KindArray {
			if n.TupleItems, err = c.compileArrayOfSchemas(loc, v, "items"); err != nil {
				return nil, err
			}
		} else {
			if n.Items, _, err = sub("items"); err != nil {
				return nil, err
			}
		}
	}
	if n.AdditionalItems, _, err = sub("additionalItems"); err != nil {
		return nil, err
	}
	if n.Contains, _, err = sub("contains"); err != nil {
		return nil, err
	}
	if n.UnevaluatedItems, _, err = sub("unevaluatedItems"); err != nil {
		return nil, err
	}
	if n.PropertyNames, _, err = sub("propertyNames"); err != nil {
		return nil, err
	}
	if n.AdditionalProperties, _, err = sub("additionalProperties"); err != nil {
		return nil, err
	}
	if n.UnevaluatedProperties, _, err = sub("unevaluatedProperties"); err != nil {
		return nil, err
	}
	if n.Not, _, err = sub("not"); err != nil {
		return nil, err
	}
	if n.If, _, err = sub("if"); err != nil {
		return nil, err
	}
	if n.Then, _, err = sub("then"); err != nil {
		return nil, err
	}
	if n.Else, _, err = sub("else"); err != nil {
		return nil, err
	}
	if n.ContentSchema, _, err = sub("contentSchema"); err != nil {
		return nil, err
	}

	if n.AllOf, err = c.compileArrayOfSchemas(loc, v, "allOf"); err != nil {
		return nil, err
	}
	if n.AnyOf, err = c.compileArrayOfSchemas(loc, v, "anyOf"); err != nil {
		return nil, err
	}
	if n.OneOf, err = c.compileArrayOfSchemas(loc, v, "oneOf"); err != nil {
		return nil, err
	}

	if propsV, ok := v.Lookup("properties"); ok && propsV.Kind == jsonvalue.KindObject {
		n.Properties = make(map[string]NodeIndex, len(propsV.Members))
		for _, m := range propsV.Members {
			idx, err := c.compileLocation(resolver.Location{Resource: loc.Resource, Pointer: loc.Pointer.Append("properties").Append(m.Name)})
			if err != nil {
				return nil, err
			}
			n.Properties[m.Name] = idx
		}
	}
	if ppV, ok := v.Lookup("patternProperties"); ok && ppV.Kind == jsonvalue.KindObject {
		for _, m := range ppV.Members {
			re, err := regexcache.Compile(m.Name)
			if err != nil {
				return nil, motmedelErrors.NewWithTrace(fmt.Errorf("compiler: %s/patternProperties/%s: %w", loc.Pointer, m.Name, err))
			}
			idx, err := c.compileLocation(resolver.Location{Resource: loc.Resource, Pointer: loc.Pointer.Append("patternProperties").Append(m.Name)})
			if err != nil {
				return nil, err
			}
			n.PatternProperties = append(n.PatternProperties, PatternProperty{Pattern: re, Source: m.Name, Node: idx})
		}
	}
	if dsV, ok := v.Lookup("dependentSchemas"); ok && dsV.Kind == jsonvalue.KindObject {
		n.DependentSchemas = make(map[string]NodeIndex, len(dsV.Members))
		for _, m := range dsV.Members {
			idx, err := c.compileLocation(resolver.Location{Resource: loc.Resource, Pointer: loc.Pointer.Append("dependentSchemas").Append(m.Name)})
			if err != nil {
				return nil, err
			}
			n.DependentSchemas[m.Name] = idx
		}
	}
	if drV, ok := v.Lookup("dependentRequired"); ok && drV.Kind == jsonvalue.KindObject {
		n.DependentRequired = make(map[string][]string, len(drV.Members))
		for _, m := range drV.Members {
			var names []string
			for _, e := range m.Value.Array {
				names = append(names, e.Str)
			}
			n.DependentRequired[m.Name] = names
		}
	}
	// Legacy "dependencies" (draft 4/6/7): a member is either an array
	// of required-property names or a subschema.
	if depV, ok := v.Lookup("dependencies"); ok && depV.Kind == jsonvalue.KindObject {
		for _, m := range depV.Members {
			if m.Value.Kind == jsonvalue.KindArray {
				if n.DependentRequired == nil {
					n.DependentRequired = make(map[string][]string)
				}
				var names []string
				for _, e := range m.Value.Array {
					names = append(names, e.Str)
				}
				n.DependentRequired[m.Name] = names
			} else {
				idx, err := c.compileLocation(resolver.Location{Resource: loc.Resource, Pointer: loc.Pointer.Append("dependencies").Append(m.Name)})
				if err != nil {
					return nil, err
				}
				if n.DependentSchemas == nil {
					n.DependentSchemas = make(map[string]NodeIndex)
				}
				n.DependentSchemas[m.Name] = idx
			}
		}
	}

	for _, kw := range []string{"$ref", "$dynamicRef", "$recursiveRef"} {
		rv, ok := v.Lookup(kw)
		if !ok || rv.Kind != jsonvalue.KindString {
			continue
		}
		target, err := resolver.Resolve(c.reg, loc, rv.Str)
		if err != nil {
			return nil, motmedelErrors.NewWithTrace(fmt.Errorf("compiler: %s/%s: %w", loc.Pointer, kw, err))
		}
		targetIdx, err := c.compileLocation(target)
		if err != nil {
			return nil, err
		}
		switch kw {
		case "$ref":
			n.Ref = targetIdx
		case "$dynamicRef":
			name, isAnchor, err := resolver.AnchorName(loc, rv.Str)
			if err != nil {
				return nil, motmedelErrors.NewWithTrace(err)
			}
			dr := &DynamicRef{Static: targetIdx, Resource: loc.Resource}
			if isAnchor {
				dr.AnchorName = name
			}
			n.DynamicRef = dr
		case "$recursiveRef":
			n.DynamicRef = &DynamicRef{Static: targetIdx, Recursive: true, Resource: loc.Resource}
		}
	}

	// Every keyword not matched above (vocabulary-defined annotations
	// like "title"/"description"/"default"/"examples", and any genuinely
	// unrecognized one) is recorded but never fails compilation,
	// per spec.md §4.4.
	known := knownKeywords
	n.Unknown = make(map[string]jsonvalue.Value)
	for _, m := range v.Members {
		if _, ok := known[m.Name]; !ok {
			n.Unknown[m.Name] = m.Value
		}
	}

	return n, nil
}

func (c *compiler) compileArrayOfSchemas(loc resolver.Location, v jsonvalue.Value, name string) ([]NodeIndex, error) {
	av, ok := v.Lookup(name)
	if !ok || av.Kind != jsonvalue.KindArray {
		return nil, nil
	}
	out := make([]NodeIndex, len(av.Array))
	for i := range av.Array {
		idx, err := c.compileLocation(resolver.Location{Resource: loc.Resource, Pointer: loc.Pointer.Append(name).Append(itoa(i))})
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

func asFloat(v jsonvalue.Value) float64 {
	f, _ := v.AsFloat()
	return f
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

var knownKeywords = func() map[string]struct{} {
	names := []string{
		"$id", "id", "$schema", "$anchor", "$dynamicAnchor", "$recursiveAnchor",
		"$ref", "$dynamicRef", "$recursiveRef", "$vocabulary", "$comment", "$defs", "definitions",
		"type", "enum", "const",
		"multipleOf", "maximum", "exclusiveMaximum", "minimum", "exclusiveMinimum",
		"maxLength", "minLength", "pattern", "format",
		"items", "prefixItems", "additionalItems", "contains", "maxItems", "minItems",
		"uniqueItems", "maxContains", "minContains", "unevaluatedItems",
		"properties", "patternProperties", "additionalProperties", "propertyNames",
		"maxProperties", "minProperties", "required", "dependentRequired",
		"dependentSchemas", "dependencies", "unevaluatedProperties",
		"allOf", "anyOf", "oneOf", "not", "if", "then", "else",
		"contentEncoding", "contentMediaType", "contentSchema",
		"title", "description", "default", "examples", "deprecated", "readOnly", "writeOnly",
	}
	m := make(map[string]struct{}, len(names))
	for _, s := range names {
		m[s] = struct{}{}
	}
	return m
}()
