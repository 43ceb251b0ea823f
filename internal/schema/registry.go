// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"net/url"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/pkg/juri"
	"github.com/shiftjson/jsonschema/pkg/jsonpointer"
	"github.com/shiftjson/jsonschema/pkg/retrieve"
)

// Anchor records where a named $anchor/$dynamicAnchor/$recursiveAnchor
// points within a Resource.
type Anchor struct {
	Pointer   jsonpointer.Pointer
	Dynamic   bool // $dynamicAnchor
	Recursive bool // $recursiveAnchor (draft 2019-09)
}

// Resource is a JSON value interpreted as a schema, carrying its draft,
// base URI, and anchor tables, per spec.md §3.
type Resource struct {
	BaseURI *url.URL
	Value   jsonvalue.Value
	Draft   Draft
	Anchors map[string]Anchor // "base#name" (base URI with the anchor name as fragment) -> location
	// RequiredVocabularies/OptionalVocabularies record an explicit
	// $vocabulary declaration (spec.md §3 supplement: 2019-09/2020-12).
	RequiredVocabularies []string
	OptionalVocabularies []string
}

// Registry is the closed mapping from normalized base URI to Resource,
// per spec.md §3's invariant: every reference appearing anywhere in any
// registered Resource resolves into the Registry, or Build fails.
type Registry struct {
	byURI map[string]*Resource
}

// Lookup returns the Resource registered under uri's normalized base (the
// part before any fragment), or nil.
func (r *Registry) Lookup(uri *url.URL) *Resource {
	return r.byURI[juri.String(juri.Base(uri))]
}

// All returns every registered Resource, for iteration during compile.
func (r *Registry) All() map[string]*Resource {
	return r.byURI
}

// BuildOptions configures Build.
type BuildOptions struct {
	// DraftHint is used when $schema is absent. Defaults to Draft7 per
	// spec.md §4.3 step 1.
	DraftHint Draft
	// Retriever fetches external resources. If nil, an unresolved
	// external reference is a compile error.
	Retriever retrieve.Retriever
	// Preregistered lets a caller seed the registry with resources
	// already in hand (spec.md §6 Options.preregistered resources),
	// keyed by their base URI string.
	Preregistered map[string]jsonvalue.Value
	// BaseURI is the explicit base URI for the root schema, overridden
	// by a top-level $id if present.
	BaseURI *url.URL
}

// maxRetrievalCycles bounds re-entrant retrieval, per spec.md §4.2's "a
// cycle counter bounds re-entry".
const maxRetrievalCycles = 1000

// Build scans root (and, transitively, every resource it references) and
// returns a closed Registry, invoking opts.Retriever for every external
// URI discovered, per spec.md §4.3.
func Build(root jsonvalue.Value, opts BuildOptions) (*Registry, error) {
	reg := &Registry{byURI: make(map[string]*Resource)}

	baseURI := opts.BaseURI
	if baseURI == nil {
		baseURI = &url.URL{}
	}

	hint := opts.DraftHint
	if hint == DraftUnknown {
		hint = Draft7
	}

	for uriStr, v := range opts.Preregistered {
		u, err := juri.Parse(uriStr)
		if err != nil {
			return nil, fmt.Errorf("schema: preregistered URI %q: %w", uriStr, err)
		}
		if _, err := registerResource(reg, u, v, hint); err != nil {
			return nil, err
		}
	}

	pending := []*url.URL{}
	if _, err := scanResource(reg, baseURI, root, hint, &pending); err != nil {
		return nil, err
	}

	seen := map[string]bool{juri.String(baseURI): true}
	cycles := 0
	for len(pending) > 0 {
		u := pending[0]
		pending = pending[1:]

		base := juri.Base(u)
		key := juri.String(base)
		if seen[key] || reg.byURI[key] != nil {
			continue
		}
		seen[key] = true

		cycles++
		if cycles > maxRetrievalCycles {
			return nil, fmt.Errorf("schema: retrieval cycle exceeded %d resources, probable reference loop", maxRetrievalCycles)
		}

		if opts.Retriever == nil {
			return nil, fmt.Errorf("schema: unresolved external reference %q and no retriever configured", base)
		}
		v, err := opts.Retriever.Retrieve(base)
		if err != nil {
			return nil, fmt.Errorf("schema: retrieving %q: %w", base, err)
		}
		if _, err := scanResource(reg, base, v, hint, &pending); err != nil {
			return nil, fmt.Errorf("schema: scanning retrieved resource %q: %w", base, err)
		}
	}

	return reg, nil
}

// scanResource registers v as a Resource at uri and walks it for nested
// $id/$anchor declarations and $ref/$dynamicRef/$recursiveRef targets,
// appending unresolved external URIs to *pending.
func scanResource(reg *Registry, uri *url.URL, v jsonvalue.Value, hint Draft, pending *[]*url.URL) (*Resource, error) {
	res, err := registerResource(reg, uri, v, hint)
	if err != nil {
		return nil, err
	}

	w := &walker{reg: reg, res: res, pending: pending}
	if err := w.walk(v, nil, res.BaseURI); err != nil {
		return nil, err
	}
	return res, nil
}

func registerResource(reg *Registry, uri *url.URL, v jsonvalue.Value, hint Draft) (*Resource, error) {
	draft := hint
	if sv, ok := v.Lookup("$schema"); ok && sv.Kind == jsonvalue.KindString {
		if d := DraftFromSchemaURI(sv.Str); d != DraftUnknown {
			draft = d
		}
	}

	res := &Resource{
		BaseURI: juri.Normalize(uri),
		Value:   v,
		Draft:   draft,
		Anchors: make(map[string]Anchor),
	}

	if vv, ok := v.Lookup("$vocabulary"); ok && vv.Kind == jsonvalue.KindObject {
		for _, m := range vv.Members {
			required := m.Value.Kind == jsonvalue.KindBool && m.Value.Bool
			if required {
				res.RequiredVocabularies = append(res.RequiredVocabularies, m.Name)
			} else {
				res.OptionalVocabularies = append(res.OptionalVocabularies, m.Name)
			}
		}
	}

	reg.byURI[juri.String(res.BaseURI)] = res
	return res, nil
}

// walker performs the "scope walk" of spec.md §4.3 step 2: it tracks the
// current base URI as it descends into the schema in document order,
// pushing a new base on $id and recording anchors and reference targets.
type walker struct {
	reg     *Registry
	res     *Resource
	pending *[]*url.URL
}

func (w *walker) walk(v jsonvalue.Value, loc jsonpointer.Pointer, base *url.URL) error {
	if v.Kind == jsonvalue.KindBool {
		return nil // true/false schemas have no $id/$ref to scan.
	}
	if v.Kind != jsonvalue.KindObject {
		return nil
	}

	idKeyword := w.res.Draft.IDKeyword()
	if idv, ok := v.Lookup(idKeyword); ok && idv.Kind == jsonvalue.KindString {
		u, err := juri.Parse(idv.Str)
		if err != nil {
			return fmt.Errorf("at %s: invalid %s %q: %w", loc, idKeyword, idv.Str, err)
		}
		if juri.HasFragment(u) && !w.res.Draft.SupportsIDFragment() {
			return fmt.Errorf("at %s: %s %q has a non-empty fragment, not permitted in %s", loc, idKeyword, idv.Str, w.res.Draft)
		}
		if juri.HasFragment(u) && w.res.Draft.SupportsIDFragment() {
			// Legacy draft 4/6 "$id" as a bare-name anchor.
			w.res.Anchors[anchorKey(base, u.Fragment)] = Anchor{Pointer: loc}
		} else {
			newBase := juri.Normalize(juri.Join(base, u))
			base = newBase
			if len(loc) == 0 {
				// A top-level $id names the resource itself, overriding
				// the base it was registered under.
				w.res.BaseURI = newBase
				w.reg.byURI[juri.String(newBase)] = w.res
			} else {
				// Register this subschema as its own addressable resource
				// so $ref against the new base resolves to loc within the
				// original document (spec.md §4.3 "push a new base URI").
				sub := &Resource{BaseURI: newBase, Value: v, Draft: w.res.Draft, Anchors: make(map[string]Anchor)}
				w.reg.byURI[juri.String(newBase)] = sub
			}
		}
	}

	for _, name := range []string{"$anchor", "$dynamicAnchor"} {
		av, ok := v.Lookup(name)
		if !ok || av.Kind != jsonvalue.KindString {
			continue
		}
		key := anchorKey(base, av.Str)
		if _, dup := w.res.Anchors[key]; dup {
			return fmt.Errorf("at %s: duplicate anchor %q", loc, key)
		}
		w.res.Anchors[key] = Anchor{
			Pointer: loc,
			Dynamic: name == "$dynamicAnchor",
		}
	}

	// "$recursiveAnchor" (draft 2019-09) takes a boolean, not a name, so
	// it can't share the name-keyed lookup above; its resolution
	// (resolver.ResolveRecursive) only ever checks for one at a
	// resource's document root, identified by scanning Anchors for a
	// Recursive entry with an empty Pointer, so any key unique within
	// this resource works.
	if rav, ok := v.Lookup("$recursiveAnchor"); ok && rav.Kind == jsonvalue.KindBool && rav.Bool {
		key := anchorKey(base, "$recursiveAnchor@"+loc.String())
		w.res.Anchors[key] = Anchor{Pointer: loc, Recursive: true}
	}

	for _, name := range []string{"$ref", "$dynamicRef", "$recursiveRef"} {
		rv, ok := v.Lookup(name)
		if !ok || rv.Kind != jsonvalue.KindString {
			continue
		}
		u, err := juri.Parse(rv.Str)
		if err != nil {
			return fmt.Errorf("at %s: invalid %s %q: %w", loc, name, rv.Str, err)
		}
		target := juri.Join(base, u)
		if w.reg.Lookup(target) == nil {
			*w.pending = append(*w.pending, target)
		}
	}

	for _, m := range v.Members {
		if isNonSchemaKeyword(m.Name) {
			continue
		}
		if err := w.walkApplicators(m.Name, m.Value, loc, base); err != nil {
			return err
		}
	}

	return nil
}

// walkApplicators descends into the subschema-valued positions of a
// keyword (properties, items, allOf, and so on), regardless of draft,
// since an unsupported keyword appearing here is simply never looked at
// by the compiler later.
func (w *walker) walkApplicators(name string, v jsonvalue.Value, loc jsonpointer.Pointer, base *url.URL) error {
	switch name {
	case "properties", "patternProperties", "$defs", "definitions", "dependentSchemas":
		if v.Kind != jsonvalue.KindObject {
			return nil
		}
		for _, m := range v.Members {
			if err := w.walk(m.Value, loc.Append(name).Append(m.Name), base); err != nil {
				return err
			}
		}
	case "items", "additionalItems", "additionalProperties", "not", "if", "then", "else",
		"contains", "propertyNames", "unevaluatedProperties", "unevaluatedItems", "contentSchema":
		if v.Kind == jsonvalue.KindArray {
			for i, e := range v.Array {
				if err := w.walk(e, loc.Append(name).Append(itoa(i)), base); err != nil {
					return err
				}
			}
			return nil
		}
		return w.walk(v, loc.Append(name), base)
	case "allOf", "anyOf", "oneOf", "prefixItems":
		if v.Kind != jsonvalue.KindArray {
			return nil
		}
		for i, e := range v.Array {
			if err := w.walk(e, loc.Append(name).Append(itoa(i)), base); err != nil {
				return err
			}
		}
	case "dependencies":
		if v.Kind != jsonvalue.KindObject {
			return nil
		}
		for _, m := range v.Members {
			if m.Value.Kind == jsonvalue.KindObject || m.Value.Kind == jsonvalue.KindBool {
				if err := w.walk(m.Value, loc.Append(name).Append(m.Name), base); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// isNonSchemaKeyword reports keywords whose value is never itself a
// subschema or container of subschemas, so the scope walk need not
// descend into it.
func isNonSchemaKeyword(name string) bool {
	switch name {
	case "$id", "id", "$schema", "$anchor", "$dynamicAnchor", "$recursiveAnchor",
		"$ref", "$dynamicRef", "$recursiveRef", "$vocabulary", "$comment",
		"type", "enum", "const", "required", "multipleOf", "maximum", "minimum",
		"exclusiveMaximum", "exclusiveMinimum", "maxLength", "minLength", "pattern",
		"maxItems", "minItems", "uniqueItems", "maxContains", "minContains",
		"maxProperties", "minProperties", "dependentRequired", "format",
		"contentEncoding", "contentMediaType", "title", "description", "default",
		"examples", "readOnly", "writeOnly", "deprecated":
		return true
	default:
		return false
	}
}

// anchorKey builds the Registry.Anchors lookup key: the base URI with
// the anchor name as fragment.
func anchorKey(base *url.URL, name string) string {
	return juri.String(juri.WithFragment(base, name))
}
