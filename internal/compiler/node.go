// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler lowers a schema resource graph (internal/schema,
// internal/resolver) into a flat arena of Node values addressed by
// integer index, so that "$ref" cycles close through an index rather
// than a pointer cycle (spec.md §4.4, §9). Grounded on the shape of the
// teacher's pkg/types/schema.Schema (a tree of Parts, one per keyword)
// but restructured: instead of one Part per keyword chained in a slice
// searched linearly at validation time (internal/validator.Validate's
// "for _, part := range schema.Parts" loop), every keyword a schema
// object carries is compiled once into named fields on a single Node,
// and every subschema-valued keyword becomes a NodeIndex into the same
// Arena — so a node is visited by array index, never reallocated or
// copied, and a schema that $refs itself simply points its NodeIndex
// back at an already-compiled (or not-yet-finished but already
// allocated) slot.
package compiler

import (
	"regexp"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/schema"
)

// NodeIndex addresses a compiled schema within an Arena. Index 0 is the
// compiled root, so the zero value is a valid index; absence is
// represented by the NoNode sentinel.
type NodeIndex int

// NoNode marks an optional subschema slot ("additionalProperties" with
// no items keyword's remainder, etc.) that isn't present.
const NoNode NodeIndex = -1

// PatternProperty pairs a compiled "patternProperties" regular
// expression with the subschema it guards.
type PatternProperty struct {
	Pattern *regexp.Regexp
	Source  string
	Node    NodeIndex
}

// DynamicRef is the compiled form of a "$dynamicRef" (2020-12) or
// "$recursiveRef" (2019-09): a statically-resolved fallback target plus
// whatever the evaluator needs to additionally check the dynamic scope
// stack at run time.
type DynamicRef struct {
	// Static is the target a plain "$ref" with the same string would
	// resolve to — used when the dynamic scope has no overriding frame.
	Static NodeIndex
	// AnchorName is the bare anchor name a "$dynamicRef" fragment names.
	// Empty for "$recursiveRef" and for a "$dynamicRef" whose fragment
	// is a JSON pointer (never truly dynamic, spec.md §4.4).
	AnchorName string
	// Recursive is true for "$recursiveRef": the scope check looks for
	// "$recursiveAnchor": true at the outermost scope frame instead of
	// a named anchor.
	Recursive bool
	// Resource is the schema resource this ref keyword was compiled
	// from, so the evaluator can push/check dynamic-scope frames
	// keyed by resource identity.
	Resource *schema.Resource
}

// Node is one compiled schema object (or the degenerate "true"/"false"
// schema). Every field left at its zero value means "this keyword was
// absent"; subschema-valued keywords use NoNode for "absent".
type Node struct {
	// BoolSchema is non-nil for the two boolean schema forms: *BoolSchema
	// true accepts everything, false accepts nothing, short-circuiting
	// every other field.
	BoolSchema *bool

	// Location identifies where this node came from, for BasicOutput's
	// absoluteKeywordLocation/keywordLocation fields (spec.md §6).
	Resource    *schema.Resource
	PointerPath string // JSON Pointer from Resource.Value root, e.g. "/properties/name"

	// type
	Types []string

	// enum / const
	HasEnum bool
	Enum    []jsonvalue.Value
	HasConst bool
	Const    jsonvalue.Value

	// numeric
	HasMultipleOf bool
	MultipleOf    float64
	HasMaximum    bool
	Maximum       float64
	HasMinimum    bool
	Minimum       float64
	HasExclusiveMaximum bool
	ExclusiveMaximum    float64
	HasExclusiveMinimum bool
	ExclusiveMinimum    float64

	// string
	HasMaxLength bool
	MaxLength    int
	HasMinLength bool
	MinLength    int
	HasPattern   bool
	Pattern      *regexp.Regexp
	PatternSrc   string
	Format       string // empty if absent

	// array
	HasMaxItems  bool
	MaxItems     int
	HasMinItems  bool
	MinItems     int
	UniqueItems  bool
	PrefixItems  []NodeIndex // draft 2020-12 "prefixItems"
	TupleItems   []NodeIndex // draft ≤2019 "items" as an array (tuple form)
	Items        NodeIndex   // 2020-12 "items" (remainder after prefixItems), or ≤2019 "items" as a single schema
	AdditionalItems NodeIndex // ≤2019 "additionalItems" (remainder after tuple "items")
	Contains        NodeIndex
	HasMaxContains   bool
	MaxContains      int
	HasMinContains   bool
	MinContains      int
	UnevaluatedItems NodeIndex

	// object
	HasMaxProperties bool
	MaxProperties    int
	HasMinProperties bool
	MinProperties    int
	Required         []string
	DependentRequired map[string][]string
	PropertyNames     NodeIndex
	Properties        map[string]NodeIndex
	PatternProperties []PatternProperty
	AdditionalProperties NodeIndex
	DependentSchemas     map[string]NodeIndex
	UnevaluatedProperties NodeIndex

	// applicators
	AllOf []NodeIndex
	AnyOf []NodeIndex
	OneOf []NodeIndex
	Not   NodeIndex
	If    NodeIndex
	Then  NodeIndex
	Else  NodeIndex

	// references
	Ref        NodeIndex // resolved "$ref" target, or NoNode
	DynamicRef *DynamicRef

	// content: recorded only; never asserted, and not emitted as annotations
	ContentEncoding  string
	ContentMediaType string
	ContentSchema    NodeIndex

	// Unrecognized keywords are never an error (spec.md §4.4): their
	// names and values are recorded here, and evaluation does not read
	// them. There is no custom keyword handler.
	Unknown map[string]jsonvalue.Value
}

func newNode() *Node {
	return &Node{
		Items: NoNode, AdditionalItems: NoNode, Contains: NoNode, UnevaluatedItems: NoNode,
		PropertyNames: NoNode, AdditionalProperties: NoNode, UnevaluatedProperties: NoNode,
		Not: NoNode, If: NoNode, Then: NoNode, Else: NoNode,
		Ref: NoNode, ContentSchema: NoNode,
	}
}

// Arena holds every compiled Node for one Validator, addressed by
// NodeIndex. Nodes are appended once, during compilation, and never
// removed or reallocated afterward — the property an evaluator needs to
// let $ref cycles close safely (spec.md §4.4, §9).
type Arena struct {
	Nodes []*Node
}

// Alloc reserves the next slot and returns its index, for use when a
// node's contents aren't known yet (a forward or cyclic $ref target
// being compiled). The caller must later populate Arena.Nodes[idx].
func (a *Arena) Alloc() NodeIndex {
	idx := NodeIndex(len(a.Nodes))
	a.Nodes = append(a.Nodes, nil)
	return idx
}

// Get returns the node at idx.
func (a *Arena) Get(idx NodeIndex) *Node {
	if idx == NoNode {
		return nil
	}
	return a.Nodes[idx]
}
