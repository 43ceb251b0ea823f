// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval is the evaluator driver: it walks an internal/compiler
// Arena against a jsonvalue.Value instance and produces is_valid,
// iter_errors, and apply results (spec.md §4.5, §6). Grounded on
// internal/validator/validator.go's recursive Validate function (one
// big switch over part.Keyword.Name, a *string instance-location stack,
// a Depth counter bounding recursion) but restructured around
// NodeIndex instead of *types.Schema, and around explicit dynamic-scope
// frames (internal/resolver.Scope) instead of the teacher's
// recordDynamicAnchor/clearDynamicAnchor synthetic keywords.
package eval

import (
	"fmt"

	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
	"github.com/shiftjson/jsonschema/pkg/format"
	"github.com/shiftjson/jsonschema/pkg/output"
)

// DefaultMaxDepth bounds reference recursion, matching the teacher's
// internal/validator depth guard (its Depth > 1000 check).
const DefaultMaxDepth = 1000

// Evaluator drives validation of instances against one compiled Result.
type Evaluator struct {
	Arena          *compiler.Arena
	DynamicAnchors map[compiler.DynamicAnchorKey]compiler.NodeIndex
	FormatMode     format.Mode
	MaxDepth       int
}

// New returns an Evaluator for result, with default options.
func New(result *compiler.Result, formatMode format.Mode) *Evaluator {
	return &Evaluator{
		Arena:          result.Arena,
		DynamicAnchors: result.DynamicAnchors,
		FormatMode:     formatMode,
		MaxDepth:       DefaultMaxDepth,
	}
}

// outcome is the internal result of evaluating one node against one
// instance: whether it validated, every failure (if not), every
// annotation collected (if so, or alongside partial failures for
// apply's sake), and which object members / array elements were
// "evaluated" by this node or something it delegates to — the tracking
// spec.md §3 and §4.6 require for unevaluatedProperties/unevaluatedItems.
type outcome struct {
	valid       bool
	errs        []*output.ValidationError
	annotations []output.Annotation
	evalProps   map[string]bool
	evalItems   map[int]bool
}

// fail records a failure owned directly by keyword kw on the node
// currently being evaluated (as opposed to one absorbed from a
// subschema via absorb). kw seeds KeywordLocation immediately so a
// leaf failure like "maxLength" renders "#/maxLength" even before any
// enclosing absorb call prepends the path that reached this node.
func (o *outcome) fail(kw, msg string) {
	o.valid = false
	loc := "#"
	if kw != "" {
		loc = "#/" + kw
	}
	o.errs = append(o.errs, &output.ValidationError{Message: msg, KeywordLocation: loc})
}

func (o *outcome) failf(kw, format string, args ...any) {
	o.fail(kw, fmt.Sprintf(format, args...))
}

func (o *outcome) markProp(name string) {
	if o.evalProps == nil {
		o.evalProps = make(map[string]bool)
	}
	o.evalProps[name] = true
}

func (o *outcome) markItem(i int) {
	if o.evalItems == nil {
		o.evalItems = make(map[int]bool)
	}
	o.evalItems[i] = true
}

// absorb merges child's errors/annotations (re-anchored under kw and,
// for object/array descents, under instTok) into o, propagates child's
// validity into o.valid, and, only if child validated, merges its
// evaluated-member tracking into o too. Unlike
// KeywordLocation (rebuilt fresh on every hop, since it records the path
// actually walked to reach the failure), AbsoluteKeywordLocation is left
// untouched here: it was already stamped as a complete, self-contained
// pointer (resource base URI plus full in-document path) when child's
// own node finished evaluating, and per spec.md §6 it names the
// keyword's true location regardless of how many "$ref"/"properties"/...
// hops the evaluator took to get there.
func (o *outcome) absorb(child *outcome, kw, instTok string) {
	errs := prefixKeywordOnly(child.errs, kw)
	if instTok != "" {
		errs = output.PrefixInstanceLocation(errs, instTok)
	}
	o.errs = append(o.errs, errs...)
	anns := child.annotations
	for i := range anns {
		anns[i].KeywordLocation = "#/" + kw + trimHash(anns[i].KeywordLocation)
		if instTok != "" {
			anns[i].InstanceLocation = "#/" + instTok + trimHash(anns[i].InstanceLocation)
		}
	}
	o.annotations = append(o.annotations, anns...)
	o.valid = o.valid && child.valid
	if !child.valid {
		return
	}
	for name := range child.evalProps {
		o.markProp(name)
	}
	for i := range child.evalItems {
		o.markItem(i)
	}
}

// prefixKeywordOnly prepends kw to every error's KeywordLocation without
// touching AbsoluteKeywordLocation (see absorb's doc comment for why).
func prefixKeywordOnly(errs []*output.ValidationError, kw string) []*output.ValidationError {
	for _, ve := range errs {
		ve.KeywordLocation = "#/" + kw + trimHash(ve.KeywordLocation)
	}
	return errs
}

func trimHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

// Eval evaluates the schema at idx against inst, starting a fresh
// dynamic scope and recursion depth.
func (e *Evaluator) Eval(idx compiler.NodeIndex, inst jsonvalue.Value) *outcome {
	return e.eval(idx, inst, nil, 0)
}

// IsValid reports whether inst satisfies the schema at idx. It runs the
// same full evaluation as Eval and returns only its validity: it does not
// stop at the first failure, and the error messages and annotations are
// still built.
func (e *Evaluator) IsValid(idx compiler.NodeIndex, inst jsonvalue.Value) bool {
	return e.Eval(idx, inst).valid
}

// IterErrors returns every validation failure, in the order the
// recursive descent discovered them (document order, spec.md §4.5).
func (e *Evaluator) IterErrors(idx compiler.NodeIndex, inst jsonvalue.Value) []*output.ValidationError {
	return e.Eval(idx, inst).errs
}

// Apply produces the "basic" output format (spec.md §6).
func (e *Evaluator) Apply(idx compiler.NodeIndex, inst jsonvalue.Value) *output.BasicOutput {
	o := e.Eval(idx, inst)
	out := &output.BasicOutput{Valid: o.valid}
	if o.valid {
		out.Annotations = o.annotations
	} else {
		out.Errors = o.errs
	}
	return out
}

func (e *Evaluator) eval(idx compiler.NodeIndex, inst jsonvalue.Value, scope resolver.Scope, depth int) *outcome {
	o := &outcome{valid: true}
	if depth > e.MaxDepth {
		o.failf("$ref", "maximum reference recursion depth (%d) exceeded", e.MaxDepth)
		return o
	}
	if idx == compiler.NoNode {
		return o
	}
	node := e.Arena.Get(idx)
	if node == nil {
		o.fail("$ref", "internal error: dangling schema reference")
		return o
	}

	if node.BoolSchema != nil {
		if !*node.BoolSchema {
			o.fail("", "the false schema never validates")
			if abs := nodeAbsoluteLocation(node); abs != "" {
				o.errs[0].AbsoluteKeywordLocation = abs
			}
		}
		return o
	}

	if len(scope) == 0 || scope[len(scope)-1] != node.Resource {
		scope = scope.Push(node.Resource)
	}

	e.evalAssertions(node, inst, o)
	e.evalArray(node, inst, scope, depth, o)
	e.evalObject(node, inst, scope, depth, o)
	e.evalApplicators(node, inst, scope, depth, o)
	e.evalRefs(node, inst, scope, depth, o)
	e.evalUnevaluated(node, inst, scope, depth, o)

	// Any error still missing an AbsoluteKeywordLocation was added
	// directly by one of the checks above (rather than absorbed from a
	// child, which stamps its own before returning) — it belongs to a
	// keyword on this node, so stamp it with this node's own location.
	if abs := nodeAbsoluteLocation(node); abs != "" {
		for _, ve := range o.errs {
			if ve.AbsoluteKeywordLocation == "" {
				ve.AbsoluteKeywordLocation = abs + ve.KeywordLocation[1:]
			}
		}
	}

	return o
}

func nodeAbsoluteLocation(node *compiler.Node) string {
	if node.Resource == nil || node.Resource.BaseURI == nil {
		return ""
	}
	return node.Resource.BaseURI.String() + "#" + node.PointerPath
}
